package usecase

// Logout tears the session down. The order is deliberate: the one-shot
// logout marker is set first so the next page render can tell an
// intentional logout from an expired session, then the channel drops,
// then credentials and identity go away. Logging out while logged out
// is a no-op apart from the marker.
func (c *Controller) Logout() {
	c.tokens.MarkJustLoggedOut()
	c.channels.Disconnect()
	c.tokens.Clear()
	c.setAnonymous()
}
