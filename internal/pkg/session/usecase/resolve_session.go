package usecase

import (
	"log"

	"cloud_drive_agent/internal/pkg/session/domain"
)

// ResolveSession decides the initial session state from the persisted
// token. With no token the session settles anonymous without any network
// traffic. With a token the user is fetched from the backend; an invalid
// token is discarded so the next start skips the round trip too.
func (c *Controller) ResolveSession() {
	c.mu.Lock()
	c.session.State = domain.StateResolving
	c.session.IsLoading = true
	c.mu.Unlock()

	if !c.tokens.IsAuthenticated() {
		c.setAnonymous()
		return
	}

	user, err := c.api.GetCurrentUser()
	if err != nil {
		log.Printf("session: failed to resolve persisted token: %v", err)
		c.tokens.Clear()
		c.setAnonymous()
		return
	}

	c.setAuthenticated(user)

	if _, err := c.channels.Connect(c.tokens.Get()); err != nil {
		log.Printf("session: failed to connect realtime channel: %v", err)
	}
}
