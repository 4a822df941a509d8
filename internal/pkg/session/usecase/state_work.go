package usecase

import "cloud_drive_agent/internal/pkg/session/domain"

// IsAuthenticated holds as soon as either the user is resolved or a
// token is persisted. The OR matters during startup: a token exists but
// the user fetch has not finished yet.
func (c *Controller) IsAuthenticated() bool {
	c.mu.RLock()
	user := c.session.User
	c.mu.RUnlock()
	return user != nil || c.tokens.IsAuthenticated()
}

func (c *Controller) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.IsLoading
}

func (c *Controller) State() domain.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.State
}

func (c *Controller) CurrentUser() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.User
}

// Session returns a copy of the current session object.
func (c *Controller) Session() domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// GoogleLoginURL is where a browser should be sent to start the OAuth
// flow; the token comes back on the redirect.
func (c *Controller) GoogleLoginURL() string {
	return c.api.GoogleLoginURL()
}
