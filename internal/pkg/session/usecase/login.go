package usecase

import (
	"log"

	"cloud_drive_agent/internal/pkg/api_client"
	"cloud_drive_agent/internal/pkg/session/domain"
)

// Login exchanges credentials for a token and opens the realtime channel.
// The token is persisted before the channel connects, so a crash between
// the two still leaves a resumable session. Failures come back as a
// Result value, never a panic.
func (c *Controller) Login(email, password string) domain.Result {
	resp, err := c.api.Login(email, password)
	if err != nil {
		return domain.Result{Success: false, Error: err.Error()}
	}

	c.tokens.Set(resp.Token)
	c.setAuthenticated(c.userFromResponse(resp.User))

	if _, err := c.channels.Connect(resp.Token); err != nil {
		// The session is valid even if the event stream is not.
		log.Printf("session: failed to connect realtime channel: %v", err)
	}

	return domain.Result{Success: true}
}

// userFromResponse falls back to a getCurrentUser round trip when the
// auth response carries no user. Best-effort: the token has already been
// persisted, so a failed fetch degrades to a userless authenticated
// session rather than a failed login.
func (c *Controller) userFromResponse(user *domain.User) *domain.User {
	if user != nil {
		return user
	}
	fetched, err := c.api.GetCurrentUser()
	if err != nil {
		log.Printf("session: failed to fetch user after login: %v", err)
		return nil
	}
	return fetched
}

// Register creates an account and then behaves exactly like Login.
func (c *Controller) Register(email, password string, extra *api_client.RegisterExtra) domain.Result {
	resp, err := c.api.Register(email, password, extra)
	if err != nil {
		return domain.Result{Success: false, Error: err.Error()}
	}

	c.tokens.Set(resp.Token)
	c.setAuthenticated(c.userFromResponse(resp.User))

	if _, err := c.channels.Connect(resp.Token); err != nil {
		log.Printf("session: failed to connect realtime channel: %v", err)
	}

	return domain.Result{Success: true}
}

// AdoptToken installs a token obtained out of band (the OAuth redirect)
// and resolves the user behind it.
func (c *Controller) AdoptToken(token string) {
	c.tokens.Set(token)
	c.ResolveSession()
}
