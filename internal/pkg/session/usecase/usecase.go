package usecase

import (
	"sync"

	"cloud_drive_agent/internal/pkg/session/domain"
)

// Controller owns the process's single session object and drives the
// side effects around it: token persistence, realtime channel lifetime,
// user identity. All methods are safe for concurrent use.
type Controller struct {
	api      APIClient
	tokens   TokenStore
	channels ChannelManager

	mu      sync.RWMutex
	session domain.Session
}

// NewController starts with an empty loading session; nothing is decided
// until ResolveSession runs.
func NewController(api APIClient, tokens TokenStore, channels ChannelManager) *Controller {
	return &Controller{
		api:      api,
		tokens:   tokens,
		channels: channels,
		session: domain.Session{
			State:     domain.StateUninitialized,
			IsLoading: true,
		},
	}
}

func (c *Controller) setAuthenticated(user *domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.User = user
	c.session.State = domain.StateAuthenticated
	c.session.IsLoading = false
}

func (c *Controller) setAnonymous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.User = nil
	c.session.State = domain.StateAnonymous
	c.session.IsLoading = false
}
