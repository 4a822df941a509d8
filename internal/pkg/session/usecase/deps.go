package usecase

import (
	"cloud_drive_agent/internal/pkg/api_client"
	"cloud_drive_agent/internal/pkg/realtime"
	"cloud_drive_agent/internal/pkg/session/domain"
)

type APIClient interface {
	Login(email, password string) (*api_client.AuthResponse, error)
	Register(email, password string, extra *api_client.RegisterExtra) (*api_client.AuthResponse, error)
	GetCurrentUser() (*domain.User, error)
	GoogleLoginURL() string
}

type ChannelManager interface {
	Connect(token string) (*realtime.Channel, error)
	Disconnect()
}

type TokenStore interface {
	Get() string
	Set(token string)
	Clear()
	IsAuthenticated() bool
	MarkJustLoggedOut()
}
