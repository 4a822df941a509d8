package web_server_service

import (
	"net/http"

	"cloud_drive_agent/internal/pkg/api_client"
	"cloud_drive_agent/internal/pkg/session/domain"
)

// SessionController is the slice of the session usecase the web UI needs.
type SessionController interface {
	Login(email, password string) domain.Result
	Register(email, password string, extra *api_client.RegisterExtra) domain.Result
	Logout()
	IsAuthenticated() bool
	CurrentUser() *domain.User
	GoogleLoginURL() string
}

// QueryCache serves the cached listings backing the views.
type QueryCache interface {
	Get(key string) (interface{}, error)
}

// RouteGuard wraps protected routes.
type RouteGuard interface {
	Protect(next http.Handler) http.Handler
}
