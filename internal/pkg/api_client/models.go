package api_client

import "cloud_drive_agent/internal/pkg/session/domain"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// RegisterExtra carries the optional profile fields for registration.
type RegisterExtra struct {
	FirstName string
	LastName  string
}

// AuthResponse is the normalized result of login/register calls. User, if
// present, is already converted to the canonical shape.
type AuthResponse struct {
	Success bool
	Message string
	Token   string
	User    *domain.User
}

// wireUser is the backend's shape for a user. Name fields arrive in
// snake_case; nothing outside this package sees them that way.
type wireUser struct {
	ID        string                 `json:"id"`
	Email     string                 `json:"email"`
	FirstName string                 `json:"first_name"`
	LastName  string                 `json:"last_name"`
	Profile   map[string]interface{} `json:"profile"`
}

func (u *wireUser) toDomain() *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Profile:   u.Profile,
	}
}

type wireAuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Error   string    `json:"error"`
	User    *wireUser `json:"user"`
}

type wireMeResponse struct {
	Success bool      `json:"success"`
	User    *wireUser `json:"user"`
}
