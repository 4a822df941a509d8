package files_service

// TokenStore provides the bearer credential for outgoing requests.
type TokenStore interface {
	Get() string
}
