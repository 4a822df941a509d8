package api_client

// TokenStore is the slice of the token store this client needs: the
// persisted bearer credential, read synchronously per request.
type TokenStore interface {
	Get() string
	IsAuthenticated() bool
}
