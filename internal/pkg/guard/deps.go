package guard

// SessionState is the slice of the session controller the guard reads,
// plus token adoption for the OAuth redirect.
type SessionState interface {
	IsLoading() bool
	IsAuthenticated() bool
	AdoptToken(token string)
}

// LogoutMarker exposes the one-shot post-logout flag.
type LogoutMarker interface {
	ConsumeJustLoggedOut() bool
}
