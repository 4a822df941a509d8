package domain

// User is the normalized shape every component works with. The backend
// speaks snake_case for name fields; api_client converts before anything
// else sees the object.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Profile   map[string]interface{}
}

// State is the session lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is the single owned session object. Created empty with
// IsLoading=true at process start; populated by resolution or login;
// cleared on logout.
type Session struct {
	User      *User
	State     State
	IsLoading bool
}

// Result is what login/register style operations hand back to callers.
// Failures are values, not panics.
type Result struct {
	Success bool
	Error   string
}
