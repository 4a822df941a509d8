package guard

import (
	"net/http"
	"net/url"
)

// Action is what the guard decided to do with a request.
type Action int

const (
	// ActionCaptureToken redirects to the same path with the token query
	// parameter stripped, after persisting it.
	ActionCaptureToken Action = iota
	// ActionShowLoading renders the interim page while the session is
	// still resolving.
	ActionShowLoading
	// ActionRedirectHome sends an intentionally logged-out visitor to the
	// landing page with no "where you came from" breadcrumb.
	ActionRedirectHome
	// ActionRedirectLogin sends an unauthenticated visitor to the landing
	// page, remembering the path they wanted.
	ActionRedirectLogin
	// ActionAllow serves the protected content.
	ActionAllow
)

func (a Action) String() string {
	switch a {
	case ActionCaptureToken:
		return "capture_token"
	case ActionShowLoading:
		return "show_loading"
	case ActionRedirectHome:
		return "redirect_home"
	case ActionRedirectLogin:
		return "redirect_login"
	case ActionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Guard protects routes that require an authenticated session.
type Guard struct {
	session SessionState
	marker  LogoutMarker
}

func NewGuard(session SessionState, marker LogoutMarker) *Guard {
	return &Guard{session: session, marker: marker}
}

// Decide is the pure guard policy. The checks run in a fixed order:
// token capture wins over everything, then the loading page, then the
// logout marker. The marker beats the auth check on purpose: right after
// logout the stores may still report stale authenticated state, and the
// visit must land on the home page regardless.
func (g *Guard) Decide(hasToken bool) Action {
	if hasToken {
		return ActionCaptureToken
	}
	if g.session.IsLoading() {
		return ActionShowLoading
	}
	if g.marker.ConsumeJustLoggedOut() {
		return ActionRedirectHome
	}
	if g.session.IsAuthenticated() {
		return ActionAllow
	}
	return ActionRedirectLogin
}

// Protect wraps a handler for a route that requires authentication.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")

		switch g.Decide(token != "") {
		case ActionCaptureToken:
			g.session.AdoptToken(token)
			http.Redirect(w, r, stripToken(r.URL), http.StatusFound)

		case ActionShowLoading:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(loadingPage))

		case ActionRedirectHome:
			http.Redirect(w, r, "/", http.StatusFound)

		case ActionRedirectLogin:
			http.Redirect(w, r, "/?from="+url.QueryEscape(r.URL.Path), http.StatusFound)

		case ActionAllow:
			next.ServeHTTP(w, r)
		}
	})
}

// stripToken rebuilds the request URL without the token parameter, so
// the credential never stays visible in the address bar or the logs of
// whatever renders the page next.
func stripToken(u *url.URL) string {
	query := u.Query()
	query.Del("token")

	clean := *u
	clean.RawQuery = query.Encode()
	if clean.Path == "" {
		clean.Path = "/"
	}
	return clean.Path + queryTail(clean.RawQuery)
}

func queryTail(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	return "?" + rawQuery
}

const loadingPage = `<!DOCTYPE html>
<html>
<head><meta http-equiv="refresh" content="1"><title>Loading…</title></head>
<body><p>Resolving session…</p></body>
</html>
`
