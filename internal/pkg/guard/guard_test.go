package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSession struct {
	loading       bool
	authenticated bool
	adopted       []string
}

func (f *fakeSession) IsLoading() bool       { return f.loading }
func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f *fakeSession) AdoptToken(token string) {
	f.adopted = append(f.adopted, token)
	f.authenticated = true
}

type fakeMarker struct {
	set      bool
	consumed int
}

func (f *fakeMarker) ConsumeJustLoggedOut() bool {
	f.consumed++
	if f.set {
		f.set = false
		return true
	}
	return false
}

func protectedOK() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("drive"))
	})
}

func serve(g *Guard, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	g.Protect(protectedOK()).ServeHTTP(rec, req)
	return rec
}

func TestDecideOrder(t *testing.T) {
	session := &fakeSession{loading: true}
	marker := &fakeMarker{set: true}
	g := NewGuard(session, marker)

	if got := g.Decide(true); got != ActionCaptureToken {
		t.Errorf("token should win over everything, got %v", got)
	}
	if got := g.Decide(false); got != ActionShowLoading {
		t.Errorf("loading should win next, got %v", got)
	}
	if marker.consumed != 0 {
		t.Error("marker must not be consumed while loading")
	}

	session.loading = false
	session.authenticated = true
	if got := g.Decide(false); got != ActionRedirectHome {
		t.Errorf("marker should win over the auth check, got %v", got)
	}
	if marker.consumed != 1 {
		t.Errorf("marker should be consumed exactly once, got %d", marker.consumed)
	}

	if got := g.Decide(false); got != ActionAllow {
		t.Errorf("authenticated session should pass once the marker is spent, got %v", got)
	}
}

func TestMarkerWinsOverStaleAuthState(t *testing.T) {
	// A swallowed Clear failure can leave the token behind right after
	// logout; the marker must still send the visit home.
	session := &fakeSession{authenticated: true}
	marker := &fakeMarker{set: true}
	g := NewGuard(session, marker)

	rec := serve(g, "/drive")

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	follow := serve(g, "/drive")
	if follow.Code != http.StatusOK || follow.Body.String() != "drive" {
		t.Errorf("next visit should pass normally, got %d %q", follow.Code, follow.Body.String())
	}
}

func TestTokenCaptureRedirectsToCleanPath(t *testing.T) {
	session := &fakeSession{}
	g := NewGuard(session, &fakeMarker{})

	rec := serve(g, "/drive?token=oauth-secret&view=trash")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	if location != "/drive?view=trash" {
		t.Errorf("token should be stripped, got %q", location)
	}
	if len(session.adopted) != 1 || session.adopted[0] != "oauth-secret" {
		t.Errorf("token should be adopted exactly once, got %v", session.adopted)
	}
}

func TestTokenCaptureHappensExactlyOnce(t *testing.T) {
	session := &fakeSession{}
	g := NewGuard(session, &fakeMarker{})

	rec := serve(g, "/drive?token=oauth-secret")
	follow := serve(g, rec.Header().Get("Location"))

	if len(session.adopted) != 1 {
		t.Errorf("expected one adoption, got %v", session.adopted)
	}
	if follow.Code != http.StatusOK || follow.Body.String() != "drive" {
		t.Errorf("clean request should reach the content, got %d %q", follow.Code, follow.Body.String())
	}
}

func TestLoadingPageWhileResolving(t *testing.T) {
	g := NewGuard(&fakeSession{loading: true}, &fakeMarker{})

	rec := serve(g, "/drive")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "drive" {
		t.Error("protected content must not leak while resolving")
	}
}

func TestJustLoggedOutRedirectsHomeOnce(t *testing.T) {
	marker := &fakeMarker{set: true}
	g := NewGuard(&fakeSession{}, marker)

	first := serve(g, "/drive")
	if first.Code != http.StatusFound || first.Header().Get("Location") != "/" {
		t.Fatalf("expected silent redirect home, got %d %q", first.Code, first.Header().Get("Location"))
	}

	// The marker is one-shot: the next visit is an ordinary unauth redirect.
	second := serve(g, "/drive")
	if second.Header().Get("Location") != "/?from=%2Fdrive" {
		t.Errorf("expected from-redirect, got %q", second.Header().Get("Location"))
	}
}

func TestUnauthenticatedRedirectRemembersPath(t *testing.T) {
	g := NewGuard(&fakeSession{}, &fakeMarker{})

	rec := serve(g, "/shared")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/?from=%2Fshared" {
		t.Errorf("unexpected location %q", got)
	}
}

func TestAuthenticatedPassesThrough(t *testing.T) {
	g := NewGuard(&fakeSession{authenticated: true}, &fakeMarker{})

	rec := serve(g, "/drive")

	if rec.Code != http.StatusOK || rec.Body.String() != "drive" {
		t.Errorf("expected protected content, got %d %q", rec.Code, rec.Body.String())
	}
}
