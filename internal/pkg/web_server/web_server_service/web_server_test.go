package web_server_service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cloud_drive_agent/internal/pkg/api_client"
	"cloud_drive_agent/internal/pkg/cache"
	"cloud_drive_agent/internal/pkg/files/files_service"
	"cloud_drive_agent/internal/pkg/session/domain"
)

type fakeSession struct {
	authenticated bool
	user          *domain.User
	loginResult   domain.Result
	loggedOut     int
	loginCalls    []string
}

func (f *fakeSession) Login(email, password string) domain.Result {
	f.loginCalls = append(f.loginCalls, email)
	if f.loginResult.Success {
		f.authenticated = true
	}
	return f.loginResult
}

func (f *fakeSession) Register(email, password string, extra *api_client.RegisterExtra) domain.Result {
	return f.Login(email, password)
}

func (f *fakeSession) Logout() {
	f.loggedOut++
	f.authenticated = false
}

func (f *fakeSession) IsAuthenticated() bool     { return f.authenticated }
func (f *fakeSession) CurrentUser() *domain.User { return f.user }
func (f *fakeSession) GoogleLoginURL() string    { return "http://localhost:4000/api/auth/google" }

type fakeCache struct {
	values map[string]interface{}
	errs   map[string]error
}

func (f *fakeCache) Get(key string) (interface{}, error) {
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.values[key], nil
}

// passGuard serves protected content unconditionally; guard policy has
// its own tests.
type passGuard struct{}

func (passGuard) Protect(next http.Handler) http.Handler { return next }

func newServer(session *fakeSession, c *fakeCache) *WebServer {
	if c == nil {
		c = &fakeCache{values: map[string]interface{}{}}
	}
	return NewWebServer(session, c, passGuard{}, "8090")
}

func get(ws *WebServer, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ws.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(ws *WebServer, target string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ws.Router().ServeHTTP(rec, req)
	return rec
}

func TestLandingShowsLoginForm(t *testing.T) {
	ws := newServer(&fakeSession{}, nil)

	rec := get(ws, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/login"`) || !strings.Contains(body, `action="/register"`) {
		t.Error("landing should carry both forms")
	}
}

func TestLandingRedirectsAuthenticatedUser(t *testing.T) {
	ws := newServer(&fakeSession{authenticated: true}, nil)

	rec := get(ws, "/")

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/drive" {
		t.Errorf("expected redirect to /drive, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoginSuccessRedirectsToFrom(t *testing.T) {
	session := &fakeSession{loginResult: domain.Result{Success: true}}
	ws := newServer(session, nil)

	rec := postForm(ws, "/login", url.Values{
		"email":    {"a@b.c"},
		"password": {"secret"},
		"from":     {"/shared"},
	})

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/shared" {
		t.Errorf("expected redirect to /shared, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(session.loginCalls) != 1 || session.loginCalls[0] != "a@b.c" {
		t.Errorf("unexpected login calls %v", session.loginCalls)
	}
}

func TestLoginRejectsOffsiteFrom(t *testing.T) {
	ws := newServer(&fakeSession{loginResult: domain.Result{Success: true}}, nil)

	rec := postForm(ws, "/login", url.Values{
		"email":    {"a@b.c"},
		"password": {"secret"},
		"from":     {"https://evil.example/phish"},
	})

	if got := rec.Header().Get("Location"); got != "/drive" {
		t.Errorf("offsite destination should fall back to /drive, got %q", got)
	}
}

func TestLoginFailureBouncesBackWithError(t *testing.T) {
	session := &fakeSession{loginResult: domain.Result{Success: false, Error: "invalid credentials"}}
	ws := newServer(session, nil)

	rec := postForm(ws, "/login", url.Values{"email": {"a@b.c"}, "password": {"nope"}})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.Contains(location, "error=invalid+credentials") {
		t.Errorf("error should travel in the query, got %q", location)
	}

	landing := get(ws, location)
	if !strings.Contains(landing.Body.String(), "invalid credentials") {
		t.Error("landing should render the error message")
	}
}

func TestLogoutRedirectsHome(t *testing.T) {
	session := &fakeSession{authenticated: true}
	ws := newServer(session, nil)

	rec := postForm(ws, "/logout", url.Values{})

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Errorf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if session.loggedOut != 1 {
		t.Errorf("expected one logout, got %d", session.loggedOut)
	}
}

func TestGoogleLoginRedirectsToBackend(t *testing.T) {
	ws := newServer(&fakeSession{}, nil)

	rec := get(ws, "/auth/google")

	if got := rec.Header().Get("Location"); got != "http://localhost:4000/api/auth/google" {
		t.Errorf("unexpected location %q", got)
	}
}

func TestDriveRendersCachedFiles(t *testing.T) {
	session := &fakeSession{authenticated: true, user: &domain.User{Email: "a@b.c"}}
	c := &fakeCache{values: map[string]interface{}{
		cache.KeyFilesList: []*files_service.File{
			{ID: "f1", Name: "report.pdf", Size: 1024},
			{ID: "d1", Name: "Projects", IsFolder: true},
		},
	}}
	ws := newServer(session, c)

	rec := get(ws, "/drive")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "report.pdf") || !strings.Contains(body, "Projects") {
		t.Error("drive view should list cached files")
	}
	if !strings.Contains(body, "a@b.c") {
		t.Error("drive view should show who is signed in")
	}
}

func TestDriveSurfacesFetchFailure(t *testing.T) {
	session := &fakeSession{authenticated: true}
	c := &fakeCache{errs: map[string]error{cache.KeyFilesList: fmt.Errorf("backend down")}}
	ws := newServer(session, c)

	rec := get(ws, "/drive")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestSharedRendersBothDirections(t *testing.T) {
	session := &fakeSession{authenticated: true, user: &domain.User{FirstName: "Ada", LastName: "L"}}
	c := &fakeCache{values: map[string]interface{}{
		cache.KeySharesWithMe: &files_service.ShareList{Shares: []*files_service.Share{
			{ID: "s1", Permissions: "read", File: &files_service.File{Name: "from-bob.txt"}},
		}},
		cache.KeySharesByMe: &files_service.ShareList{Shares: []*files_service.Share{
			{ID: "s2", Permissions: "read", SharedWithEmail: "bob@example.com", File: &files_service.File{Name: "to-bob.txt"}},
		}},
	}}
	ws := newServer(session, c)

	rec := get(ws, "/shared")

	body := rec.Body.String()
	if !strings.Contains(body, "from-bob.txt") {
		t.Error("incoming shares missing")
	}
	if !strings.Contains(body, "to-bob.txt") || !strings.Contains(body, "bob@example.com") {
		t.Error("outgoing shares missing")
	}
	if !strings.Contains(body, "Ada L") {
		t.Error("display name missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	ws := newServer(&fakeSession{}, nil)

	rec := get(ws, "/health")

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}
