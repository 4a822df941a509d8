package web_server_service

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"cloud_drive_agent/internal/pkg/api_client"
	"cloud_drive_agent/internal/pkg/cache"
	"cloud_drive_agent/internal/pkg/files/files_service"
	"cloud_drive_agent/internal/pkg/metrics"
	"cloud_drive_agent/internal/pkg/session/domain"
)

// WebServer is the agent's local UI: a landing page with login/register,
// plus guarded drive and shared views rendered from the query cache.
type WebServer struct {
	session SessionController
	cache   QueryCache
	guard   RouteGuard
	port    string
}

func NewWebServer(session SessionController, queryCache QueryCache, guard RouteGuard, port string) *WebServer {
	return &WebServer{
		session: session,
		cache:   queryCache,
		guard:   guard,
		port:    port,
	}
}

// Router builds the route table. Split from Start so tests can drive the
// handler without binding a port.
func (ws *WebServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", ws.handleLanding).Methods(http.MethodGet)
	router.HandleFunc("/login", ws.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/register", ws.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/logout", ws.handleLogout).Methods(http.MethodPost)
	router.HandleFunc("/auth/google", ws.handleGoogleLogin).Methods(http.MethodGet)

	router.Handle("/drive", ws.guard.Protect(http.HandlerFunc(ws.handleDrive))).Methods(http.MethodGet)
	router.Handle("/shared", ws.guard.Protect(http.HandlerFunc(ws.handleShared))).Methods(http.MethodGet)

	router.HandleFunc("/health", ws.handleHealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return router
}

func (ws *WebServer) Start() error {
	log.Printf("Starting web server on port %s", ws.port)
	return http.ListenAndServe(":"+ws.port, ws.Router())
}

func (ws *WebServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (ws *WebServer) handleLanding(w http.ResponseWriter, r *http.Request) {
	if ws.session.IsAuthenticated() {
		http.Redirect(w, r, "/drive", http.StatusFound)
		return
	}

	data := landingData{
		From:  r.URL.Query().Get("from"),
		Error: r.URL.Query().Get("error"),
	}
	renderPage(w, landingTemplate, data)
}

func (ws *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	result := ws.session.Login(r.PostFormValue("email"), r.PostFormValue("password"))
	ws.finishAuthAttempt(w, r, result)
}

func (ws *WebServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	var extra *api_client.RegisterExtra
	firstName := r.PostFormValue("first_name")
	lastName := r.PostFormValue("last_name")
	if firstName != "" || lastName != "" {
		extra = &api_client.RegisterExtra{FirstName: firstName, LastName: lastName}
	}

	result := ws.session.Register(r.PostFormValue("email"), r.PostFormValue("password"), extra)
	ws.finishAuthAttempt(w, r, result)
}

func (ws *WebServer) finishAuthAttempt(w http.ResponseWriter, r *http.Request, result domain.Result) {
	if !result.Success {
		target := "/?error=" + url.QueryEscape(result.Error)
		if from := r.PostFormValue("from"); from != "" {
			target += "&from=" + url.QueryEscape(from)
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	destination := r.PostFormValue("from")
	if !safeDestination(destination) {
		destination = "/drive"
	}
	http.Redirect(w, r, destination, http.StatusFound)
}

// only same-site absolute paths may be post-login targets
func safeDestination(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//")
}

func (ws *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	ws.session.Logout()
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ws *WebServer) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, ws.session.GoogleLoginURL(), http.StatusFound)
}

func (ws *WebServer) handleDrive(w http.ResponseWriter, r *http.Request) {
	value, err := ws.cache.Get(cache.KeyFilesList)
	if err != nil {
		log.Printf("web server: failed to load files: %v", err)
		renderError(w, "Could not load your files. Is the backend up?")
		return
	}

	files, _ := value.([]*files_service.File)
	data := driveData{
		User:  displayName(ws.session.CurrentUser()),
		Files: files,
	}
	renderPage(w, driveTemplate, data)
}

func (ws *WebServer) handleShared(w http.ResponseWriter, r *http.Request) {
	data := sharedData{User: displayName(ws.session.CurrentUser())}

	if value, err := ws.cache.Get(cache.KeySharesWithMe); err == nil {
		if list, ok := value.(*files_service.ShareList); ok && list != nil {
			data.WithMe = list.Shares
		}
	} else {
		log.Printf("web server: failed to load incoming shares: %v", err)
	}

	if value, err := ws.cache.Get(cache.KeySharesByMe); err == nil {
		if list, ok := value.(*files_service.ShareList); ok && list != nil {
			data.ByMe = list.Shares
		}
	} else {
		log.Printf("web server: failed to load outgoing shares: %v", err)
	}

	renderPage(w, sharedTemplate, data)
}

func displayName(user *domain.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Email
	}
	return name
}

func renderPage(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("web server: failed to render page: %v", err)
	}
}

func renderError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	fmt.Fprintf(w, errorPage, template.HTMLEscapeString(message))
}

type landingData struct {
	From  string
	Error string
}

type driveData struct {
	User  string
	Files []*files_service.File
}

type sharedData struct {
	User   string
	WithMe []*files_service.Share
	ByMe   []*files_service.Share
}

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Cloud Drive Agent</title></head>
<body>
  <h1>Cloud Drive Agent</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <h2>Sign in</h2>
  <form method="post" action="/login">
    <input type="hidden" name="from" value="{{.From}}">
    <label>Email <input name="email" type="email" required></label>
    <label>Password <input name="password" type="password" required></label>
    <button type="submit">Sign in</button>
  </form>
  <p><a href="/auth/google">Sign in with Google</a></p>
  <h2>Create account</h2>
  <form method="post" action="/register">
    <input type="hidden" name="from" value="{{.From}}">
    <label>Email <input name="email" type="email" required></label>
    <label>Password <input name="password" type="password" required></label>
    <label>First name <input name="first_name"></label>
    <label>Last name <input name="last_name"></label>
    <button type="submit">Register</button>
  </form>
</body>
</html>
`))

var driveTemplate = template.Must(template.New("drive").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>My Drive</title></head>
<body>
  <p>Signed in as {{.User}} · <a href="/shared">Shared</a></p>
  <form method="post" action="/logout"><button type="submit">Sign out</button></form>
  <h1>My Drive</h1>
  {{if .Files}}
  <table>
    <tr><th>Name</th><th>Size</th><th>Modified</th></tr>
    {{range .Files}}
    <tr><td>{{if .IsFolder}}📁 {{end}}{{.Name}}</td><td>{{.Size}}</td><td>{{.UpdatedAt}}</td></tr>
    {{end}}
  </table>
  {{else}}
  <p>No files yet.</p>
  {{end}}
</body>
</html>
`))

var sharedTemplate = template.Must(template.New("shared").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Shared</title></head>
<body>
  <p>Signed in as {{.User}} · <a href="/drive">My Drive</a></p>
  <h1>Shared with me</h1>
  {{if .WithMe}}
  <ul>
    {{range .WithMe}}<li>{{if .File}}{{.File.Name}}{{else}}{{.FileID}}{{end}} ({{.Permissions}})</li>{{end}}
  </ul>
  {{else}}<p>Nothing shared with you.</p>{{end}}
  <h1>Shared by me</h1>
  {{if .ByMe}}
  <ul>
    {{range .ByMe}}<li>{{if .File}}{{.File.Name}}{{else}}{{.FileID}}{{end}} → {{.SharedWithEmail}}</li>{{end}}
  </ul>
  {{else}}<p>You have not shared anything.</p>{{end}}
</body>
</html>
`))

const errorPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Error</title></head>
<body><h1>Something went wrong</h1><p>%s</p></body>
</html>
`
