package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cloud_drive_agent/internal/pkg/mock_backend/models"
)

// Server is an in-memory stand-in for the real cloud backend: auth,
// files, shares and the realtime event stream, enough to run the agent
// end to end without the production service.
type Server struct {
	agentURL string
	hub      *Hub

	mu        sync.Mutex
	users     map[string]*models.User // by email
	passwords map[string]string       // email -> password
	tokens    map[string]string       // token -> email
	files     map[string]*models.File
	shares    map[string]*models.Share
}

// NewServer takes the agent's base URL, used as the OAuth redirect
// target.
func NewServer(agentURL string) *Server {
	s := &Server{
		agentURL:  strings.TrimSuffix(agentURL, "/"),
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		files:     make(map[string]*models.File),
		shares:    make(map[string]*models.Share),
	}
	s.hub = NewHub(s.tokenValid)
	return s
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", s.handleMe).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/google", s.handleGoogleLogin).Methods(http.MethodGet)

	router.HandleFunc("/api/files", s.handleListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/files/upload", s.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/api/files/folders", s.handleCreateFolder).Methods(http.MethodPost)
	router.HandleFunc("/api/files/{id}", s.handleUpdateFile).Methods(http.MethodPatch)
	router.HandleFunc("/api/files/{id}", s.handleSoftDelete).Methods(http.MethodDelete)
	router.HandleFunc("/api/files/{id}/restore", s.handleRestore).Methods(http.MethodPost)
	router.HandleFunc("/api/files/{id}/permanent", s.handlePermanentDelete).Methods(http.MethodDelete)
	router.HandleFunc("/api/files/{id}/download", s.handleDownloadURL).Methods(http.MethodGet)

	router.HandleFunc("/api/shares/shared-with-me", s.handleSharedWithMe).Methods(http.MethodGet)
	router.HandleFunc("/api/shares/shared-by-me", s.handleSharedByMe).Methods(http.MethodGet)
	router.HandleFunc("/api/shares/{id}/share", s.handleShareFile).Methods(http.MethodPost)
	router.HandleFunc("/api/shares/{id}", s.handleRevokeShare).Methods(http.MethodDelete)

	router.HandleFunc("/realtime", s.hub.Handle)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return router
}

func (s *Server) tokenValid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok
}

// currentUser resolves the bearer token; nil means unauthenticated.
func (s *Server) currentUser(r *http.Request) *models.User {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return nil
	}
	return s.users[email]
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		sendError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		sendError(w, "email already registered", http.StatusConflict)
		return
	}
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	s.users[req.Email] = user
	s.passwords[req.Email] = req.Password
	token := uuid.NewString()
	s.tokens[token] = req.Email
	s.mu.Unlock()

	sendJSON(w, http.StatusCreated, models.AuthResponse{
		Success: true,
		Message: "registered",
		Token:   token,
		User:    user,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	user, exists := s.users[req.Email]
	password := s.passwords[req.Email]
	s.mu.Unlock()

	if !exists || password != req.Password {
		sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = req.Email
	s.mu.Unlock()

	sendJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "logged in",
		Token:   token,
		User:    user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}
	sendJSON(w, http.StatusOK, models.MeResponse{Success: true, User: user})
}

// handleGoogleLogin skips the real consent screen: it signs in a fixed
// demo identity and bounces back to the agent with the token in the
// query string, the same shape the production flow uses.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	const email = "demo.google@example.com"

	s.mu.Lock()
	user, exists := s.users[email]
	if !exists {
		user = &models.User{
			ID:        uuid.NewString(),
			Email:     email,
			FirstName: "Demo",
			LastName:  "Google",
			Profile:   map[string]interface{}{"provider": "google"},
		}
		s.users[email] = user
	}
	token := uuid.NewString()
	s.tokens[token] = email
	s.mu.Unlock()

	http.Redirect(w, r, s.agentURL+"/drive?token="+token, http.StatusFound)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	deleted := r.URL.Query().Get("deleted") == "true"
	search := strings.ToLower(r.URL.Query().Get("search"))

	s.mu.Lock()
	files := make([]*models.File, 0)
	for _, f := range s.files {
		if f.UserID != user.ID || f.IsDeleted != deleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
			continue
		}
		files = append(files, f)
	}
	s.mu.Unlock()

	sendJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		sendError(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer part.Close()
	size, err := io.Copy(io.Discard, part)
	if err != nil {
		sendError(w, "failed to read file", http.StatusBadRequest)
		return
	}

	file := &models.File{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      header.Filename,
		Size:      size,
		MimeType:  header.Header.Get("Content-Type"),
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	if parent := r.FormValue("parentId"); parent != "" {
		file.ParentID = &parent
	}

	s.mu.Lock()
	s.files[file.ID] = file
	s.mu.Unlock()

	s.hub.Broadcast("file:created", file)
	sendJSON(w, http.StatusCreated, map[string]interface{}{"file": file})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		sendError(w, "name is required", http.StatusBadRequest)
		return
	}

	folder := &models.File{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      req.Name,
		IsFolder:  true,
		ParentID:  req.ParentID,
		CreatedAt: now(),
		UpdatedAt: now(),
	}

	s.mu.Lock()
	s.files[folder.ID] = folder
	s.mu.Unlock()

	s.hub.Broadcast("folder:created", folder)
	sendJSON(w, http.StatusCreated, map[string]interface{}{"folder": folder})
}

func (s *Server) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.ownedFile(w, r)
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name"`
		ParentID *string `json:"parentId"`
		Starred  *bool   `json:"starred"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if req.Name != nil {
		file.Name = *req.Name
	}
	if req.ParentID != nil {
		file.ParentID = req.ParentID
	}
	if req.Starred != nil {
		file.IsStarred = *req.Starred
	}
	file.UpdatedAt = now()
	s.mu.Unlock()

	s.hub.Broadcast("file:updated", file)
	sendJSON(w, http.StatusOK, map[string]interface{}{"file": file})
}

func (s *Server) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.ownedFile(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	file.IsDeleted = true
	file.UpdatedAt = now()
	s.mu.Unlock()

	s.hub.Broadcast("file:deleted", nil)
	sendJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.ownedFile(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	file.IsDeleted = false
	file.UpdatedAt = now()
	s.mu.Unlock()

	s.hub.Broadcast("file:restored", file)
	sendJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handlePermanentDelete(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.ownedFile(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	delete(s.files, file.ID)
	for id, share := range s.shares {
		if share.FileID == file.ID {
			delete(s.shares, id)
		}
	}
	s.mu.Unlock()

	s.hub.Broadcast("file:deleted", nil)
	sendJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.ownedFile(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"downloadUrl": "https://mock-storage.example.com/download/" + file.ID,
	})
}

func (s *Server) handleSharedWithMe(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	shares := make([]*models.Share, 0)
	for _, share := range s.shares {
		if share.SharedWithEmail == user.Email {
			shares = append(shares, share)
		}
	}
	s.mu.Unlock()

	sendJSON(w, http.StatusOK, shareList(shares))
}

func (s *Server) handleSharedByMe(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	shares := make([]*models.Share, 0)
	for _, share := range s.shares {
		if share.OwnerID == user.ID {
			shares = append(shares, share)
		}
	}
	s.mu.Unlock()

	sendJSON(w, http.StatusOK, shareList(shares))
}

func (s *Server) handleShareFile(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	fileID := mux.Vars(r)["id"]
	var req struct {
		Email       string `json:"email"`
		Permissions string `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		sendError(w, "email is required", http.StatusBadRequest)
		return
	}
	if req.Permissions == "" {
		req.Permissions = "view"
	}

	s.mu.Lock()
	file, exists := s.files[fileID]
	if !exists || file.UserID != user.ID {
		s.mu.Unlock()
		sendError(w, "file not found", http.StatusNotFound)
		return
	}
	share := &models.Share{
		ID:              uuid.NewString(),
		FileID:          fileID,
		OwnerID:         user.ID,
		Permissions:     req.Permissions,
		SharedWithEmail: req.Email,
		CreatedAt:       now(),
		File:            file,
	}
	s.shares[share.ID] = share
	s.mu.Unlock()

	s.hub.Broadcast("share:created", share)
	sendJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "share": share})
}

func (s *Server) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	shareID := mux.Vars(r)["id"]
	s.mu.Lock()
	share, exists := s.shares[shareID]
	if !exists || share.OwnerID != user.ID {
		s.mu.Unlock()
		sendError(w, "share not found", http.StatusNotFound)
		return
	}
	delete(s.shares, shareID)
	s.mu.Unlock()

	s.hub.Broadcast("share:revoked", nil)
	sendJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ownedFile loads the path's file and checks ownership, writing the
// error response itself when something is off.
func (s *Server) ownedFile(w http.ResponseWriter, r *http.Request) (*models.User, *models.File, bool) {
	user := s.currentUser(r)
	if user == nil {
		sendError(w, "invalid token", http.StatusUnauthorized)
		return nil, nil, false
	}

	id := mux.Vars(r)["id"]
	s.mu.Lock()
	file, exists := s.files[id]
	s.mu.Unlock()
	if !exists || file.UserID != user.ID {
		sendError(w, "file not found", http.StatusNotFound)
		return nil, nil, false
	}
	return user, file, true
}

func shareList(shares []*models.Share) models.ShareList {
	return models.ShareList{
		Shares: shares,
		Total:  len(shares),
		Page:   1,
		Limit:  20,
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("mock backend: failed to encode response: %v", err)
	}
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}
