package token_store

import "log"

const (
	keyAuthToken     = "auth_token"
	keyAuthenticated = "authenticated"
	keyJustLoggedOut = "just_logged_out"
)

// Store wraps durable key/value storage for the session token plus the
// transient post-logout marker. Every operation is best-effort: a broken
// storage backend degrades to a session that does not persist, it never
// takes the process down.
type Store struct {
	storage Storage
}

func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Get returns the persisted token, or "" if never set or cleared.
func (s *Store) Get() string {
	token, err := s.storage.Get(keyAuthToken)
	if err != nil {
		log.Printf("token store: failed to read token: %v", err)
		return ""
	}
	return token
}

func (s *Store) Set(token string) {
	if err := s.storage.Set(keyAuthToken, token); err != nil {
		log.Printf("token store: failed to persist token: %v", err)
		return
	}
	if err := s.storage.Set(keyAuthenticated, "true"); err != nil {
		log.Printf("token store: failed to persist auth flag: %v", err)
	}
}

func (s *Store) Clear() {
	if err := s.storage.Delete(keyAuthToken); err != nil {
		log.Printf("token store: failed to clear token: %v", err)
	}
	if err := s.storage.Delete(keyAuthenticated); err != nil {
		log.Printf("token store: failed to clear auth flag: %v", err)
	}
}

// IsAuthenticated is a synchronous presence check only; it does not
// validate the token against the server.
func (s *Store) IsAuthenticated() bool {
	return s.Get() != ""
}

func (s *Store) MarkJustLoggedOut() {
	if err := s.storage.Set(keyJustLoggedOut, "1"); err != nil {
		log.Printf("token store: failed to set logout marker: %v", err)
	}
}

// ConsumeJustLoggedOut reads the one-shot marker and clears it, so a
// second call reports false.
func (s *Store) ConsumeJustLoggedOut() bool {
	v, err := s.storage.Get(keyJustLoggedOut)
	if err != nil {
		log.Printf("token store: failed to read logout marker: %v", err)
		return false
	}
	if v != "1" {
		return false
	}
	if err := s.storage.Delete(keyJustLoggedOut); err != nil {
		log.Printf("token store: failed to clear logout marker: %v", err)
	}
	return true
}
