package sqlite_storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func openTestStorage(t *testing.T) (*SqliteStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSqliteStorage(filepath.Join(dir, "agent.db"), filepath.Join(dir, "agent.key"))
	if err != nil {
		t.Fatalf("NewSqliteStorage failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestRoundTrip(t *testing.T) {
	s, _ := openTestStorage(t)

	if err := s.Set("auth_token", "secret-token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get("auth_token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "secret-token" {
		t.Fatalf("expected secret-token, got %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	s, _ := openTestStorage(t)

	got, err := s.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty value for missing key, got %q", got)
	}
}

func TestSetOverwrites(t *testing.T) {
	s, _ := openTestStorage(t)

	if err := s.Set("auth_token", "old"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("auth_token", "new"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get("auth_token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "new" {
		t.Fatalf("expected new, got %q", got)
	}
}

func TestDelete(t *testing.T) {
	s, _ := openTestStorage(t)

	if err := s.Set("auth_token", "secret"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Delete("auth_token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := s.Get("auth_token")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty value after delete, got %q", got)
	}
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "agent.db")
	keyPath := filepath.Join(dir, "agent.key")

	s, err := NewSqliteStorage(dbPath, keyPath)
	if err != nil {
		t.Fatalf("NewSqliteStorage failed: %v", err)
	}
	if err := s.Set("auth_token", "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s2, err := NewSqliteStorage(dbPath, keyPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("auth_token")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got != "persisted" {
		t.Fatalf("expected persisted, got %q", got)
	}
}

func TestTokenNotPlaintextOnDisk(t *testing.T) {
	s, dir := openTestStorage(t)

	const token = "super-secret-bearer-token"
	if err := s.Set("auth_token", token); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list storage dir: %v", err)
	}
	for _, entry := range entries {
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("failed to read %s: %v", entry.Name(), err)
		}
		if bytes.Contains(raw, []byte(token)) {
			t.Fatalf("token stored in plaintext in %s", entry.Name())
		}
	}
}
