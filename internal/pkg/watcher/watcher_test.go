package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cloud_drive_agent/internal/pkg/files/files_service"
)

type recordingUploader struct {
	mu    sync.Mutex
	paths []string
}

func (u *recordingUploader) UploadFileFromPath(path string, parentID *string) (*files_service.File, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paths = append(u.paths, path)
	return &files_service.File{ID: "f1", Name: filepath.Base(path)}, nil
}

func (u *recordingUploader) snapshot() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.paths...)
}

type staticSession struct{ authenticated bool }

func (s staticSession) IsAuthenticated() bool { return s.authenticated }

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Info(string)    {}

func startWatcher(t *testing.T, authenticated bool) (string, *recordingUploader) {
	t.Helper()
	dir := t.TempDir()
	uploader := &recordingUploader{}
	w := NewWatcher(dir, uploader, staticSession{authenticated: authenticated}, silentNotifier{})
	w.settle = 50 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return dir, uploader
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNewFileIsUploadedOnce(t *testing.T) {
	dir, uploader := startWatcher(t, true)

	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	waitFor(t, "upload", func() bool { return len(uploader.snapshot()) == 1 })
	if got := uploader.snapshot()[0]; got != path {
		t.Errorf("unexpected upload path %q", got)
	}

	time.Sleep(150 * time.Millisecond)
	if got := len(uploader.snapshot()); got != 1 {
		t.Errorf("expected exactly one upload, got %d", got)
	}
}

func TestRepeatedWritesCoalesce(t *testing.T) {
	dir, uploader := startWatcher(t, true)

	path := filepath.Join(dir, "big.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := f.Write([]byte("chunk")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		f.Sync()
		time.Sleep(10 * time.Millisecond)
	}
	f.Close()

	waitFor(t, "upload", func() bool { return len(uploader.snapshot()) >= 1 })
	time.Sleep(150 * time.Millisecond)
	if got := len(uploader.snapshot()); got != 1 {
		t.Errorf("writes should coalesce into one upload, got %d", got)
	}
}

func TestHiddenFilesIgnored(t *testing.T) {
	dir, uploader := startWatcher(t, true)

	if err := os.WriteFile(filepath.Join(dir, ".partial"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := len(uploader.snapshot()); got != 0 {
		t.Errorf("hidden files should be ignored, got %d uploads", got)
	}
}

func TestUnauthenticatedSkipsUpload(t *testing.T) {
	dir, uploader := startWatcher(t, false)

	if err := os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := len(uploader.snapshot()); got != 0 {
		t.Errorf("no uploads expected while logged out, got %d", got)
	}
}
