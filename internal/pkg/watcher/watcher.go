package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay quiet before it is considered
// fully written. Editors and downloads emit many writes per file.
const settleDelay = 2 * time.Second

// Watcher uploads files dropped into a local directory. Creation and
// write events restart a per-file timer; the upload fires once the file
// settles. Files are skipped while the session is unauthenticated.
type Watcher struct {
	dir      string
	uploader Uploader
	session  SessionState
	notifier Notifier

	fsw    *fsnotify.Watcher
	done   chan struct{}
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewWatcher(dir string, uploader Uploader, session SessionState, notifier Notifier) *Watcher {
	return &Watcher{
		dir:      dir,
		uploader: uploader,
		session:  session,
		notifier: notifier,
		done:     make(chan struct{}),
		settle:   settleDelay,
		pending:  make(map[string]*time.Timer),
	}
}

// Start begins watching. It returns once the underlying watcher is
// registered; event handling runs on a background goroutine until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %v", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %v", w.dir, err)
	}

	w.fsw = fsw
	log.Printf("watcher: watching %s for new files", w.dir)
	go w.run()
	return nil
}

// Stop ends event handling and cancels pending uploads.
func (w *Watcher) Stop() {
	close(w.done)
	if w.fsw != nil {
		w.fsw.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.schedule(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)
		}
	}
}

// schedule (re)arms the settle timer for one path.
func (w *Watcher) schedule(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.upload(path)
	})
}

func (w *Watcher) upload(path string) {
	if !w.session.IsAuthenticated() {
		log.Printf("watcher: skipping %s, not authenticated", path)
		return
	}

	file, err := w.uploader.UploadFileFromPath(path, nil)
	if err != nil {
		log.Printf("watcher: failed to upload %s: %v", path, err)
		w.notifier.Info("Upload failed: " + filepath.Base(path))
		return
	}
	w.notifier.Success("Uploaded " + file.Name)
}
