// Package watch monitors a source tree and signals when recognized files
// change, so a split plan can be regenerated while the code is still moving.
package watch

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papapumpkin/supernova/internal/manifest"
)

// Watcher monitors a source directory tree using fsnotify. Bursts of file
// events are coalesced: one signal per quiet period.
type Watcher struct {
	Dir     string
	Changes <-chan []string // Batches of changed paths, read-only

	changes  chan []string
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher for the directory tree rooted at dir.
// debounce is the quiet period before a batch is emitted; zero uses 500ms.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	ch := make(chan []string, 4)
	w := &Watcher{
		Dir:      dir,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: debounce,
	}
	return w, nil
}

// Start registers the directory tree and begins watching.
func (w *Watcher) Start() error {
	if err := w.addTree(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

// addTree registers dir and every non-ignored subdirectory.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtrees are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && manifest.IgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]struct{})
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	var quietSince time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.flush(pending)
				return
			}
			if !w.relevant(event) {
				continue
			}
			// New directories join the watch set so nested changes are seen.
			if event.Op.Has(fsnotify.Create) {
				_ = w.addTree(event.Name)
			}
			pending[event.Name] = struct{}{}
			quietSince = time.Now()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				w.flush(pending)
				return
			}

		case <-ticker.C:
			if len(pending) > 0 && time.Since(quietSince) >= w.debounce {
				w.flush(pending)
				pending = make(map[string]struct{})
			}
		}
	}
}

// relevant reports whether an event concerns a file the planner would scan.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	base := filepath.Base(event.Name)
	ext := strings.ToLower(filepath.Ext(base))
	if manifest.Recognized(ext, base) {
		return true
	}
	// Creates may be directories; keep them so addTree runs.
	return event.Op.Has(fsnotify.Create) && ext == ""
}

// flush emits the pending batch, sorted for stable output.
func (w *Watcher) flush(pending map[string]struct{}) {
	if len(pending) == 0 {
		return
	}
	batch := make([]string, 0, len(pending))
	for path := range pending {
		batch = append(batch, path)
	}
	// Non-blocking: a slow consumer drops the batch rather than stalling
	// the event loop.
	select {
	case w.changes <- batch:
	default:
	}
}
