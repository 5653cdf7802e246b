package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"letclone/internal/config"
	"letclone/internal/rewrite"
)

// Watcher monitors a source tree and hands settled files to a handler.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	cfg         *config.Config
	log         *zap.Logger
	root        string
	handle      func(path string)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity for debugging and tests.
type Stats struct {
	FilesCreated  int
	FilesModified int
	FilesRemoved  int
	Expansions    int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventOp   string
}

// New creates a Watcher over root. The handler runs once per settled
// file; it is called from the watcher goroutine, so it must not block
// for long.
func New(root string, cfg *config.Config, log *zap.Logger, handle func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     fsw,
		cfg:         cfg,
		log:         log,
		root:        root,
		handle:      handle,
		debounceMap: make(map[string]time.Time),
		debounceDur: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in its own
// goroutine until Stop or context cancellation. A failed Start leaves
// the watcher stopped.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	if err := w.addDirs(w.root); err != nil {
		return err
	}

	// running flips only once the event loop is about to exist; Stop
	// waits on doneCh solely under this flag.
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	w.log.Info("watching for changes",
		zap.String("root", w.root),
		zap.Duration("debounce", w.debounceDur))

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for the event loop to drain. It also
// releases the underlying filesystem watcher, so it is the right call
// even when Start never ran.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
}

// IsWatching returns true while the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.running
}

// GetStats returns a copy of the current watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.stats
}

// Rescan hands every matching file under root to the handler. Useful at
// startup so the watcher starts from an expanded tree.
func (w *Watcher) Rescan() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if w.skipDir(path) {
				return filepath.SkipDir
			}

			return nil
		}

		if w.shouldHandle(path) {
			w.handle(path)

			w.mu.Lock()
			w.stats.Expansions++
			w.mu.Unlock()
		}

		return nil
	})
}

// addDirs registers root and every directory below it.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if w.skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return err
		}

		return nil
	})
}

// run is the main event loop for the watcher.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.log.Error("watch error", zap.Error(err))

			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processDebounced()
		}
	}
}

// handleEvent records a single filesystem event for debounced handling.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A directory created under the root joins the watch set, and any
	// files that landed in it before the Add are picked up by hand.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skipDir(event.Name) {
				return
			}

			if err := w.watcher.Add(event.Name); err != nil {
				w.log.Warn("watching new directory failed", zap.String("dir", event.Name), zap.Error(err))
				return
			}

			w.absorbExisting(event.Name)

			return
		}
	}

	if !w.shouldHandle(event.Name) {
		return
	}

	var op string

	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Write != 0:
		op = "modify"
	case event.Op&fsnotify.Remove != 0:
		op = "remove"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	default:
		return // chmod and friends
	}

	w.log.Debug("file event", zap.String("op", op), zap.String("path", event.Name))

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.stats.LastEventOp = op

	switch op {
	case "create":
		w.stats.FilesCreated++
	case "modify":
		w.stats.FilesModified++
	case "remove", "rename":
		w.stats.FilesRemoved++
		delete(w.debounceMap, event.Name)

		return
	}

	w.debounceMap[event.Name] = time.Now()
}

// processDebounced hands over files that have settled past the debounce
// window.
func (w *Watcher) processDebounced() {
	w.mu.Lock()

	now := time.Now()
	settled := make([]string, 0, len(w.debounceMap))

	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if _, err := os.Stat(path); err != nil {
			continue // deleted while debouncing
		}

		w.handle(path)

		w.mu.Lock()
		w.stats.Expansions++
		w.mu.Unlock()
	}
}

// absorbExisting debounces files already present in a directory that was
// created moments ago, since their events may predate the watch.
func (w *Watcher) absorbExisting(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if w.shouldHandle(path) {
			w.debounceMap[path] = time.Now()
		}
	}
}

// shouldHandle filters events down to expandable source files.
func (w *Watcher) shouldHandle(path string) bool {
	if !w.cfg.MatchesExtension(path) {
		return false
	}

	// Never chase our own suffix-mode outputs.
	if w.cfg.Output.Mode == string(rewrite.ModeSuffix) &&
		strings.HasSuffix(path, w.cfg.Output.Suffix) {
		return false
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}

	return !w.cfg.Excluded(rel)
}

// skipDir filters out hidden and excluded directories.
func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	if base != "." && strings.HasPrefix(base, ".") && path != w.root {
		return true
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}

	return w.cfg.Excluded(rel + "/")
}
