// Package watcher monitors the content JSON directory and fires a
// callback when records change on disk. Editors and sync tools write in
// bursts, so changes are debounced: the callback runs once per quiet
// period, not once per write.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/foliolab/folio-server/internal/logger"
)

// DefaultDebounce is the quiet period after the last write before the
// change callback fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single content directory for JSON file changes.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func()
	log      *logger.Logger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Watcher over dir. onChange is invoked from the watch
// goroutine after a debounced burst of changes.
func New(dir string, debounce time.Duration, onChange func(), log *logger.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		fsw:      fsw,
	}, nil
}

// Start processes events until the context is cancelled. It blocks; run
// it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info("watching content directory", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debug("content change detected", "file", filepath.Base(event.Name), "op", event.Op.String())
			w.bump()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// Close releases the underlying watch.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fsw.Close()
}

// bump resets the debounce timer; the callback fires once the directory
// has been quiet for the full period.
func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.log.Info("content changed, notifying")
		w.onChange()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// relevant filters to JSON content mutations. Chmod-only events and
// editor temp files are noise.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".json")
}
