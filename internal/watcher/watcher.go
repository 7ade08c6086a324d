// Package watcher rebuilds the knowledge base when watched files change.
//
// There is no incremental update: any change to a watched file triggers a
// full re-ingestion of every source, and the session keeps answering from
// the previous index until the new one is ready.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/kbase/internal/logger"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoPaths is returned when there is nothing to watch.
var ErrNoPaths = errors.New("watcher: no paths to watch")

// RebuildFunc re-ingests every source.
type RebuildFunc func(ctx context.Context) error

// Watcher triggers a rebuild when any watched file is written, created,
// removed or renamed.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	rebuild  RebuildFunc
	debounce time.Duration
	notify   func(error)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	closed  bool
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithNotify registers fn to be called after every rebuild with its result.
func WithNotify(fn func(error)) Option {
	return func(w *Watcher) {
		w.notify = fn
	}
}

// New creates a watcher for paths. The parent directories are watched rather
// than the files themselves so editors that save by renaming are still seen.
func New(paths []string, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		rebuild:  rebuild,
		debounce: DefaultDebounce,
	}
	seen := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.New("watcher: closed")
	}
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher: already running")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			w.mu.Unlock()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.fsw = fsw
	w.running = true
	w.mu.Unlock()

	defer w.Close()
	logger.Debug("watching %d file(s) in %d director(ies)", len(w.files), len(w.dirs))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				logger.Debug("watcher event: %s", event)
				timer.Reset(w.debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		case <-timer.C:
			w.fire(ctx)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// relevant reports whether event touches a watched file in a way that
// changes its content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if _, ok := w.files[abs]; !ok {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *Watcher) fire(ctx context.Context) {
	logger.Section("Re-ingesting after file change")
	err := w.rebuild(ctx)
	if err != nil {
		logger.Warn("re-ingestion failed, keeping previous knowledge base: %v", err)
	}
	if w.notify != nil {
		w.notify(err)
	}
}
