// Package watcher reloads tracker state when another process changes the store.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/rankwatch/internal/core/ports/driving"
	"github.com/custodia-labs/rankwatch/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// StateWatcher watches the data directory and, after a burst of writes to
// the store files, reloads the tracker and re-arms the scheduler.
type StateWatcher struct {
	dir       string
	files     map[string]bool
	tracker   driving.TrackerService
	scheduler driving.Scheduler
	debounce  time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	reloads int
}

// Option configures a StateWatcher.
type Option func(*StateWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *StateWatcher) {
		w.debounce = d
	}
}

// New creates a watcher for the given store files inside dir.
func New(
	dir string,
	files []string,
	tracker driving.TrackerService,
	scheduler driving.Scheduler,
	opts ...Option,
) *StateWatcher {
	w := &StateWatcher{
		dir:       dir,
		files:     make(map[string]bool, len(files)),
		tracker:   tracker,
		scheduler: scheduler,
		debounce:  DefaultDebounce,
	}
	for _, f := range files {
		w.files[f] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch blocks until the context is cancelled.
func (w *StateWatcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.mu.Lock()
	w.watcher = fsw
	w.mu.Unlock()
	defer w.Close()

	logger.Debug("watching %s for store changes", w.dir)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleFsEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("store watcher: %v", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

// Close releases the underlying watcher.
func (w *StateWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// Reloads returns how many reloads have been performed.
func (w *StateWatcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// handleFsEvent reports whether the event touches one of the store files.
func (w *StateWatcher) handleFsEvent(event fsnotify.Event) bool {
	if !w.files[filepath.Base(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *StateWatcher) reload(ctx context.Context) {
	if err := w.tracker.Reload(ctx); err != nil {
		logger.Error("reloading tracked domains: %v", err)
		return
	}
	if w.scheduler != nil {
		w.scheduler.Configure(w.tracker.Settings(ctx))
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	logger.Debug("store reloaded after external change")
}
