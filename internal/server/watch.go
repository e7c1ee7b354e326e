package server

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a Store whenever its fixtures file changes.
type Watcher struct {
	path     string
	store    *Store
	logger   *zap.Logger
	debounce time.Duration
	onReload func(err error)

	mu      sync.Mutex
	pending *time.Timer
	watcher *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadHook is called after every reload attempt with its outcome.
func WithReloadHook(fn func(err error)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// WithDebounce sets the quiet period before a change is reloaded.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher for the fixtures file at path.
func NewWatcher(path string, store *Store, logger *zap.Logger, opts ...WatcherOption) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		logger:   logger,
		debounce: reloadDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start watches the file's directory, so editors that replace the file by
// rename are followed. It runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return err
	}
	w.watcher = fw
	w.logger.Debug("watching fixtures", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.pending != nil {
				w.pending.Stop()
			}
			w.mu.Unlock()
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	err := w.store.Reload(w.path)
	if err != nil {
		w.logger.Error("fixtures reload failed, keeping previous data", zap.String("path", w.path), zap.Error(err))
	} else {
		w.logger.Info("fixtures reloaded", zap.String("path", w.path), zap.Strings("sources", w.store.Names()))
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
