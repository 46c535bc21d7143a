// Package watch re-runs a handler when watched files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler is invoked after a burst of changes has settled.
type Handler func(ctx context.Context) error

// Config holds watcher configuration.
type Config struct {
	// Debounce is how long the watcher waits after the last event before
	// invoking the handler.
	Debounce time.Duration
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() Config {
	return Config{Debounce: 500 * time.Millisecond}
}

// Watcher watches files of one directory. The directory itself is watched so
// files replaced by editors (write to temp, rename) are still seen.
type Watcher struct {
	config  Config
	logger  *zap.Logger
	dir     string
	names   map[string]struct{}
	handler Handler
}

// New creates a Watcher calling handler when any of names (base names inside
// dir) is created, written, renamed or removed. A nil logger disables logging.
func New(dir string, names []string, handler Handler, config Config, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return &Watcher{
		config:  config,
		logger:  logger,
		dir:     dir,
		names:   set,
		handler: handler,
	}
}

// Run watches until ctx is cancelled. Handler errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.logger.Info("watching for changes", zap.String("dir", w.dir), zap.Int("files", len(w.names)))

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("change detected", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.config.Debounce)
			pending = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil

			if err := w.handler(ctx); err != nil {
				w.logger.Error("handler failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if _, ok := w.names[filepath.Base(event.Name)]; !ok {
		return false
	}

	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Rename) ||
		event.Op.Has(fsnotify.Remove)
}
