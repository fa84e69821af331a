// Package watcher re-runs an action whenever a local document is saved.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called after each debounced change of the watched file.
type Handler func(ctx context.Context) error

// Watch watches file until ctx is cancelled and calls fn once per burst of
// writes, after debounce has elapsed without further events. Handler errors
// are logged and do not stop the watch.
//
// The parent directory is watched rather than the file itself: editors that
// save by writing a temp file and renaming it over the original would
// otherwise detach the watch.
func Watch(ctx context.Context, file string, debounce time.Duration, logger *slog.Logger, fn Handler) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("watcher: resolve %s: %w", file, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watcher: add %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("watcher: started", slog.String("file", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: change settled", slog.String("file", abs))
			if err := fn(ctx); err != nil {
				logger.Error("watcher: handler failed",
					slog.String("file", abs),
					slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			logger.Debug("watcher: event", slog.String("file", abs), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
