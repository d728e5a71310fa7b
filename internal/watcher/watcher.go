package watcher

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fwegner/meetproc/internal/logger"
	"github.com/fwegner/meetproc/internal/pipeline"
)

type implWatcher struct {
	inputDir       string
	handler        Handler
	logger         logger.Logger
	watcher        *fsnotify.Watcher
	settleInterval time.Duration
}

// Start monitors the input directory for new recordings and processes
// them sequentially.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "watching %s for new recordings", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create == 0 || !pipeline.IsVideo(event.Name) {
				continue
			}

			w.logger.Info(ctx, "new recording detected: %s", event.Name)
			if err := w.waitSettled(ctx, event.Name); err != nil {
				w.logger.Warn(ctx, "recording %s never settled: %v", event.Name, err)
				continue
			}
			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error(ctx, "processing %s failed: %v", event.Name, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "watcher error: %v", err)
		}
	}
}

func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// waitSettled blocks until the file size stops growing. Screen
// recordings are written over several seconds; encoding a file that is
// still being flushed would fail or truncate.
func (w *implWatcher) waitSettled(ctx context.Context, path string) error {
	var lastSize int64 = -1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settleInterval):
		}

		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.Size() > 0 && fi.Size() == lastSize {
			return nil
		}
		lastSize = fi.Size()
	}
}
