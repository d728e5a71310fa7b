package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fwegner/meetproc/internal/logger"
)

// New creates a Watcher over inputDir. Recordings are handed to the
// handler one at a time; meetings arrive far slower than they process,
// and the collaborators saturate the machine on their own.
func New(inputDir string, handler Handler, log logger.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}

	return &implWatcher{
		inputDir:       inputDir,
		handler:        handler,
		logger:         log,
		watcher:        fsw,
		settleInterval: 2 * time.Second,
	}, nil
}
