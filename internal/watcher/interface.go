package watcher

import "context"

// Watcher monitors the input directory for new recordings.
type Watcher interface {
	// Start blocks and dispatches new recordings to the handler until
	// the context is cancelled.
	Start(ctx context.Context) error
	Stop() error
}

// Handler processes one newly arrived recording.
type Handler func(ctx context.Context, path string) error
