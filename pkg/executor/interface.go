package executor

import "context"

// LineHandler receives one line of collaborator output at a time.
type LineHandler func(line string)

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// ExecuteStream runs a command and feeds every output line to onLine
	// as it arrives. Used for long-running tools that report progress on
	// their output streams.
	ExecuteStream(ctx context.Context, onLine LineHandler, name string, args ...string) error
}
