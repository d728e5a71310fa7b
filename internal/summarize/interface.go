package summarize

import "context"

// Summarizer extracts a short meeting title and generates a summary from
// a transcript. Both calls are best-effort: callers degrade gracefully
// when they fail.
type Summarizer interface {
	Title(ctx context.Context, transcript string) (string, error)
	Summarize(ctx context.Context, transcript string) (string, error)
}
