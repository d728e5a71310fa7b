package asr

import (
	"context"

	"github.com/fwegner/meetproc/internal/align"
	"github.com/fwegner/meetproc/pkg/executor"
)

// Transcriber runs the speech-to-text collaborator and returns its
// timestamped segments in order.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, onLine executor.LineHandler) ([]align.Segment, error)
}
