package diarize

import (
	"context"
	"errors"

	"github.com/fwegner/meetproc/internal/align"
)

// ErrUnavailable signals that diarization cannot run because no access
// credential is configured. Callers treat it as "skip", not as a failure.
var ErrUnavailable = errors.New("diarization unavailable: no access credential")

// Diarizer runs the speaker-diarization collaborator and returns its
// speaker turns in order. Turns from different speakers may overlap
// briefly; consumers must tolerate that.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]align.Turn, error)
}
