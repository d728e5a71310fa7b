// Package pipeline sequences the processing stages for meeting
// recordings: compression, transcription, diarization, alignment,
// naming and cleanup. It owns job state and failure policy; the actual
// collaborator work lives in the media, asr, diarize and summarize
// packages.
package pipeline

import "context"

// Report sums up one batch run.
type Report struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Orchestrator drives recordings through the pipeline.
type Orchestrator interface {
	// Process runs one recording (or, depending on the mode flags, one
	// already-encoded video or one output directory) through the
	// pipeline. Returns ErrAlreadyProcessed when --skip-processed found
	// nothing left to do.
	Process(ctx context.Context, path string) error

	// ProcessAll discovers inputs for the active mode and processes
	// them sequentially. Per-job failures are counted, not propagated,
	// so one bad recording never stops the batch.
	ProcessAll(ctx context.Context) (Report, error)
}
