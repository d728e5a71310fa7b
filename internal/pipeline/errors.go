package pipeline

import "errors"

// Error taxonomy for one job. Encoder and ASR failures abort the job;
// diarization and summarization failures only degrade its output.
var (
	// ErrInput marks an unreadable or corrupt recording. The job is
	// skipped, the batch continues.
	ErrInput = errors.New("input error")

	// ErrCollaborator marks a failed or malformed external tool result.
	ErrCollaborator = errors.New("collaborator failure")

	// ErrFilesystem marks a failed rename or delete. Originals are
	// preserved.
	ErrFilesystem = errors.New("filesystem error")

	// ErrAlreadyProcessed is returned by Process when --skip-processed
	// found every requested artifact already committed.
	ErrAlreadyProcessed = errors.New("already processed")
)
