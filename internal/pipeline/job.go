package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fwegner/meetproc/internal/config"
)

// State tracks each stage of a single job.
type State string

const (
	StateDiscovered   State = "discovered"
	StateEncoding     State = "encoding"
	StateEncoded      State = "encoded"
	StateTranscribing State = "transcribing"
	StateTranscribed  State = "transcribed"
	StateDiarizing    State = "diarizing"
	StateAligned      State = "aligned"
	StateNaming       State = "naming"
	StateRenamed      State = "renamed"
	StateCleaningUp   State = "cleaning-up"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Job is one pipeline execution over one recording. Created at
// orchestrator entry, advanced as stages commit, discarded afterwards.
type Job struct {
	ID          string
	Recording   string // input recording path
	OutputDir   string // working output directory (renamed at the end)
	Opts        config.Options
	State       State
	FailedStage State // stage active when the job failed
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewJob creates a job in the discovered state.
func NewJob(recording string, opts config.Options) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Recording: recording,
		Opts:      opts,
		State:     StateDiscovered,
		StartedAt: time.Now(),
	}
}

// transition applies a forward state change. Transitions are
// one-directional; no stage re-enters a prior state within one run.
func (j *Job) transition(to State) error {
	if !isValidTransition(j.State, to) {
		return fmt.Errorf("invalid transition: %s -> %s", j.State, to)
	}
	j.State = to
	return nil
}

// fail records the terminal failed state and the stage it happened in.
func (j *Job) fail() {
	if j.State == StateDone || j.State == StateFailed {
		return
	}
	j.FailedStage = j.State
	j.State = StateFailed
	j.FinishedAt = time.Now()
}

// finish marks successful completion.
func (j *Job) finish() {
	j.State = StateDone
	j.FinishedAt = time.Now()
}

// isValidTransition enforces the forward-only job state machine.
// Mode flags enter the chain late (transcribe-only starts at
// transcribing, diarize-only at diarizing) and compress-only leaves it
// early, so several forward skips are legal edges.
func isValidTransition(from, to State) bool {
	if to == StateFailed {
		return from != StateDone && from != StateFailed
	}

	order := map[State]int{
		StateDiscovered:   0,
		StateEncoding:     1,
		StateEncoded:      2,
		StateTranscribing: 3,
		StateTranscribed:  4,
		StateDiarizing:    5,
		StateAligned:      6,
		StateNaming:       7,
		StateRenamed:      8,
		StateCleaningUp:   9,
		StateDone:         10,
	}

	f, okF := order[from]
	t, okT := order[to]
	return okF && okT && t > f
}
