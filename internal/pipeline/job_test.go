package pipeline

import (
	"testing"

	"github.com/fwegner/meetproc/internal/config"
)

func TestTransitionForwardChain(t *testing.T) {
	job := NewJob("rec.mov", config.Options{})

	chain := []State{
		StateEncoding, StateEncoded,
		StateTranscribing, StateTranscribed,
		StateDiarizing, StateAligned,
		StateNaming, StateRenamed,
		StateCleaningUp,
	}
	for _, s := range chain {
		if err := job.transition(s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
}

func TestTransitionSkipsForward(t *testing.T) {
	// Transcribe-only enters at transcribing, diarize-only at diarizing.
	job := NewJob("rec.mov", config.Options{})
	if err := job.transition(StateTranscribing); err != nil {
		t.Errorf("discovered -> transcribing: %v", err)
	}

	job = NewJob("rec.mov", config.Options{})
	if err := job.transition(StateDiarizing); err != nil {
		t.Errorf("discovered -> diarizing: %v", err)
	}
}

func TestTransitionRejectsBackward(t *testing.T) {
	job := NewJob("rec.mov", config.Options{})
	if err := job.transition(StateTranscribed); err != nil {
		t.Fatal(err)
	}
	if err := job.transition(StateEncoding); err == nil {
		t.Error("transcribed -> encoding accepted, want rejection")
	}
	if err := job.transition(StateTranscribed); err == nil {
		t.Error("transcribed -> transcribed accepted, want rejection")
	}
}

func TestFailRecordsStage(t *testing.T) {
	job := NewJob("rec.mov", config.Options{})
	if err := job.transition(StateEncoding); err != nil {
		t.Fatal(err)
	}

	job.fail()
	if job.State != StateFailed {
		t.Errorf("State = %s, want %s", job.State, StateFailed)
	}
	if job.FailedStage != StateEncoding {
		t.Errorf("FailedStage = %s, want %s", job.FailedStage, StateEncoding)
	}
	if job.FinishedAt.IsZero() {
		t.Error("FinishedAt not set")
	}
}

func TestTerminalStatesStayTerminal(t *testing.T) {
	job := NewJob("rec.mov", config.Options{})
	job.finish()
	if err := job.transition(StateEncoding); err == nil {
		t.Error("transition out of done accepted")
	}

	prev := job.State
	job.fail()
	if job.State != prev {
		t.Error("fail() changed a finished job")
	}
}
