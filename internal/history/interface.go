package history

import (
	"context"
	"time"
)

// Record is one finished job, successful or not.
type Record struct {
	ID          string
	Recording   string
	OutputDir   string
	State       string
	FailedStage string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Recorder persists job outcomes for later inspection.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
