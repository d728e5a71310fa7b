package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY,
	recording    TEXT NOT NULL,
	output_dir   TEXT NOT NULL,
	state        TEXT NOT NULL,
	failed_stage TEXT NOT NULL DEFAULT '',
	started_at   TEXT NOT NULL,
	finished_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_recording ON jobs(recording);
`

type implRecorder struct {
	db *sql.DB
}

// New opens (or creates) the history database at path.
func New(path string) (Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &implRecorder{db: db}, nil
}

func (r *implRecorder) Record(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO jobs (id, recording, output_dir, state, failed_stage, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Recording, rec.OutputDir, rec.State, rec.FailedStage,
		rec.StartedAt.Format(time.RFC3339), rec.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record job: %w", err)
	}
	return nil
}

func (r *implRecorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recording, output_dir, state, failed_stage, started_at, finished_at
		FROM jobs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var started, finished string
		if err := rows.Scan(&rec.ID, &rec.Recording, &rec.OutputDir, &rec.State, &rec.FailedStage, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339, started)
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *implRecorder) Close() error {
	return r.db.Close()
}
