package diarize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwegner/meetproc/internal/align"
)

// turnRecord is one element of the helper's JSON output.
type turnRecord struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Diarize invokes the pyannote helper on the extracted audio and parses
// its speaker turns. The helper prints a JSON array of
// {start, end, speaker} objects to stdout.
func (d *implDiarizer) Diarize(ctx context.Context, audioPath string) ([]align.Turn, error) {
	if d.token == "" {
		return nil, ErrUnavailable
	}

	d.logger.Info(ctx, "Running speaker diarization: %s", audioPath)

	out, err := d.executor.Execute(ctx, d.cfg.Command,
		"--hf-token", d.token,
		"--output-format", "json",
		audioPath,
	)
	if err != nil {
		return nil, fmt.Errorf("diarization helper: %w", err)
	}

	turns, err := parseTurns([]byte(out))
	if err != nil {
		return nil, err
	}

	speakers := map[string]bool{}
	for _, t := range turns {
		speakers[t.Speaker] = true
	}
	d.logger.Info(ctx, "Diarization found %d speakers in %d turns", len(speakers), len(turns))

	return turns, nil
}

func parseTurns(data []byte) ([]align.Turn, error) {
	var records []turnRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse diarization output: %w", err)
	}

	turns := make([]align.Turn, 0, len(records))
	for _, r := range records {
		if r.Speaker == "" {
			return nil, fmt.Errorf("diarization turn [%v, %v] has no speaker", r.Start, r.End)
		}
		turns = append(turns, align.Turn{Start: r.Start, End: r.End, Speaker: r.Speaker})
	}
	return turns, nil
}
