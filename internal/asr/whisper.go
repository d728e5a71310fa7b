package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwegner/meetproc/internal/align"
	"github.com/fwegner/meetproc/pkg/executor"
)

// whisperOutput mirrors the JSON whisper writes next to the audio file.
type whisperOutput struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe runs whisper over the extracted audio and parses its JSON
// output into ordered segments. Whisper's progress output is forwarded to
// onLine.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string, onLine executor.LineHandler) ([]align.Segment, error) {
	outDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("resolve audio path: %w", err)
	}

	t.logger.Info(ctx, "Transcribing with whisper (model=%s, language=%s): %s",
		t.cfg.Model, t.cfg.Language, audioPath)

	args := []string{
		"-m", "whisper",
		absAudio,
		"--model", t.cfg.Model,
		"--language", t.cfg.Language,
		"--output_dir", outDir,
		"--output_format", "json",
		"--verbose", "False",
	}

	if err := t.executor.ExecuteStream(ctx, onLine, t.cfg.Command, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outDir, base+".json")

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	segments, err := parseSegments(data)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("whisper produced no segments for %s", audioPath)
	}

	t.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return segments, nil
}

func parseSegments(data []byte) ([]align.Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segments := make([]align.Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		segments = append(segments, align.Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return segments, nil
}
