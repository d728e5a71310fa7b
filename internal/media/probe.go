package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// Probe reads duration, resolution and size via ffprobe. A file ffprobe
// cannot parse, or one with no positive duration, yields an error so the
// caller treats the artifact as incomplete.
func (m *implMedia) Probe(ctx context.Context, path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat media file: %w", err)
	}

	out, err := m.executor.Execute(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "format=duration:stream=width,height",
		"-of", "json",
		path,
	)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: %w", err)
	}

	var parsed probeOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return Info{}, fmt.Errorf("media file %s has no playable duration", path)
	}

	info := Info{Duration: duration, Size: fi.Size()}
	if len(parsed.Streams) > 0 {
		info.Width = parsed.Streams[0].Width
		info.Height = parsed.Streams[0].Height
	}
	return info, nil
}
