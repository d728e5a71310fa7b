package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwegner/meetproc/internal/media"
)

// audioCache extracts the 16kHz mono WAV for one job lazily and hands
// the same file to both the ASR and diarization stages.
type audioCache struct {
	media  media.Media
	source string // video to extract from
	dir    string
	path   string
}

func (a *audioCache) get(ctx context.Context) (string, error) {
	if a.path != "" {
		return a.path, nil
	}

	dir, err := os.MkdirTemp("", "meetproc-audio-*")
	if err != nil {
		return "", err
	}
	a.dir = dir

	path := filepath.Join(dir, "audio.wav")
	if err := a.media.ExtractAudio(ctx, a.source, path); err != nil {
		return "", err
	}
	a.path = path
	return a.path, nil
}

func (a *audioCache) cleanup() {
	if a.dir != "" {
		os.RemoveAll(a.dir)
	}
}
