package media

import (
	"context"
	"fmt"
)

// ExtractAudio converts a video's audio track to 16kHz mono WAV, the
// format whisper and pyannote work best with.
func (m *implMedia) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	m.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := m.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	m.logger.Info(ctx, "Audio extracted: %s", audioPath)
	return nil
}
