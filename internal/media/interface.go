package media

import (
	"context"

	"github.com/fwegner/meetproc/pkg/executor"
)

// Info describes a media file as reported by ffprobe plus its size on disk.
type Info struct {
	Duration float64 // seconds
	Width    int
	Height   int
	Size     int64 // bytes
}

// EncodeRequest describes one compression run.
type EncodeRequest struct {
	InputPath      string
	OutputPath     string
	Quality        int    // hardware encoder quality, 0-100
	Scale          string // "", "1080p" or "720p"
	MaxCompression bool   // software encoder at fixed CRF
}

// Media wraps the ffmpeg/ffprobe collaborators.
type Media interface {
	// Probe reads duration, resolution and byte size of a media file.
	Probe(ctx context.Context, path string) (Info, error)
	// Encode compresses a recording to H.265. Progress lines from ffmpeg
	// are forwarded to onLine when non-nil.
	Encode(ctx context.Context, req EncodeRequest, onLine executor.LineHandler) error
	// ExtractAudio writes a 16kHz mono WAV for the ASR and diarization
	// collaborators.
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}
