package config

import "fmt"

// Options holds the per-run flags. It is built once at startup and passed
// into the orchestrator unchanged, so the inner stages never read flags or
// environment themselves.
type Options struct {
	Quality        int    // hardware encoder quality, 0-100
	Scale          string // "", "1080p" or "720p"
	MaxCompression bool   // software encoder at fixed CRF
	KeepOriginals  bool
	SkipProcessed  bool
	CompressOnly   bool
	TranscribeOnly bool
	DiarizeOnly    bool
	NoDiarize      bool
	NoSummary      bool
	Watch          bool
}

func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", o.Quality)
	}
	switch o.Scale {
	case "", "1080p", "720p":
	default:
		return fmt.Errorf("unknown scale %q (want 1080p or 720p)", o.Scale)
	}

	exclusive := 0
	for _, set := range []bool{o.CompressOnly, o.TranscribeOnly, o.DiarizeOnly} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		return fmt.Errorf("--compress-only, --transcribe-only and --diarize-only are mutually exclusive")
	}

	return nil
}
