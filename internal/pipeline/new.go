package pipeline

import (
	"io"

	"github.com/fwegner/meetproc/internal/asr"
	"github.com/fwegner/meetproc/internal/config"
	"github.com/fwegner/meetproc/internal/diarize"
	"github.com/fwegner/meetproc/internal/history"
	"github.com/fwegner/meetproc/internal/logger"
	"github.com/fwegner/meetproc/internal/media"
	"github.com/fwegner/meetproc/internal/summarize"
)

type implOrchestrator struct {
	cfg         *config.Config
	opts        config.Options
	media       media.Media
	transcriber asr.Transcriber
	diarizer    diarize.Diarizer
	summarizer  summarize.Summarizer // nil when no API key is configured
	history     history.Recorder     // nil disables the audit trail
	detector    *Detector
	logger      logger.Logger
	progressOut io.Writer
}

// New wires an orchestrator. summarizer and recorder may be nil; the
// pipeline then degrades to fallback titles and skips the audit trail.
func New(
	cfg *config.Config,
	opts config.Options,
	m media.Media,
	t asr.Transcriber,
	d diarize.Diarizer,
	s summarize.Summarizer,
	rec history.Recorder,
	log logger.Logger,
	progressOut io.Writer,
) Orchestrator {
	return &implOrchestrator{
		cfg:         cfg,
		opts:        opts,
		media:       m,
		transcriber: t,
		diarizer:    d,
		summarizer:  s,
		history:     rec,
		detector:    NewDetector(m),
		logger:      log,
		progressOut: progressOut,
	}
}
