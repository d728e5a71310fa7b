package asr

import (
	"github.com/fwegner/meetproc/internal/config"
	"github.com/fwegner/meetproc/internal/logger"
	"github.com/fwegner/meetproc/pkg/executor"
)

type implTranscriber struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Transcriber instance
func New(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
