package diarize

import (
	"github.com/fwegner/meetproc/internal/config"
	"github.com/fwegner/meetproc/internal/logger"
	"github.com/fwegner/meetproc/pkg/executor"
)

type implDiarizer struct {
	cfg      config.DiarizeConfig
	token    string
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Diarizer instance. An empty token makes every call
// return ErrUnavailable.
func New(cfg config.DiarizeConfig, token string, exec executor.Executor, log logger.Logger) Diarizer {
	return &implDiarizer{
		cfg:      cfg,
		token:    token,
		executor: exec,
		logger:   log,
	}
}
