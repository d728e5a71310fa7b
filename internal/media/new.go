package media

import (
	"github.com/fwegner/meetproc/internal/config"
	"github.com/fwegner/meetproc/internal/logger"
	"github.com/fwegner/meetproc/pkg/executor"
)

type implMedia struct {
	cfg      config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Media instance
func New(cfg config.FFmpegConfig, exec executor.Executor, log logger.Logger) Media {
	return &implMedia{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
