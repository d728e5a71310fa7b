package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fwegner/meetproc/internal/asr"
	"github.com/fwegner/meetproc/internal/config"
	"github.com/fwegner/meetproc/internal/diarize"
	"github.com/fwegner/meetproc/internal/history"
	"github.com/fwegner/meetproc/internal/logger"
	"github.com/fwegner/meetproc/internal/media"
	"github.com/fwegner/meetproc/internal/pipeline"
	"github.com/fwegner/meetproc/internal/summarize"
	"github.com/fwegner/meetproc/internal/watcher"
	"github.com/fwegner/meetproc/pkg/executor"
)

const defaultConfigFile = "config.yaml"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "rename" {
		os.Exit(runRename(os.Args[2:]))
	}
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("meetproc", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: meetproc [flags] [recording]\n")
		fmt.Fprintf(fs.Output(), "       meetproc rename <transcript> [-m OLD=NEW]...\n\n")
		fmt.Fprintf(fs.Output(), "Without a recording argument, every video in the input directory is processed.\n\n")
		fs.PrintDefaults()
	}

	var (
		configPath     = fs.String("config", "", "config file (default: config.yaml if present)")
		quality        = fs.Int("quality", 50, "hardware encoder quality, 0-100")
		scale          = fs.String("scale", "", "downscale to 1080p or 720p")
		maxCompression = fs.Bool("max-compression", false, "use the software encoder at maximum compression")
		keepOriginals  = fs.Bool("keep-originals", false, "never delete the original recordings")
		skipProcessed  = fs.Bool("skip-processed", false, "skip recordings whose artifacts are already complete")
		compressOnly   = fs.Bool("compress-only", false, "stop after compression")
		transcribeOnly = fs.Bool("transcribe-only", false, "transcribe an already-encoded video (requires a path)")
		diarizeOnly    = fs.Bool("diarize-only", false, "re-run diarization over existing transcripts")
		noDiarize      = fs.Bool("no-diarize", false, "skip speaker diarization")
		noSummary      = fs.Bool("no-summary", false, "skip title extraction and summary generation")
		watch          = fs.Bool("watch", false, "keep running and process recordings as they appear")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := *configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	var log logger.Logger
	if cfg.Logging.File != "" {
		log = logger.NewWithFile(cfg.Logging.Level, cfg.Logging.File)
	} else {
		log = logger.New(cfg.Logging.Level)
	}

	opts := config.Options{
		Quality:        *quality,
		Scale:          *scale,
		MaxCompression: *maxCompression,
		KeepOriginals:  *keepOriginals,
		SkipProcessed:  *skipProcessed,
		CompressOnly:   *compressOnly,
		TranscribeOnly: *transcribeOnly,
		DiarizeOnly:    *diarizeOnly,
		NoDiarize:      *noDiarize,
		NoSummary:      *noSummary,
		Watch:          *watch,
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	if opts.TranscribeOnly && fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "--transcribe-only requires the path of an encoded video")
		return 2
	}

	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error(ctx, "create directory %s: %v", dir, err)
			return 1
		}
	}

	exec := executor.New()
	med := media.New(cfg.FFmpeg, exec, log)
	trans := asr.New(cfg.Whisper, exec, log)
	diar := diarize.New(cfg.Diarize, os.Getenv(cfg.Diarize.TokenEnv), exec, log)

	var summ summarize.Summarizer
	if keys := splitKeys(os.Getenv(cfg.Summary.KeyEnv)); len(keys) > 0 {
		summ = summarize.New(keys, cfg.Summary.Model, log)
	} else if !opts.NoSummary {
		log.Warn(ctx, "%s not set, falling back to the default title", cfg.Summary.KeyEnv)
	}

	var rec history.Recorder
	if cfg.History.Path != "" {
		rec, err = history.New(cfg.History.Path)
		if err != nil {
			log.Warn(ctx, "history disabled: %v", err)
		} else {
			defer rec.Close()
		}
	}

	orch := pipeline.New(cfg, opts, med, trans, diar, summ, rec, log, os.Stdout)

	if opts.Watch {
		return runWatch(ctx, cfg, orch, log)
	}

	if fs.NArg() > 0 {
		err := orch.Process(ctx, fs.Arg(0))
		if errors.Is(err, pipeline.ErrAlreadyProcessed) {
			return 0
		}
		if err != nil {
			log.Error(ctx, "%v", err)
			return 1
		}
		return 0
	}

	report, err := orch.ProcessAll(ctx)
	if err != nil {
		log.Error(ctx, "%v", err)
		return 1
	}
	if report.Failed > 0 {
		return 1
	}
	return 0
}

func runWatch(ctx context.Context, cfg *config.Config, orch pipeline.Orchestrator, log logger.Logger) int {
	w, err := watcher.New(cfg.Paths.Input, orch.Process, log)
	if err != nil {
		log.Error(ctx, "start watcher: %v", err)
		return 1
	}
	defer w.Stop()

	// Drain whatever is already waiting before watching for new files.
	if _, err := orch.ProcessAll(ctx); err != nil {
		log.Error(ctx, "%v", err)
		return 1
	}

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "watcher: %v", err)
		return 1
	}
	return 0
}

// splitKeys reads one or more API keys from a comma-separated env value.
func splitKeys(v string) []string {
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
