package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwegner/meetproc/internal/align"
	"github.com/fwegner/meetproc/internal/diarize"
	"github.com/fwegner/meetproc/internal/history"
	"github.com/fwegner/meetproc/internal/media"
	"github.com/fwegner/meetproc/internal/naming"
	"github.com/fwegner/meetproc/internal/progress"
	"github.com/fwegner/meetproc/internal/summarize"
	"github.com/fwegner/meetproc/internal/transcript"
)

var videoExtensions = map[string]bool{
	".mov":  true,
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
}

// IsVideo reports whether a filename looks like a recording the pipeline
// should pick up. Hidden files are ignored.
func IsVideo(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return videoExtensions[strings.ToLower(filepath.Ext(base))]
}

func (o *implOrchestrator) ProcessAll(ctx context.Context) (Report, error) {
	var report Report

	inputs, err := o.discover()
	if err != nil {
		return report, err
	}
	if len(inputs) == 0 {
		o.logger.Info(ctx, "nothing to process")
		return report, nil
	}

	o.logger.Info(ctx, "processing %d item(s)", len(inputs))
	for _, in := range inputs {
		err := o.Process(ctx, in)
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			report.Skipped++
		case err != nil:
			report.Failed++
			o.logger.Error(ctx, "processing %s failed: %v", filepath.Base(in), err)
		default:
			report.Succeeded++
		}

		if ctx.Err() != nil {
			return report, ctx.Err()
		}
	}

	o.logger.Info(ctx, "batch finished: %d succeeded, %d failed, %d skipped",
		report.Succeeded, report.Failed, report.Skipped)
	return report, nil
}

// discover lists the inputs for the active mode: recordings in the input
// directory, or output directories with a transcript for diarize-only.
func (o *implOrchestrator) discover() ([]string, error) {
	if o.opts.DiarizeOnly {
		entries, err := os.ReadDir(o.cfg.Paths.Output)
		if err != nil {
			return nil, fmt.Errorf("%w: read output dir: %v", ErrInput, err)
		}
		var dirs []string
		for _, e := range entries {
			if e.IsDir() && nonEmptyFile(filepath.Join(o.cfg.Paths.Output, e.Name(), TranscriptFile)) {
				dirs = append(dirs, filepath.Join(o.cfg.Paths.Output, e.Name()))
			}
		}
		sort.Strings(dirs)
		return dirs, nil
	}

	entries, err := os.ReadDir(o.cfg.Paths.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: read input dir: %v", ErrInput, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsVideo(e.Name()) {
			files = append(files, filepath.Join(o.cfg.Paths.Input, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (o *implOrchestrator) Process(ctx context.Context, path string) error {
	switch {
	case o.opts.DiarizeOnly:
		return o.processDiarizeOnly(ctx, path)
	case o.opts.TranscribeOnly:
		return o.processTranscribeOnly(ctx, path)
	default:
		return o.processFull(ctx, path)
	}
}

// processFull runs the whole chain for one raw recording.
func (o *implOrchestrator) processFull(ctx context.Context, recording string) (err error) {
	job := NewJob(recording, o.opts)
	defer o.record(ctx, job)
	defer func() {
		if err != nil && !errors.Is(err, ErrAlreadyProcessed) {
			job.fail()
		}
	}()

	outDir, found := findOutputDir(o.cfg.Paths.Output, recording)
	if !found {
		outDir = filepath.Join(o.cfg.Paths.Output, stemOf(recording))
	}
	job.OutputDir = outDir

	st := o.detector.Detect(ctx, outDir)
	if o.opts.SkipProcessed && st.Encoded && (o.opts.CompressOnly || (st.Transcribed && st.Diarized)) {
		o.logger.Info(ctx, "skipping %s: already processed", filepath.Base(recording))
		return ErrAlreadyProcessed
	}

	o.logger.Info(ctx, "processing %s", filepath.Base(recording))

	if err := o.encodeStage(ctx, job, &st); err != nil {
		return err
	}
	if o.opts.CompressOnly {
		job.finish()
		return nil
	}

	audio := &audioCache{media: o.media, source: filepath.Join(job.OutputDir, VideoFile)}
	defer audio.cleanup()

	if err := o.transcribeStage(ctx, job, &st, audio); err != nil {
		return err
	}
	if err := o.alignStage(ctx, job, &st, audio, false); err != nil {
		return err
	}
	if err := o.namingStage(ctx, job, &st); err != nil {
		return err
	}
	if err := o.cleanupStage(ctx, job); err != nil {
		return err
	}

	job.finish()
	return nil
}

// processTranscribeOnly starts at transcription with an already-encoded
// video. The input file is never deleted.
func (o *implOrchestrator) processTranscribeOnly(ctx context.Context, videoPath string) (err error) {
	job := NewJob(videoPath, o.opts)
	defer o.record(ctx, job)
	defer func() {
		if err != nil && !errors.Is(err, ErrAlreadyProcessed) {
			job.fail()
		}
	}()

	if fi, statErr := os.Stat(videoPath); statErr != nil || fi.IsDir() {
		return fmt.Errorf("%w: not a readable video: %s", ErrInput, videoPath)
	}

	if filepath.Base(videoPath) == VideoFile {
		// The video already sits in an output directory; work in place.
		job.OutputDir = filepath.Dir(videoPath)
	} else {
		job.OutputDir = filepath.Join(o.cfg.Paths.Output, stemOf(videoPath))
		if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
			return fmt.Errorf("%w: create output dir: %v", ErrFilesystem, err)
		}
		if err := writeSourceMarker(job.OutputDir, videoPath); err != nil {
			return fmt.Errorf("%w: write source marker: %v", ErrFilesystem, err)
		}
	}

	st := o.detector.Detect(ctx, job.OutputDir)
	if o.opts.SkipProcessed && st.Transcribed && st.Diarized {
		o.logger.Info(ctx, "skipping %s: already transcribed", filepath.Base(videoPath))
		return ErrAlreadyProcessed
	}

	audio := &audioCache{media: o.media, source: videoPath}
	defer audio.cleanup()

	if err := o.transcribeStage(ctx, job, &st, audio); err != nil {
		return err
	}
	if err := o.alignStage(ctx, job, &st, audio, false); err != nil {
		return err
	}
	if err := o.namingStage(ctx, job, &st); err != nil {
		return err
	}

	job.finish()
	return nil
}

// processDiarizeOnly re-runs diarization and alignment over an existing
// output directory, keeping the transcript text and any display names
// the user assigned in the speaker map.
func (o *implOrchestrator) processDiarizeOnly(ctx context.Context, path string) (err error) {
	dir := path
	if fi, statErr := os.Stat(path); statErr == nil && !fi.IsDir() {
		// A transcript file was given; its directory is the job.
		dir = filepath.Dir(path)
	}

	job := NewJob(dir, o.opts)
	job.OutputDir = dir
	defer o.record(ctx, job)
	defer func() {
		if err != nil {
			job.fail()
		}
	}()

	if !nonEmptyFile(filepath.Join(dir, TranscriptFile)) {
		return fmt.Errorf("%w: no transcript in %s", ErrInput, dir)
	}
	video := filepath.Join(dir, VideoFile)
	if !nonEmptyFile(video) {
		return fmt.Errorf("%w: no video in %s", ErrInput, dir)
	}

	o.logger.Info(ctx, "re-diarizing %s", filepath.Base(dir))

	audio := &audioCache{media: o.media, source: video}
	defer audio.cleanup()

	// Force re-alignment even when a speaker map already exists.
	st := Stages{}
	if err := o.alignStage(ctx, job, &st, audio, true); err != nil {
		return err
	}

	job.finish()
	return nil
}

// encodeStage compresses the recording into the output directory. The
// encoder writes to a partial file that is renamed only after the result
// probes to a positive duration.
func (o *implOrchestrator) encodeStage(ctx context.Context, job *Job, st *Stages) error {
	if st.Encoded {
		o.logger.Info(ctx, "video already encoded, skipping compression")
		return nil
	}
	if err := job.transition(StateEncoding); err != nil {
		return err
	}

	info, err := o.media.Probe(ctx, job.Recording)
	if err != nil {
		return fmt.Errorf("%w: probe %s: %v", ErrInput, filepath.Base(job.Recording), err)
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", ErrFilesystem, err)
	}
	if err := writeSourceMarker(job.OutputDir, job.Recording); err != nil {
		return fmt.Errorf("%w: write source marker: %v", ErrFilesystem, err)
	}

	partial := filepath.Join(job.OutputDir, VideoPartial)
	rep := progress.NewReporter(o.progressOut, "compress")
	err = o.media.Encode(ctx, media.EncodeRequest{
		InputPath:      job.Recording,
		OutputPath:     partial,
		Quality:        o.opts.Quality,
		Scale:          o.opts.Scale,
		MaxCompression: o.opts.MaxCompression,
	}, func(line string) {
		if secs, ok := progress.ParseFFmpegProgress(line); ok && info.Duration > 0 {
			rep.Observe(secs / info.Duration)
		}
	})
	rep.Done()
	if err != nil {
		os.Remove(partial)
		return fmt.Errorf("%w: encode: %v", ErrCollaborator, err)
	}

	encoded, err := o.media.Probe(ctx, partial)
	if err != nil || encoded.Duration <= 0 {
		os.Remove(partial)
		return fmt.Errorf("%w: encoded video failed verification", ErrCollaborator)
	}

	if err := os.Rename(partial, filepath.Join(job.OutputDir, VideoFile)); err != nil {
		return fmt.Errorf("%w: commit video: %v", ErrFilesystem, err)
	}

	if info.Size > 0 && encoded.Size > 0 {
		o.logger.Info(ctx, "compressed %s: %.1f MB -> %.1f MB (%.0f%%)",
			filepath.Base(job.Recording), mb(info.Size), mb(encoded.Size),
			100*float64(encoded.Size)/float64(info.Size))
	}

	st.Encoded = true
	return job.transition(StateEncoded)
}

// transcribeStage runs ASR over the extracted audio and commits the raw
// per-segment transcript. Speaker labels come later in alignStage.
func (o *implOrchestrator) transcribeStage(ctx context.Context, job *Job, st *Stages, audio *audioCache) error {
	if st.Transcribed {
		o.logger.Info(ctx, "transcript already present, skipping transcription")
		return nil
	}
	if err := job.transition(StateTranscribing); err != nil {
		return err
	}

	audioPath, err := audio.get(ctx)
	if err != nil {
		return fmt.Errorf("%w: extract audio: %v", ErrCollaborator, err)
	}

	rep := progress.NewReporter(o.progressOut, "transcribe")
	segments, err := o.transcriber.Transcribe(ctx, audioPath, func(line string) {
		if f, ok := progress.ParsePercent(line); ok {
			rep.Observe(f)
		}
	})
	rep.Done()
	if err != nil {
		return fmt.Errorf("%w: transcription: %v", ErrCollaborator, err)
	}

	blocks := make([]align.Block, len(segments))
	for i, s := range segments {
		blocks[i] = align.Block{Start: s.Start, End: s.End, Text: s.Text}
	}
	if err := transcript.Write(filepath.Join(job.OutputDir, TranscriptFile), blocks, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	st.Transcribed = true
	return job.transition(StateTranscribed)
}

// alignStage diarizes the audio, merges speaker turns into the committed
// transcript and persists the speaker map. In strict mode a diarization
// failure fails the job; otherwise the transcript stays unlabeled.
func (o *implOrchestrator) alignStage(ctx context.Context, job *Job, st *Stages, audio *audioCache, strict bool) error {
	if st.Diarized {
		o.logger.Info(ctx, "speaker map already present, skipping diarization")
		return nil
	}
	if err := job.transition(StateDiarizing); err != nil {
		return err
	}

	tPath := filepath.Join(job.OutputDir, TranscriptFile)
	content, err := os.ReadFile(tPath)
	if err != nil {
		return fmt.Errorf("%w: read transcript: %v", ErrInput, err)
	}
	parsed := transcript.Parse(string(content))
	segments := make([]align.Segment, len(parsed))
	for i, b := range parsed {
		// The persisted transcript trims segment text; restore the
		// leading space so merged blocks keep their word boundaries.
		segments[i] = align.Segment{Start: b.Start, End: b.End, Text: " " + b.Text}
	}

	var turns []align.Turn
	if !o.opts.NoDiarize {
		turns, err = o.diarizeAudio(ctx, audio)
		if err != nil {
			if strict {
				return err
			}
			o.logger.Warn(ctx, "diarization skipped, transcript stays unlabeled: %v", err)
			turns = nil
		}
	}

	mapPath := filepath.Join(job.OutputDir, transcript.SpeakerMapFile)
	existing, err := transcript.LoadSpeakerMap(mapPath)
	if err != nil {
		o.logger.Warn(ctx, "unreadable speaker map, starting fresh: %v", err)
		existing = align.SpeakerMap{}
	}

	blocks, speakers := align.Align(segments, turns, existing)
	if err := transcript.Write(tPath, blocks, speakers); err != nil {
		return fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	if err := transcript.SaveSpeakerMap(mapPath, speakers); err != nil {
		return fmt.Errorf("%w: %v", ErrFilesystem, err)
	}

	st.Diarized = true
	return job.transition(StateAligned)
}

// diarizeAudio runs the diarization collaborator with an indeterminate
// progress line, since it streams no usable progress.
func (o *implOrchestrator) diarizeAudio(ctx context.Context, audio *audioCache) ([]align.Turn, error) {
	audioPath, err := audio.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: extract audio: %v", ErrCollaborator, err)
	}

	rep := progress.NewReporter(o.progressOut, "diarize")
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rep.Indeterminate()
			}
		}
	}()

	turns, err := o.diarizer.Diarize(ctx, audioPath)
	close(done)
	rep.Done()

	if err != nil {
		if errors.Is(err, diarize.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: diarization: %v", ErrCollaborator, err)
	}
	return turns, nil
}

// namingStage extracts a title, writes the summary artifacts and renames
// the output directory to its final form.
func (o *implOrchestrator) namingStage(ctx context.Context, job *Job, st *Stages) error {
	if st.Renamed {
		o.logger.Info(ctx, "output directory already renamed")
		return nil
	}
	if err := job.transition(StateNaming); err != nil {
		return err
	}

	title := o.summaryArtifacts(ctx, job)

	ts, ok := naming.ParseRecordingTime(filepath.Base(job.Recording))
	if !ok {
		if fi, err := os.Stat(job.Recording); err == nil {
			ts = fi.ModTime()
		} else {
			ts = time.Now()
		}
	}

	parent := filepath.Dir(job.OutputDir)
	current := filepath.Base(job.OutputDir)
	final := naming.ResolveCollision(parent, naming.FolderName(ts, title), current)

	if final != current {
		dest := filepath.Join(parent, final)
		if err := os.Rename(job.OutputDir, dest); err != nil {
			return fmt.Errorf("%w: rename output dir: %v", ErrFilesystem, err)
		}
		job.OutputDir = dest
	}

	o.logger.Info(ctx, "output: %s", job.OutputDir)
	st.Renamed = true
	return job.transition(StateRenamed)
}

// summaryArtifacts asks the model for a title and a summary. Both are
// best-effort: any failure falls back to the default title and the
// pipeline moves on.
func (o *implOrchestrator) summaryArtifacts(ctx context.Context, job *Job) string {
	if o.opts.NoSummary || o.summarizer == nil {
		return ""
	}

	data, err := os.ReadFile(filepath.Join(job.OutputDir, TranscriptFile))
	if err != nil || len(data) == 0 {
		return ""
	}
	text := string(data)

	title, err := o.summarizer.Title(ctx, text)
	if err != nil {
		o.logger.Warn(ctx, "title extraction failed, using fallback: %v", err)
		title = ""
	}

	summary, err := o.summarizer.Summarize(ctx, text)
	if err != nil {
		o.logger.Warn(ctx, "summary generation failed: %v", err)
		return title
	}

	mdPath := filepath.Join(job.OutputDir, SummaryFile)
	tmp := mdPath + ".partial"
	if err := os.WriteFile(tmp, []byte(summary), 0o644); err != nil {
		o.logger.Warn(ctx, "write summary: %v", err)
	} else if err := os.Rename(tmp, mdPath); err != nil {
		o.logger.Warn(ctx, "commit summary: %v", err)
	}

	heading := title
	if heading == "" {
		heading = "Meeting-Zusammenfassung"
	}
	if err := summarize.WriteDocx(heading, summary, filepath.Join(job.OutputDir, SummaryDocxFile)); err != nil {
		o.logger.Warn(ctx, "docx summary failed: %v", err)
	}

	return title
}

// cleanupStage deletes the original recording. Runs only after the
// rename committed, so a failure anywhere earlier leaves it untouched.
func (o *implOrchestrator) cleanupStage(ctx context.Context, job *Job) error {
	if o.opts.KeepOriginals {
		return nil
	}
	if err := job.transition(StateCleaningUp); err != nil {
		return err
	}

	if err := os.Remove(job.Recording); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete original: %v", ErrFilesystem, err)
	}
	o.logger.Info(ctx, "deleted original %s", filepath.Base(job.Recording))
	return nil
}

// record writes the job outcome to the audit trail, best effort.
func (o *implOrchestrator) record(ctx context.Context, job *Job) {
	if o.history == nil || job.State == StateDiscovered {
		return
	}
	if job.FinishedAt.IsZero() {
		job.FinishedAt = time.Now()
	}

	rec := history.Record{
		ID:          job.ID,
		Recording:   job.Recording,
		OutputDir:   job.OutputDir,
		State:       string(job.State),
		FailedStage: string(job.FailedStage),
		StartedAt:   job.StartedAt,
		FinishedAt:  job.FinishedAt,
	}
	if err := o.history.Record(ctx, rec); err != nil {
		o.logger.Warn(ctx, "history record failed: %v", err)
	}
}

func mb(bytes int64) float64 {
	return float64(bytes) / (1 << 20)
}
