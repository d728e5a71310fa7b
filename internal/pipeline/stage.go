package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwegner/meetproc/internal/media"
	"github.com/fwegner/meetproc/internal/transcript"
)

// Artifact names inside one output directory.
const (
	VideoFile       = "video.mp4"
	VideoPartial    = "video.partial.mp4"
	TranscriptFile  = "transcript.txt"
	SummaryFile     = "summary.md"
	SummaryDocxFile = "summary.docx"

	// sourceMarker links an output directory back to its recording so
	// completed work is found again after the directory was renamed.
	sourceMarker = ".source"
)

// reRenamedDir matches the final directory layout, e.g.
// "2025-03-14_Freitag_10-30_Sprint-Planung".
var reRenamedDir = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\p{L}+_\d{2}-\d{2}_.+$`)

// Stages reports which artifacts of an output directory are complete.
// Completion is decided from the filesystem alone, never from memory of
// a previous run.
type Stages struct {
	Encoded     bool
	Transcribed bool
	Diarized    bool
	Renamed     bool
}

// Detector inspects output directories for committed artifacts.
type Detector struct {
	media media.Media
}

func NewDetector(m media.Media) *Detector {
	return &Detector{media: m}
}

// Detect probes the artifacts in dir. A missing directory means no
// stage is complete. The encoded video only counts when it is non-empty
// and probes to a positive duration, so truncated files from a killed
// run are re-encoded instead of trusted.
func (d *Detector) Detect(ctx context.Context, dir string) Stages {
	var st Stages

	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return st
	}

	if nonEmptyFile(filepath.Join(dir, VideoFile)) {
		info, err := d.media.Probe(ctx, filepath.Join(dir, VideoFile))
		st.Encoded = err == nil && info.Duration > 0
	}

	st.Transcribed = nonEmptyFile(filepath.Join(dir, TranscriptFile))
	st.Diarized = nonEmptyFile(filepath.Join(dir, transcript.SpeakerMapFile))
	st.Renamed = reRenamedDir.MatchString(filepath.Base(dir))

	return st
}

func nonEmptyFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular() && fi.Size() > 0
}

// writeSourceMarker records the recording a directory belongs to.
func writeSourceMarker(dir, recording string) error {
	return os.WriteFile(filepath.Join(dir, sourceMarker), []byte(filepath.Base(recording)+"\n"), 0o644)
}

// findOutputDir locates the output directory for a recording: first the
// working-name directory, then any renamed directory whose source
// marker points at the recording.
func findOutputDir(outputRoot, recording string) (string, bool) {
	stem := stemOf(recording)

	working := filepath.Join(outputRoot, stem)
	if fi, err := os.Stat(working); err == nil && fi.IsDir() {
		return working, true
	}

	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		marker := filepath.Join(outputRoot, e.Name(), sourceMarker)
		data, err := os.ReadFile(marker)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == filepath.Base(recording) {
			return filepath.Join(outputRoot, e.Name()), true
		}
	}
	return "", false
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
