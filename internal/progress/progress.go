// Package progress renders single-line status updates for long-running
// collaborator stages. It is purely observational: nothing here may
// influence a stage's outcome.
package progress

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Event is one progress observation from a collaborator stream.
type Event struct {
	Elapsed        time.Duration
	EstimatedTotal time.Duration
	Fraction       float64
}

// Reporter consumes progress events for one stage and renders them as a
// rewriting terminal line.
type Reporter struct {
	w        io.Writer
	label    string
	start    time.Time
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewReporter creates a Reporter for one stage. Updates render at most
// once per second.
func NewReporter(w io.Writer, label string) *Reporter {
	r := &Reporter{
		w:        w,
		label:    label,
		interval: time.Second,
		now:      time.Now,
	}
	r.start = r.now()
	return r
}

// Observe records a completion fraction in [0, 1] and renders elapsed and
// estimated remaining time.
func (r *Reporter) Observe(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	now := r.now()
	if now.Sub(r.last) < r.interval {
		return
	}
	r.last = now

	ev := Event{
		Elapsed:  now.Sub(r.start),
		Fraction: fraction,
	}
	if fraction > 0 {
		ev.EstimatedTotal = time.Duration(float64(ev.Elapsed) / fraction)
	}

	r.render(ev)
}

// Indeterminate renders a plain "in progress" line for collaborators that
// provide no progress stream.
func (r *Reporter) Indeterminate() {
	now := r.now()
	if now.Sub(r.last) < r.interval {
		return
	}
	r.last = now

	fmt.Fprintf(r.w, "\r[%s] in progress... elapsed %s", r.label, FormatDuration(now.Sub(r.start)))
}

// Done finishes the line.
func (r *Reporter) Done() {
	fmt.Fprintf(r.w, "\r[%s] done in %s%s\n", r.label, FormatDuration(r.now().Sub(r.start)), strings.Repeat(" ", 20))
}

func (r *Reporter) render(ev Event) {
	remaining := "?"
	if ev.EstimatedTotal > 0 {
		remaining = FormatDuration(ev.EstimatedTotal - ev.Elapsed)
	}
	fmt.Fprintf(r.w, "\r[%s] %3.0f%% | elapsed %s | remaining ~%s",
		r.label, ev.Fraction*100, FormatDuration(ev.Elapsed), remaining)
}

// FormatDuration renders a duration as MM:SS, or HH:MM:SS past one hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

var (
	reOutTimeMS = regexp.MustCompile(`^out_time_ms=(\d+)$`)
	reOutTime   = regexp.MustCompile(`^out_time=(\d+):(\d{2}):(\d{2})\.(\d+)$`)
	rePercent   = regexp.MustCompile(`(\d{1,3})%\|`)
)

// ParseFFmpegProgress reads the media position from one line of ffmpeg's
// "-progress pipe:1" key=value output. out_time_ms is in microseconds
// despite its name.
func ParseFFmpegProgress(line string) (float64, bool) {
	line = strings.TrimSpace(line)

	if m := reOutTimeMS.FindStringSubmatch(line); m != nil {
		us, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return us / 1e6, true
	}

	if m := reOutTime.FindStringSubmatch(line); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec, _ := strconv.Atoi(m[3])
		return float64(h*3600 + min*60 + sec), true
	}

	return 0, false
}

// ParsePercent extracts a completion percentage from whisper's progress
// bar lines (" 42%|████...").
func ParsePercent(line string) (float64, bool) {
	m := rePercent.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil || pct > 100 {
		return 0, false
	}
	return float64(pct) / 100, true
}
