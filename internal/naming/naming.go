// Package naming derives the final output directory name for a processed
// recording from its timestamp and an optional extracted title.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Screen recordings are named like "Bildschirmaufnahme 2026-01-28 um 09.47.24".
var (
	reRecordingTime = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2}) um (\d{2})\.(\d{2})\.(\d{2})`)
	reHyphenRuns    = regexp.MustCompile(`-+`)
)

var weekdaysDE = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

// FallbackTitle is used when no title could be extracted.
const FallbackTitle = "Meeting"

// ParseRecordingTime extracts the capture timestamp embedded in a
// recording's filename. Returns false when the filename carries none.
func ParseRecordingTime(filename string) (time.Time, bool) {
	m := reRecordingTime.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false
	}

	nums := make([]int, 6)
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	return time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], 0, time.Local), true
}

// Sanitize makes a title safe for a directory name: whitespace becomes
// hyphens, everything that is not a letter, digit or hyphen is dropped,
// runs of hyphens collapse.
func Sanitize(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('-')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		}
	}

	out := reHyphenRuns.ReplaceAllString(b.String(), "-")
	return strings.Trim(out, "-")
}

// FolderName builds "{date}_{weekday}_{HH-MM}_{title}" from the recording
// timestamp. An empty title falls back to "Meeting".
func FolderName(ts time.Time, title string) string {
	clean := Sanitize(title)
	if clean == "" {
		clean = FallbackTitle
	}

	return fmt.Sprintf("%s_%s_%s_%s",
		ts.Format("2006-01-02"),
		weekdaysDE[ts.Weekday()],
		ts.Format("15-04"),
		clean,
	)
}

// ResolveCollision appends a numeric suffix until the name is free in dir.
// The current name (when identical) is not a collision.
func ResolveCollision(dir, name, current string) string {
	candidate := name
	counter := 2
	for {
		if candidate == current {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, counter)
		counter++
	}
}
