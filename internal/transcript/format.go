// Package transcript reads and writes the persisted transcript and
// speaker map files.
package transcript

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwegner/meetproc/internal/align"
)

// Block headers: "[00:05 - 00:12] [Speaker-1]" or "[00:05 - 00:12]".
var (
	reHeader = regexp.MustCompile(`^\[(\d{2}:\d{2}(?::\d{2})?) - (\d{2}:\d{2}(?::\d{2})?)\](?:\s*\[([^\]]+)\])?$`)
)

// Render produces the persisted transcript text: blocks separated by blank
// lines, each with a time range header, an optional speaker label, and the
// block text. Display names from speakers replace raw diarization IDs.
func Render(blocks []align.Block, speakers align.SpeakerMap) string {
	var b strings.Builder

	for i, blk := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}

		header := fmt.Sprintf("[%s - %s]", FormatTimestamp(blk.Start), FormatTimestamp(blk.End))
		if blk.Speaker != "" {
			label := blk.Speaker
			if name, ok := speakers[blk.Speaker]; ok && name != "" {
				label = name
			}
			header += fmt.Sprintf(" [%s]", label)
		}

		b.WriteString(header)
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(blk.Text))
		b.WriteString("\n")
	}

	return b.String()
}

// Write persists the transcript atomically: the content goes to a partial
// file first and is renamed into place, so a crash never leaves a
// truncated transcript that could pass a completeness check.
func Write(path string, blocks []align.Block, speakers align.SpeakerMap) error {
	tmp := path + ".partial"
	if err := os.WriteFile(tmp, []byte(Render(blocks, speakers)), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit transcript: %w", err)
	}
	return nil
}

// Parse reads a persisted transcript back into blocks. The speaker field
// holds the label as written (display name or raw ID); blocks without a
// speaker label come back with an empty speaker.
func Parse(content string) []align.Block {
	var blocks []align.Block
	var current *align.Block

	flush := func() {
		if current != nil {
			current.Text = strings.TrimSpace(current.Text)
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := reHeader.FindStringSubmatch(line); m != nil {
			flush()
			current = &align.Block{
				Start:   ParseTimestamp(m[1]),
				End:     ParseTimestamp(m[2]),
				Speaker: m[3],
			}
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += " "
			}
			current.Text += line
		}
	}

	flush()
	return blocks
}

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS past one hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseTimestamp reads MM:SS or HH:MM:SS back into seconds.
func ParseTimestamp(ts string) float64 {
	parts := strings.Split(ts, ":")
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return float64(total)
}
