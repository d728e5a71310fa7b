package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwegner/meetproc/internal/transcript"
)

// Transcript header shapes the rename tool understands. Besides the
// current "[00:05 - 00:12] [Speaker-1]" format it accepts legacy
// speaker-only headers from old transcripts.
var (
	reLabeledHeader = regexp.MustCompile(`^(\[\d{2}:\d{2}(?::\d{2})? - \d{2}:\d{2}(?::\d{2})?\])\s*\[([^\]]+)\]$`)
	reTimestampOnly = regexp.MustCompile(`^\[\d{2}:\d{2}(?::\d{2})? - \d{2}:\d{2}(?::\d{2})?\]$`)
	reSpeakerHeader = regexp.MustCompile(`^\[([^\]]+)\]$`)
)

// mappingFlag collects repeated -m OLD=NEW pairs.
type mappingFlag map[string]string

func (m mappingFlag) String() string {
	return fmt.Sprintf("%v", map[string]string(m))
}

func (m mappingFlag) Set(v string) error {
	old, next, ok := strings.Cut(v, "=")
	if !ok || old == "" || next == "" {
		return fmt.Errorf("expected OLD=NEW, got %q", v)
	}
	m[old] = next
	return nil
}

func runRename(args []string) int {
	fs := flag.NewFlagSet("meetproc rename", flag.ExitOnError)
	output := fs.String("o", "", "write the result to this file instead of overwriting")
	mappings := mappingFlag{}
	fs.Var(mappings, "m", "rename one speaker: -m OLD=NEW (repeatable)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: meetproc rename [flags] <transcript>\n\n")
		fmt.Fprintf(fs.Output(), "Without -m, speakers are renamed interactively.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read transcript: %v\n", err)
		return 1
	}
	lines := strings.Split(string(data), "\n")

	labels := collectLabels(lines)
	if len(labels) == 0 {
		fmt.Fprintln(os.Stderr, "no speaker labels found in transcript")
		return 1
	}
	fmt.Printf("Speakers found: %s\n", strings.Join(labels, ", "))

	if len(mappings) == 0 {
		mappings = promptRename(lines, labels)
	}
	if len(mappings) == 0 {
		fmt.Println("nothing renamed")
		return 0
	}

	dest := path
	if *output != "" {
		dest = *output
	}
	renamed := applyRename(lines, mappings)
	if err := os.WriteFile(dest, []byte(strings.Join(renamed, "\n")), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write transcript: %v\n", err)
		return 1
	}

	// Carry the new display names into the speaker map so a later
	// diarization pass keeps them.
	if *output == "" {
		if err := updateSpeakerMap(filepath.Dir(path), mappings); err != nil {
			fmt.Fprintf(os.Stderr, "warning: speaker map not updated: %v\n", err)
		}
	}

	fmt.Printf("Transcript updated: %s\n", dest)
	for old, next := range mappings {
		fmt.Printf("  %s -> %s\n", old, next)
	}
	return 0
}

// collectLabels returns the distinct speaker labels in first-appearance
// order.
func collectLabels(lines []string) []string {
	var labels []string
	seen := map[string]bool{}

	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if m := reLabeledHeader.FindStringSubmatch(line); m != nil {
			add(m[2])
			continue
		}
		if reTimestampOnly.MatchString(line) {
			continue
		}
		if m := reSpeakerHeader.FindStringSubmatch(line); m != nil {
			add(m[1])
		}
	}
	return labels
}

// applyRename rewrites speaker labels in header lines, leaving all text
// lines untouched.
func applyRename(lines []string, mappings map[string]string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := reLabeledHeader.FindStringSubmatch(trimmed); m != nil {
			if next, ok := mappings[m[2]]; ok {
				out[i] = fmt.Sprintf("%s [%s]", m[1], next)
				continue
			}
		} else if !reTimestampOnly.MatchString(trimmed) {
			if m := reSpeakerHeader.FindStringSubmatch(trimmed); m != nil {
				if next, ok := mappings[m[1]]; ok {
					out[i] = fmt.Sprintf("[%s]", next)
					continue
				}
			}
		}

		out[i] = line
	}
	return out
}

// promptRename asks interactively for a new name per speaker, showing
// the speaker's first quote as context.
func promptRename(lines []string, labels []string) mappingFlag {
	samples := collectSamples(lines)
	scanner := bufio.NewScanner(os.Stdin)
	mappings := mappingFlag{}

	fmt.Println("\nEnter a new name per speaker (or press Enter to keep it).")
	for _, label := range labels {
		if sample, ok := samples[label]; ok {
			fmt.Printf("  %s: %q\n", label, sample)
		}
		fmt.Printf("  new name for %s: ", label)
		if !scanner.Scan() {
			break
		}
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			mappings[label] = name
		}
	}
	return mappings
}

// collectSamples picks the first substantial text line after each
// speaker's first header.
func collectSamples(lines []string) map[string]string {
	samples := map[string]string{}
	current := ""

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := reLabeledHeader.FindStringSubmatch(trimmed); m != nil {
			current = m[2]
			continue
		}
		if reTimestampOnly.MatchString(trimmed) {
			continue
		}
		if m := reSpeakerHeader.FindStringSubmatch(trimmed); m != nil {
			current = m[1]
			continue
		}

		if current != "" && len(trimmed) > 10 {
			if _, ok := samples[current]; !ok {
				if runes := []rune(trimmed); len(runes) > 150 {
					trimmed = string(runes[:150])
				}
				samples[current] = trimmed
			}
		}
	}
	return samples
}

// updateSpeakerMap merges the renames into speakers.json next to the
// transcript. The file is read-merge-written so unrelated bindings
// survive.
func updateSpeakerMap(dir string, mappings map[string]string) error {
	mapPath := filepath.Join(dir, transcript.SpeakerMapFile)
	m, err := transcript.LoadSpeakerMap(mapPath)
	if err != nil {
		return err
	}
	if len(m) == 0 {
		return nil
	}

	changed := false
	for id, name := range m {
		if next, ok := mappings[name]; ok {
			m[id] = next
			changed = true
		}
	}
	for old, next := range mappings {
		if _, ok := m[old]; ok {
			m[old] = next
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return transcript.SaveSpeakerMap(mapPath, m)
}
