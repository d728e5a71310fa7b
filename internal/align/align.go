// Package align fuses speech-to-text segments with speaker-diarization
// turns into speaker-labeled transcript blocks. It operates on plain value
// types so it stays independent of whisper's and pyannote's output shapes.
package align

import "fmt"

// Segment is a timestamped unit of recognized speech.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Turn is an interval attributed to one anonymous speaker identity.
type Turn struct {
	Start   float64
	End     float64
	Speaker string
}

// Block is the merged output unit: one or more consecutive segments under
// one resolved speaker. Speaker is the raw diarization ID, empty when no
// turn overlapped the underlying segments.
type Block struct {
	Start   float64
	End     float64
	Speaker string
	Text    string
}

// SpeakerMap maps a diarization speaker ID to a display name.
type SpeakerMap map[string]string

// Align resolves a speaker for every segment, merges consecutive
// same-speaker segments into blocks, and derives the speaker map. Existing
// display-name bindings are preserved; newly seen IDs get default names in
// order of first appearance. With no turns, every block has an empty
// speaker and the returned map is empty.
func Align(segments []Segment, turns []Turn, existing SpeakerMap) ([]Block, SpeakerMap) {
	blocks := merge(segments, turns)
	return blocks, buildSpeakerMap(blocks, existing)
}

// resolveSpeaker picks the turn with the greatest overlap duration.
// Ties go to the turn whose start is closest to the segment's start, then
// to the earlier turn in the diarization sequence. A segment no turn
// overlaps gets no speaker.
func resolveSpeaker(seg Segment, turns []Turn) string {
	best := -1
	bestOverlap := 0.0
	bestDist := 0.0

	for i, t := range turns {
		ov := overlap(seg, t)
		if ov <= 0 {
			continue
		}
		dist := abs(t.Start - seg.Start)
		if best < 0 || ov > bestOverlap || (ov == bestOverlap && dist < bestDist) {
			best = i
			bestOverlap = ov
			bestDist = dist
		}
	}

	if best < 0 {
		return ""
	}
	return turns[best].Speaker
}

func overlap(seg Segment, t Turn) float64 {
	start := seg.Start
	if t.Start > start {
		start = t.Start
	}
	end := seg.End
	if t.End < end {
		end = t.End
	}
	return end - start
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// merge assigns speakers and folds consecutive same-speaker segments into
// one block. Texts are concatenated verbatim so no speech is lost or
// duplicated across the merge.
func merge(segments []Segment, turns []Turn) []Block {
	var blocks []Block

	for _, seg := range segments {
		speaker := resolveSpeaker(seg, turns)

		if n := len(blocks); n > 0 && blocks[n-1].Speaker == speaker {
			blocks[n-1].End = seg.End
			blocks[n-1].Text += seg.Text
			continue
		}

		blocks = append(blocks, Block{
			Start:   seg.Start,
			End:     seg.End,
			Speaker: speaker,
			Text:    seg.Text,
		})
	}

	return blocks
}

// buildSpeakerMap returns a map whose keys are exactly the non-empty
// speaker IDs appearing in blocks, in order of first appearance. Bindings
// from existing are kept; everything else gets the next default name.
func buildSpeakerMap(blocks []Block, existing SpeakerMap) SpeakerMap {
	result := SpeakerMap{}

	for _, b := range blocks {
		if b.Speaker == "" {
			continue
		}
		if _, ok := result[b.Speaker]; ok {
			continue
		}
		if name, ok := existing[b.Speaker]; ok && name != "" {
			result[b.Speaker] = name
			continue
		}
		result[b.Speaker] = fmt.Sprintf("Speaker-%d", len(result)+1)
	}

	return result
}
