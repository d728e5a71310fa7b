package align

import (
	"reflect"
	"testing"
)

func TestResolveSpeakerGreatestOverlap(t *testing.T) {
	seg := Segment{Start: 10, End: 12, Text: "hallo"}
	turns := []Turn{
		{Start: 9, End: 11.5, Speaker: "SPEAKER_00"}, // 1.5s overlap
		{Start: 11.5, End: 13, Speaker: "SPEAKER_01"}, // 0.5s overlap
	}

	if got := resolveSpeaker(seg, turns); got != "SPEAKER_00" {
		t.Errorf("resolveSpeaker() = %q, want SPEAKER_00", got)
	}
}

func TestResolveSpeakerTieBreaks(t *testing.T) {
	tests := []struct {
		name  string
		seg   Segment
		turns []Turn
		want  string
	}{
		{
			name: "equal overlap prefers closer start",
			seg:  Segment{Start: 10, End: 12},
			turns: []Turn{
				{Start: 8, End: 11, Speaker: "SPEAKER_00"},  // 1s overlap, start dist 2
				{Start: 11, End: 14, Speaker: "SPEAKER_01"}, // 1s overlap, start dist 1
			},
			want: "SPEAKER_01",
		},
		{
			name: "equal overlap and distance prefers earlier turn",
			seg:  Segment{Start: 10, End: 12},
			turns: []Turn{
				{Start: 9, End: 11, Speaker: "SPEAKER_00"},  // 1s overlap, start dist 1
				{Start: 11, End: 13, Speaker: "SPEAKER_01"}, // 1s overlap, start dist 1
			},
			want: "SPEAKER_00",
		},
		{
			name: "no overlapping turn leaves speaker unset",
			seg:  Segment{Start: 10, End: 12},
			turns: []Turn{
				{Start: 0, End: 5, Speaker: "SPEAKER_00"},
				{Start: 20, End: 25, Speaker: "SPEAKER_01"},
			},
			want: "",
		},
		{
			name: "touching boundary is not overlap",
			seg:  Segment{Start: 10, End: 12},
			turns: []Turn{
				{Start: 12, End: 14, Speaker: "SPEAKER_00"},
			},
			want: "",
		},
		{
			name: "overlapping turns from different speakers tolerated",
			seg:  Segment{Start: 10, End: 12},
			turns: []Turn{
				{Start: 9, End: 12, Speaker: "SPEAKER_00"},
				{Start: 9.5, End: 12, Speaker: "SPEAKER_01"},
			},
			want: "SPEAKER_00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveSpeaker(tt.seg, tt.turns); got != tt.want {
				t.Errorf("resolveSpeaker() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlignMergesConsecutiveSameSpeaker(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2, Text: "Guten Morgen."},
		{Start: 2, End: 4, Text: " Wie geht es dir?"},
		{Start: 4, End: 6, Text: " Gut, danke."},
	}
	turns := []Turn{
		{Start: 0, End: 4, Speaker: "SPEAKER_00"},
		{Start: 4, End: 6, Speaker: "SPEAKER_01"},
	}

	blocks, speakers := Align(segments, turns, nil)

	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Speaker != "SPEAKER_00" || blocks[0].Text != "Guten Morgen. Wie geht es dir?" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[0].Start != 0 || blocks[0].End != 4 {
		t.Errorf("block 0 range = [%v, %v], want [0, 4]", blocks[0].Start, blocks[0].End)
	}
	if blocks[1].Speaker != "SPEAKER_01" {
		t.Errorf("block 1 speaker = %q", blocks[1].Speaker)
	}

	want := SpeakerMap{"SPEAKER_00": "Speaker-1", "SPEAKER_01": "Speaker-2"}
	if !reflect.DeepEqual(speakers, want) {
		t.Errorf("speakers = %v, want %v", speakers, want)
	}
}

func TestAlignUnsetSpeakerBlocksMerge(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1, Text: "eins"},
		{Start: 1, End: 2, Text: " zwei"},
	}

	blocks, speakers := Align(segments, nil, nil)

	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if blocks[0].Speaker != "" {
		t.Errorf("speaker = %q, want unset", blocks[0].Speaker)
	}
	if blocks[0].Text != "eins zwei" {
		t.Errorf("text = %q", blocks[0].Text)
	}
	if len(speakers) != 0 {
		t.Errorf("speakers = %v, want empty", speakers)
	}
}

func TestAlignSpeakerTransitionThroughUnset(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 10, End: 12, Text: "b"}, // no turn covers this
		{Start: 20, End: 22, Text: "c"},
	}
	turns := []Turn{
		{Start: 0, End: 2, Speaker: "SPEAKER_00"},
		{Start: 20, End: 22, Speaker: "SPEAKER_00"},
	}

	blocks, _ := Align(segments, turns, nil)

	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if blocks[1].Speaker != "" {
		t.Errorf("middle block speaker = %q, want unset", blocks[1].Speaker)
	}
}

// No speech text may be lost or duplicated by the merge.
func TestAlignPreservesText(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1, Text: "Das"},
		{Start: 1, End: 2, Text: " ist"},
		{Start: 2, End: 3, Text: " ein"},
		{Start: 3, End: 4, Text: " Test."},
	}
	turns := []Turn{
		{Start: 0, End: 1.5, Speaker: "SPEAKER_00"},
		{Start: 1.5, End: 4, Speaker: "SPEAKER_01"},
	}

	blocks, _ := Align(segments, turns, nil)

	var fromSegments, fromBlocks string
	for _, s := range segments {
		fromSegments += s.Text
	}
	for _, b := range blocks {
		fromBlocks += b.Text
	}
	if fromBlocks != fromSegments {
		t.Errorf("text mismatch:\nblocks:   %q\nsegments: %q", fromBlocks, fromSegments)
	}
}

func TestAlignIdempotent(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2, Text: "x"},
		{Start: 2, End: 5, Text: " y"},
		{Start: 5, End: 9, Text: " z"},
	}
	turns := []Turn{
		{Start: 0, End: 3, Speaker: "SPEAKER_01"},
		{Start: 3, End: 9, Speaker: "SPEAKER_00"},
	}

	b1, m1 := Align(segments, turns, nil)
	b2, m2 := Align(segments, turns, nil)

	if !reflect.DeepEqual(b1, b2) {
		t.Errorf("blocks differ between runs:\n%v\n%v", b1, b2)
	}
	if !reflect.DeepEqual(m1, m2) {
		t.Errorf("speaker maps differ between runs: %v vs %v", m1, m2)
	}
}

func TestSpeakerMapPreservesExistingBindings(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 4, Text: "b"},
	}
	turns := []Turn{
		{Start: 0, End: 2, Speaker: "SPEAKER_00"},
		{Start: 2, End: 4, Speaker: "SPEAKER_01"},
	}
	existing := SpeakerMap{"SPEAKER_00": "Reza"}

	_, speakers := Align(segments, turns, existing)

	if speakers["SPEAKER_00"] != "Reza" {
		t.Errorf("SPEAKER_00 = %q, want Reza", speakers["SPEAKER_00"])
	}
	if speakers["SPEAKER_01"] != "Speaker-2" {
		t.Errorf("SPEAKER_01 = %q, want Speaker-2", speakers["SPEAKER_01"])
	}
}

// Keys must be exactly the speakers present in the blocks: stale entries
// from an earlier map are dropped, none are missing.
func TestSpeakerMapKeysMatchBlocks(t *testing.T) {
	segments := []Segment{{Start: 0, End: 2, Text: "a"}}
	turns := []Turn{{Start: 0, End: 2, Speaker: "SPEAKER_03"}}
	existing := SpeakerMap{"SPEAKER_00": "Alt", "SPEAKER_03": "Neu"}

	blocks, speakers := Align(segments, turns, existing)

	seen := map[string]bool{}
	for _, b := range blocks {
		if b.Speaker != "" {
			seen[b.Speaker] = true
		}
	}
	if len(speakers) != len(seen) {
		t.Fatalf("map size = %d, block speakers = %d", len(speakers), len(seen))
	}
	for id := range seen {
		if _, ok := speakers[id]; !ok {
			t.Errorf("missing key %q", id)
		}
	}
	if _, ok := speakers["SPEAKER_00"]; ok {
		t.Error("stale key SPEAKER_00 should be dropped")
	}
}

func TestAlignEmptySegments(t *testing.T) {
	blocks, speakers := Align(nil, []Turn{{Start: 0, End: 5, Speaker: "SPEAKER_00"}}, nil)
	if len(blocks) != 0 || len(speakers) != 0 {
		t.Errorf("expected empty outputs, got %v / %v", blocks, speakers)
	}
}
