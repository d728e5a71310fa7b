package transcript

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fwegner/meetproc/internal/align"
)

func TestLoadSpeakerMapMissingFile(t *testing.T) {
	m, err := LoadSpeakerMap(filepath.Join(t.TempDir(), "speakers.json"))
	if err != nil {
		t.Fatalf("LoadSpeakerMap() error = %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}

func TestSpeakerMapRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speakers.json")
	m := align.SpeakerMap{"SPEAKER_00": "Reza", "SPEAKER_01": "Speaker-2"}

	if err := SaveSpeakerMap(path, m); err != nil {
		t.Fatalf("SaveSpeakerMap() error = %v", err)
	}

	loaded, err := LoadSpeakerMap(path)
	if err != nil {
		t.Fatalf("LoadSpeakerMap() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, m) {
		t.Errorf("loaded = %v, want %v", loaded, m)
	}
}

// User edits survive a repeated diarization pass: the old file's bindings
// feed alignment, new IDs are appended, nothing is renamed back.
func TestSpeakerMapSurvivesRealignment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speakers.json")
	if err := SaveSpeakerMap(path, align.SpeakerMap{"SPEAKER_00": "Florian"}); err != nil {
		t.Fatal(err)
	}

	existing, err := LoadSpeakerMap(path)
	if err != nil {
		t.Fatal(err)
	}

	segments := []align.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 4, Text: "b"},
	}
	turns := []align.Turn{
		{Start: 0, End: 2, Speaker: "SPEAKER_00"},
		{Start: 2, End: 4, Speaker: "SPEAKER_01"},
	}

	_, speakers := align.Align(segments, turns, existing)
	if err := SaveSpeakerMap(path, speakers); err != nil {
		t.Fatal(err)
	}

	final, err := LoadSpeakerMap(path)
	if err != nil {
		t.Fatal(err)
	}
	if final["SPEAKER_00"] != "Florian" {
		t.Errorf("SPEAKER_00 = %q, want Florian", final["SPEAKER_00"])
	}
	if final["SPEAKER_01"] != "Speaker-2" {
		t.Errorf("SPEAKER_01 = %q, want Speaker-2", final["SPEAKER_01"])
	}
}
