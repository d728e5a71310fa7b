package transcript

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwegner/meetproc/internal/align"
)

// SpeakerMapFile is the speaker map filename inside an output directory.
const SpeakerMapFile = "speakers.json"

// LoadSpeakerMap reads a speaker map file. A missing file yields an empty
// map, not an error, so first runs and renamed directories behave alike.
func LoadSpeakerMap(path string) (align.SpeakerMap, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return align.SpeakerMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read speaker map: %w", err)
	}

	m := align.SpeakerMap{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse speaker map: %w", err)
	}
	return m, nil
}

// SaveSpeakerMap writes the map atomically. Callers are expected to have
// loaded the previous file and carried its bindings through alignment, so
// user-edited display names survive repeated diarization passes.
func SaveSpeakerMap(path string, m align.SpeakerMap) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode speaker map: %w", err)
	}

	tmp := path + ".partial"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write speaker map: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit speaker map: %w", err)
	}
	return nil
}
