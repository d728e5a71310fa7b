package naming

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseRecordingTime(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     time.Time
		ok       bool
	}{
		{
			name:     "screen recording name",
			filename: "Bildschirmaufnahme 2026-01-28 um 09.47.24",
			want:     time.Date(2026, 1, 28, 9, 47, 24, 0, time.Local),
			ok:       true,
		},
		{
			name:     "with extension",
			filename: "Bildschirmaufnahme 2025-12-01 um 14.00.05.mov",
			want:     time.Date(2025, 12, 1, 14, 0, 5, 0, time.Local),
			ok:       true,
		},
		{
			name:     "no timestamp",
			filename: "meeting_final.mp4",
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRecordingTime(tt.filename)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("time = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sprint Planung", "Sprint-Planung"},
		{"Q3: Roadmap / Review", "Q3-Roadmap-Review"},
		{"  viel   Leerraum  ", "viel-Leerraum"},
		{"Übergabe München", "Übergabe-München"},
		{"???", ""},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFolderName(t *testing.T) {
	ts := time.Date(2026, 1, 28, 9, 47, 24, 0, time.Local) // a Wednesday

	if got := FolderName(ts, "Sprint Planung"); got != "2026-01-28_Mittwoch_09-47_Sprint-Planung" {
		t.Errorf("FolderName() = %q", got)
	}
	if got := FolderName(ts, ""); got != "2026-01-28_Mittwoch_09-47_Meeting" {
		t.Errorf("FolderName() fallback = %q", got)
	}
}

func TestResolveCollision(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "taken"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "taken_2"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := ResolveCollision(dir, "free", ""); got != "free" {
		t.Errorf("free name = %q, want free", got)
	}
	if got := ResolveCollision(dir, "taken", ""); got != "taken_3" {
		t.Errorf("collided name = %q, want taken_3", got)
	}
	// Renaming a directory onto its own name is not a collision.
	if got := ResolveCollision(dir, "taken", "taken"); got != "taken" {
		t.Errorf("self rename = %q, want taken", got)
	}
}
