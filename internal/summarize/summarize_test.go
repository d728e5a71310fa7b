package summarize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("a", 100)

	if got := excerpt("kurz", 50); got != "kurz" {
		t.Errorf("excerpt() = %q, want unchanged input", got)
	}
	if got := excerpt(long, 50); len(got) >= 50+1 {
		t.Errorf("excerpt() length = %d, want <= 50", len(got))
	}
	// Never splits a multi-byte sequence.
	umlauts := strings.Repeat("ü", 40)
	got := excerpt(umlauts, 41)
	if strings.ContainsRune(got, '�') {
		t.Errorf("excerpt() produced invalid UTF-8: %q", got)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"Sprint Planung"`, "Sprint Planung"},
		{"  Roadmap Review \n", "Roadmap Review"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}

	for _, tt := range tests {
		if got := cleanTitle(tt.in); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.docx")
	markdown := "# Zusammenfassung\n\nDas Meeting behandelte **zwei** Themen.\n\n- Punkt eins\n- Punkt zwei\n"

	if err := WriteDocx("Meeting-Zusammenfassung", markdown, path); err != nil {
		t.Fatalf("WriteDocx() error = %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat docx: %v", err)
	}
	if fi.Size() == 0 {
		t.Error("docx file is empty")
	}
}
