package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  input: "recordings"
  output: "processed"

ffmpeg:
  hardware_encoder: "hevc_videotoolbox"
  audio_bitrate: "96k"

whisper:
  model: "medium"
  language: "de"

logging:
  level: "debug"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Input != "recordings" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "recordings")
	}
	if cfg.Whisper.Model != "medium" {
		t.Errorf("Model = %v, want %v", cfg.Whisper.Model, "medium")
	}
	// Defaults still apply for unset fields
	if cfg.FFmpeg.SoftwareEncoder != "libx265" {
		t.Errorf("SoftwareEncoder = %v, want libx265", cfg.FFmpeg.SoftwareEncoder)
	}
	if cfg.FFmpeg.SoftwareCRF != 28 {
		t.Errorf("SoftwareCRF = %v, want 28", cfg.FFmpeg.SoftwareCRF)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Input != "files" {
		t.Errorf("Input = %v, want files", cfg.Paths.Input)
	}
	if cfg.Whisper.Language != "de" {
		t.Errorf("Language = %v, want de", cfg.Whisper.Language)
	}
	if cfg.Summary.KeyEnv != "GEMINI_API_KEY" {
		t.Errorf("KeyEnv = %v, want GEMINI_API_KEY", cfg.Summary.KeyEnv)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{Quality: 50}, false},
		{"quality too high", Options{Quality: 150}, true},
		{"quality negative", Options{Quality: -1}, true},
		{"valid scale", Options{Quality: 50, Scale: "720p"}, false},
		{"unknown scale", Options{Quality: 50, Scale: "480p"}, true},
		{"exclusive modes", Options{Quality: 50, CompressOnly: true, DiarizeOnly: true}, true},
		{"single mode ok", Options{Quality: 50, TranscribeOnly: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
