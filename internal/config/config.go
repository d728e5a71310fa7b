package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Whisper WhisperConfig `yaml:"whisper"`
	Diarize DiarizeConfig `yaml:"diarize"`
	Summary SummaryConfig `yaml:"summary"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type FFmpegConfig struct {
	HardwareEncoder string `yaml:"hardware_encoder"`
	SoftwareEncoder string `yaml:"software_encoder"`
	SoftwareCRF     int    `yaml:"software_crf"`
	AudioBitrate    string `yaml:"audio_bitrate"`
}

type WhisperConfig struct {
	Command  string `yaml:"command"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type DiarizeConfig struct {
	Command  string `yaml:"command"`
	TokenEnv string `yaml:"token_env"`
}

type SummaryConfig struct {
	Model  string `yaml:"model"`
	KeyEnv string `yaml:"key_env"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Load reads a yaml config file and applies defaults. An empty path
// returns a default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		c.Paths.Input = "files"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "converted"
	}
	if c.FFmpeg.HardwareEncoder == "" {
		c.FFmpeg.HardwareEncoder = "hevc_videotoolbox"
	}
	if c.FFmpeg.SoftwareEncoder == "" {
		c.FFmpeg.SoftwareEncoder = "libx265"
	}
	if c.FFmpeg.SoftwareCRF == 0 {
		c.FFmpeg.SoftwareCRF = 28
	}
	if c.FFmpeg.SoftwareCRF < 0 || c.FFmpeg.SoftwareCRF > 51 {
		return fmt.Errorf("ffmpeg.software_crf must be between 0 and 51, got %d", c.FFmpeg.SoftwareCRF)
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "128k"
	}
	if c.Whisper.Command == "" {
		c.Whisper.Command = "python3"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "turbo"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "de"
	}
	if c.Diarize.Command == "" {
		c.Diarize.Command = "diarize"
	}
	if c.Diarize.TokenEnv == "" {
		c.Diarize.TokenEnv = "HF_TOKEN"
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gemini-2.5-flash"
	}
	if c.Summary.KeyEnv == "" {
		c.Summary.KeyEnv = "GEMINI_API_KEY"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
