// Package config loads runtime configuration for the capture pipeline.
// Precedence: built-in defaults, then the optional TOML config file, then
// the environment (a .env file is honored if present).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the configuration for the capture pipeline.
type Config struct {
	// RecordingsDir is the root under which per-session directories are created.
	RecordingsDir string

	// SampleRate is the canonical rate all captured audio is normalized to.
	SampleRate int

	// MicDevice optionally names the input device to capture from.
	// Empty means the system default input device.
	MicDevice string

	// LoopbackDevice optionally names the device carrying system output audio.
	// Empty means the default loopback path for the platform.
	LoopbackDevice string

	// SystemGain and MicGain are the mix weights for the reference file.
	SystemGain float64
	MicGain    float64

	// WhisperBin is the whisper.cpp CLI binary used for transcription.
	WhisperBin string
	// WhisperModel is the path to the ggml model file.
	WhisperModel string
	// Language passed to the transcription engine.
	Language string

	LogLevel string
}

type fileConfig struct {
	RecordingsDir  string  `toml:"recordings_dir"`
	SampleRate     int     `toml:"sample_rate"`
	MicDevice      string  `toml:"mic_device"`
	LoopbackDevice string  `toml:"loopback_device"`
	SystemGain     float64 `toml:"system_gain"`
	MicGain        float64 `toml:"mic_gain"`
	WhisperBin     string  `toml:"whisper_bin"`
	WhisperModel   string  `toml:"whisper_model"`
	Language       string  `toml:"language"`
	LogLevel       string  `toml:"log_level"`
}

// Load loads configuration from the config file and environment.
func Load() (*Config, error) {
	cfg := &Config{
		RecordingsDir: defaultRecordingsDir(),
		SampleRate:    48000,
		SystemGain:    0.7,
		MicGain:       0.3,
		WhisperBin:    "whisper-cli",
		Language:      "en",
		LogLevel:      "info",
	}

	if path := configFilePath(); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else {
			applyFile(cfg, &fc)
		}
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg.RecordingsDir = expandTilde(getEnv("MEETLOG_RECORDINGS_DIR", cfg.RecordingsDir))
	cfg.MicDevice = getEnv("MEETLOG_MIC_DEVICE", cfg.MicDevice)
	cfg.LoopbackDevice = getEnv("MEETLOG_LOOPBACK_DEVICE", cfg.LoopbackDevice)
	cfg.WhisperBin = getEnv("MEETLOG_WHISPER_BIN", cfg.WhisperBin)
	cfg.WhisperModel = expandTilde(getEnv("MEETLOG_WHISPER_MODEL", cfg.WhisperModel))
	cfg.Language = getEnv("MEETLOG_LANGUAGE", cfg.Language)
	cfg.LogLevel = getEnv("MEETLOG_LOG_LEVEL", cfg.LogLevel)

	if rateStr := getEnv("MEETLOG_SAMPLE_RATE", ""); rateStr != "" {
		if n, err := strconv.Atoi(rateStr); err == nil && n > 0 {
			cfg.SampleRate = n
		}
	}

	// Validate
	if cfg.RecordingsDir == "" {
		return nil, fmt.Errorf("recordings_dir is required")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample_rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.SystemGain < 0 || cfg.MicGain < 0 {
		return nil, fmt.Errorf("mix gains must be non-negative (system=%v mic=%v)", cfg.SystemGain, cfg.MicGain)
	}

	return cfg, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	if fc.RecordingsDir != "" {
		cfg.RecordingsDir = expandTilde(fc.RecordingsDir)
	}
	if fc.SampleRate > 0 {
		cfg.SampleRate = fc.SampleRate
	}
	if fc.MicDevice != "" {
		cfg.MicDevice = fc.MicDevice
	}
	if fc.LoopbackDevice != "" {
		cfg.LoopbackDevice = fc.LoopbackDevice
	}
	if fc.SystemGain > 0 {
		cfg.SystemGain = fc.SystemGain
	}
	if fc.MicGain > 0 {
		cfg.MicGain = fc.MicGain
	}
	if fc.WhisperBin != "" {
		cfg.WhisperBin = fc.WhisperBin
	}
	if fc.WhisperModel != "" {
		cfg.WhisperModel = expandTilde(fc.WhisperModel)
	}
	if fc.Language != "" {
		cfg.Language = fc.Language
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}

func configFilePath() string {
	if path := os.Getenv("MEETLOG_CONFIG"); path != "" {
		return expandTilde(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "meetlog", "config.toml")
}

func defaultRecordingsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "recordings"
	}
	return filepath.Join(home, "meetlog", "recordings")
}

func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
