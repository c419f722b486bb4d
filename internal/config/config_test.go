package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MEETLOG_CONFIG", filepath.Join(t.TempDir(), "nonexistent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 48000, cfg.SampleRate)
	require.Equal(t, 0.7, cfg.SystemGain)
	require.Equal(t, 0.3, cfg.MicGain)
	require.Equal(t, "whisper-cli", cfg.WhisperBin)
	require.Equal(t, "en", cfg.Language)
	require.Equal(t, "info", cfg.LogLevel)
	require.NotEmpty(t, cfg.RecordingsDir)
}

func TestLoadFromTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
recordings_dir = "/tmp/meetings"
sample_rate = 44100
mic_device = "USB Microphone"
system_gain = 0.6
mic_gain = 0.4
whisper_model = "/models/ggml-base.bin"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("MEETLOG_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/meetings", cfg.RecordingsDir)
	require.Equal(t, 44100, cfg.SampleRate)
	require.Equal(t, "USB Microphone", cfg.MicDevice)
	require.Equal(t, 0.6, cfg.SystemGain)
	require.Equal(t, 0.4, cfg.MicGain)
	require.Equal(t, "/models/ggml-base.bin", cfg.WhisperModel)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mic_device = "from file"`), 0o644))
	t.Setenv("MEETLOG_CONFIG", path)
	t.Setenv("MEETLOG_MIC_DEVICE", "from env")
	t.Setenv("MEETLOG_SAMPLE_RATE", "32000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from env", cfg.MicDevice)
	require.Equal(t, 32000, cfg.SampleRate)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`sample_rate = "not a number`), 0o644))
	t.Setenv("MEETLOG_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "recordings"), expandTilde("~/recordings"))
	require.Equal(t, "/absolute/path", expandTilde("/absolute/path"))
}
