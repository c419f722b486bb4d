package transcribe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/meetlog/meetlog-capture/internal/audio"
	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/wavio"
)

// whisper expects 16 kHz mono input.
const whisperRate = 16000

var progressRe = regexp.MustCompile(`progress\s*=\s*(\d+)%`)

// WhisperCLI runs a local whisper.cpp binary once per file and parses its
// JSON output. Audio is converted to 16 kHz mono before invocation.
type WhisperCLI struct {
	Bin      string
	Model    string
	Language string
}

// NewWhisperCLI creates an engine invoking the given whisper.cpp binary.
func NewWhisperCLI(bin, model, language string) *WhisperCLI {
	return &WhisperCLI{Bin: bin, Model: model, Language: language}
}

type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe implements Engine.
func (w *WhisperCLI) Transcribe(ctx context.Context, wavPath string, speaker Speaker, onProgress func(percent int)) ([]Segment, error) {
	if w.Model == "" {
		return nil, fmt.Errorf("whisper model path is not configured")
	}

	prepared, cleanup, err := w.prepareAudio(wavPath)
	if err != nil {
		return nil, err
	}
	if prepared == "" {
		// Empty recording: no segments, not an error.
		return nil, nil
	}
	defer cleanup()

	outBase := strings.TrimSuffix(prepared, ".wav") + "_out"
	args := []string{
		"-m", w.Model,
		"-f", prepared,
		"-oj",
		"-of", outBase,
		"--print-progress",
	}
	if w.Language != "" {
		args = append(args, "-l", w.Language)
	}

	cmd := exec.CommandContext(ctx, w.Bin, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe whisper stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", w.Bin, err)
	}

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if onProgress == nil {
			continue
		}
		if m := progressRe.FindStringSubmatch(scanner.Text()); m != nil {
			var pct int
			fmt.Sscanf(m[1], "%d", &pct)
			onProgress(pct)
		}
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", wavPath, err)
	}
	if onProgress != nil {
		onProgress(100)
	}

	segments, err := parseWhisperOutput(outBase+".json", speaker)
	if err != nil {
		return nil, err
	}
	logging.Info(logging.CategoryTranscribe, "%s transcription: %d segments", speaker, len(segments))
	return segments, nil
}

// parseWhisperOutput converts one whisper.cpp JSON result into segments,
// dropping whitespace-only lines. Offsets on the wire are milliseconds.
func parseWhisperOutput(path string, speaker Speaker) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whisper output %s: %w", path, err)
	}
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output %s: %w", path, err)
	}

	segments := make([]Segment, 0, len(out.Transcription))
	for _, item := range out.Transcription {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:    text,
			Start:   float64(item.Offsets.From) / 1000.0,
			End:     float64(item.Offsets.To) / 1000.0,
			Speaker: speaker,
		})
	}
	return segments, nil
}

// prepareAudio converts the source file to 16 kHz mono in a temp directory.
// It returns an empty path for an empty recording.
func (w *WhisperCLI) prepareAudio(wavPath string) (string, func(), error) {
	samples, format, err := wavio.ReadAll(wavPath)
	if err != nil {
		return "", nil, fmt.Errorf("load audio %s: %w", wavPath, err)
	}
	if len(samples) == 0 {
		return "", nil, nil
	}

	mono, err := audio.ConvertChannels(samples, format.Channels, 1)
	if err != nil {
		return "", nil, fmt.Errorf("downmix %s: %w", wavPath, err)
	}

	rs, err := audio.NewResampler(format.SampleRate, whisperRate, 1)
	if err != nil {
		return "", nil, err
	}
	resampled := rs.Process(mono)

	tmpDir, err := os.MkdirTemp("", "meetlog-whisper-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	prepared := filepath.Join(tmpDir, "audio.wav")
	writer, err := wavio.NewWriter(prepared, audio.Format{SampleRate: whisperRate, Channels: 1})
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if err := writer.WriteBlock(resampled); err != nil {
		writer.Close()
		cleanup()
		return "", nil, err
	}
	if err := writer.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return prepared, cleanup, nil
}
