package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/progress"
	"github.com/meetlog/meetlog-capture/internal/wavio"
)

// PhaseSystem and PhaseMic identify which source file a transcription
// progress update refers to.
const (
	PhaseSystem = "system"
	PhaseMic    = "mic"
)

// Job transcribes one recording directory: each source file is run through
// the engine independently and the two segment lists are merged into a single
// transcript, which is also persisted into the directory.
type Job struct {
	Directory string
	Engine    Engine
	Sink      progress.Sink
}

// Run executes the job. A missing source file contributes an empty segment
// list rather than failing the whole pipeline.
func (j *Job) Run(ctx context.Context) (*Transcript, error) {
	sink := j.Sink
	if sink == nil {
		sink = progress.NoopSink{}
	}

	systemFile := filepath.Join(j.Directory, "system.wav")
	micFile := filepath.Join(j.Directory, "mic.wav")

	logging.Info(logging.CategoryTranscribe, "transcribing recording dir=%s", j.Directory)

	var systemSegs, micSegs []Segment
	if fileExists(systemFile) {
		segs, err := j.Engine.Transcribe(ctx, systemFile, SpeakerParticipants, func(pct int) {
			// system covers the first half of overall progress
			sink.OnTranscriptionProgress(progress.TranscriptionProgress{
				Phase:          PhaseSystem,
				FilePercent:    pct,
				OverallPercent: float64(pct) / 2.0,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("transcribe system file: %w", err)
		}
		systemSegs = segs
	}

	if fileExists(micFile) {
		segs, err := j.Engine.Transcribe(ctx, micFile, SpeakerOperator, func(pct int) {
			sink.OnTranscriptionProgress(progress.TranscriptionProgress{
				Phase:          PhaseMic,
				FilePercent:    pct,
				OverallPercent: 50.0 + float64(pct)/2.0,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("transcribe mic file: %w", err)
		}
		micSegs = segs
	}

	t := Merge(systemSegs, micSegs, j.fallbackDuration(systemFile, micFile))
	logging.Info(logging.CategoryTranscribe, "transcription complete segments=%d duration=%.1fs", len(t.Segments), t.Duration)

	if err := Save(j.Directory, TranscriptFile, t); err != nil {
		return nil, err
	}
	return t, nil
}

// fallbackDuration returns the longer source recording's duration in seconds,
// used when no segments were produced.
func (j *Job) fallbackDuration(paths ...string) float64 {
	longest := 0.0
	for _, path := range paths {
		if !fileExists(path) {
			continue
		}
		d, err := wavio.Duration(path)
		if err != nil {
			logging.Warning(logging.CategoryTranscribe, "failed to read duration of %s: %v", path, err)
			continue
		}
		if secs := d.Seconds(); secs > longest {
			longest = secs
		}
	}
	return longest
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
