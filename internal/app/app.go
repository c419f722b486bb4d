// Package app ties the configuration, recorder and transcription layers into
// the operations exposed by the command surface.
package app

import (
	"context"
	"fmt"

	"github.com/meetlog/meetlog-capture/internal/config"
	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/progress"
	"github.com/meetlog/meetlog-capture/internal/recorder"
	"github.com/meetlog/meetlog-capture/internal/transcribe"
)

// App is the long-lived application object behind the CLI commands.
type App struct {
	cfg      *config.Config
	sink     progress.Sink
	recorder *recorder.Recorder
	engine   transcribe.Engine
}

// New wires an App from loaded configuration. A nil sink discards progress
// updates.
func New(cfg *config.Config, sink progress.Sink) *App {
	if sink == nil {
		sink = progress.NoopSink{}
	}
	return &App{
		cfg:      cfg,
		sink:     sink,
		recorder: recorder.New(cfg, sink),
		engine:   transcribe.NewWhisperCLI(cfg.WhisperBin, cfg.WhisperModel, cfg.Language),
	}
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// StartRecording begins a new capture session.
func (a *App) StartRecording() (*recorder.Session, error) {
	session, err := a.recorder.Start()
	if err != nil {
		return nil, fmt.Errorf("failed to start recording: %w", err)
	}
	return session, nil
}

// StopRecording ends the active session and returns the produced files. The
// output is non-nil even when the returned error reports partial failures.
func (a *App) StopRecording() (*recorder.Output, error) {
	return a.recorder.Stop()
}

// RecordingStats reports live counters for the active session.
func (a *App) RecordingStats() (*recorder.Stats, bool) {
	return a.recorder.Stats()
}

// IsRecording reports whether a session is in flight.
func (a *App) IsRecording() bool {
	return a.recorder.IsRecording()
}

// TranscribeRecording transcribes a finished recording directory and writes
// the merged transcript next to the audio files.
func (a *App) TranscribeRecording(ctx context.Context, dir string) (*transcribe.Transcript, error) {
	logging.Info(logging.CategoryTranscribe, "transcribing %s", dir)
	job := &transcribe.Job{
		Directory: dir,
		Engine:    a.engine,
		Sink:      a.sink,
	}
	t, err := job.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	return t, nil
}

// LoadTranscript reads the stored transcript of a recording directory. The
// edited copy wins over the original when both exist.
func (a *App) LoadTranscript(dir string) (*transcribe.Transcript, error) {
	if t, err := transcribe.Load(dir, transcribe.EditedTranscriptFile); err == nil {
		return t, nil
	}
	return transcribe.Load(dir, transcribe.TranscriptFile)
}

// SaveEditedTranscript persists operator edits alongside the original
// transcript, recomputing the derived fields first.
func (a *App) SaveEditedTranscript(dir string, t *transcribe.Transcript) error {
	return transcribe.SaveEdited(dir, t)
}
