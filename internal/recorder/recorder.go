// Package recorder owns the capture session lifecycle: device setup, the
// per-source write pipelines, live statistics and the final mixdown.
package recorder

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/meetlog/meetlog-capture/internal/audio"
	"github.com/meetlog/meetlog-capture/internal/capture"
	"github.com/meetlog/meetlog-capture/internal/config"
	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/progress"
	"github.com/meetlog/meetlog-capture/internal/wavio"
)

// Per-session file names. These are a durable contract with the
// transcription and mixdown consumers.
const (
	SystemFileName = "system.wav"
	MicFileName    = "mic.wav"
	MixedFileName  = "mixed.wav"
)

// SourceFactory builds a capture source on demand. Factories exist so tests
// can substitute synthetic sources for real devices.
type SourceFactory func() (capture.Source, error)

// Recorder drives one capture session at a time. All public methods are safe
// for concurrent use.
type Recorder struct {
	cfg  *config.Config
	sink progress.Sink

	newSystemSource SourceFactory
	newMicSource    SourceFactory

	mu        sync.Mutex
	state     State
	session   *Session
	pipelines []*pipeline
}

// New creates an idle recorder. A nil sink discards progress updates.
func New(cfg *config.Config, sink progress.Sink) *Recorder {
	if sink == nil {
		sink = progress.NoopSink{}
	}
	return &Recorder{
		cfg:  cfg,
		sink: sink,
		newSystemSource: func() (capture.Source, error) {
			return capture.NewLoopbackSource(cfg.LoopbackDevice), nil
		},
		newMicSource: func() (capture.Source, error) {
			return capture.NewInputDeviceSource(cfg.MicDevice), nil
		},
	}
}

// Start opens both devices and begins streaming to disk. Either both sources
// come up or the call fails with everything rolled back and the recorder
// still idle.
func (r *Recorder) Start() (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return nil, ErrAlreadyRecording
	}

	session, err := newSession(r.cfg.RecordingsDir, time.Now())
	if err != nil {
		return nil, err
	}
	logging.Info(logging.CategoryRecorder, "starting session %s in %s", session.ID, session.Dir)

	var pipelines []*pipeline
	rollback := func() {
		for _, p := range pipelines {
			p.source.Stop()
			p.stop()
		}
	}

	for _, setup := range []struct {
		factory SourceFactory
		file    string
	}{
		{r.newSystemSource, SystemFileName},
		{r.newMicSource, MicFileName},
	} {
		p, err := r.openPipeline(setup.factory, filepath.Join(session.Dir, setup.file), session)
		if err != nil {
			rollback()
			r.state = StateIdle
			return nil, err
		}
		pipelines = append(pipelines, p)
	}

	for _, p := range pipelines {
		if err := p.start(); err != nil {
			rollback()
			r.state = StateIdle
			return nil, err
		}
	}

	r.session = session
	r.pipelines = pipelines
	r.state = StateRecording
	return session, nil
}

func (r *Recorder) openPipeline(factory SourceFactory, path string, session *Session) (*pipeline, error) {
	source, err := factory()
	if err != nil {
		return nil, err
	}
	format, err := source.Open()
	if err != nil {
		source.Stop()
		return nil, err
	}
	writer, err := wavio.NewWriter(path, audio.Format{
		SampleRate: r.cfg.SampleRate,
		Channels:   format.Channels,
	})
	if err != nil {
		source.Stop()
		return nil, err
	}
	p, err := newPipeline(source, format, r.cfg.SampleRate, writer, session)
	if err != nil {
		source.Stop()
		writer.Close()
		return nil, err
	}
	logging.Info(logging.CategoryRecorder, "%s source open: %d Hz, %d channel(s) -> %s",
		p.label, format.SampleRate, format.Channels, path)
	return p, nil
}

// Stop ends the session, finalizes both files and runs the mixdown. It
// returns the session output even when some files failed; the Output flags
// and the returned error describe the partial result.
func (r *Recorder) Stop() (*Output, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.state = StateStopping
	session := r.session
	pipelines := r.pipelines
	r.mu.Unlock()

	logging.Info(logging.CategoryRecorder, "stopping session %s", session.ID)

	var failures error
	fileOK := map[audio.SourceLabel]bool{}
	for _, p := range pipelines {
		if err := p.source.Stop(); err != nil {
			logging.Warning(logging.CategoryRecorder, "error stopping %s source: %v", p.label, err)
			failures = multierror.Append(failures, err)
		}
		ok := true
		if err := p.stop(); err != nil {
			failures = multierror.Append(failures, err)
			ok = false
		}
		if err := p.err(); err != nil {
			failures = multierror.Append(failures, err)
			ok = false
		}
		fileOK[p.label] = ok
	}

	out := &Output{
		Directory:  session.Dir,
		SystemFile: filepath.Join(session.Dir, SystemFileName),
		MicFile:    filepath.Join(session.Dir, MicFileName),
		MixedFile:  filepath.Join(session.Dir, MixedFileName),
		SystemOK:   fileOK[audio.SourceSystem],
		MicOK:      fileOK[audio.SourceMic],
	}

	if out.SystemOK || out.MicOK {
		if err := r.runMixdown(out); err != nil {
			logging.Error(logging.CategoryRecorder, "mixdown failed: %v", err)
			failures = multierror.Append(failures, err)
		} else {
			out.MixedOK = true
		}
	}

	r.mu.Lock()
	r.session = nil
	r.pipelines = nil
	// Failures are reported through the returned error; the recorder itself
	// is ready for a new session either way.
	r.state = StateIdle
	r.mu.Unlock()

	logging.Info(logging.CategoryRecorder, "session %s finished: %s", session.ID, out)
	return out, failures
}

func (r *Recorder) runMixdown(out *Output) error {
	systemPath := out.SystemFile
	if !out.SystemOK {
		systemPath = ""
	}
	micPath := out.MicFile
	if !out.MicOK {
		micPath = ""
	}
	m, err := newMixdown(systemPath, micPath, out.MixedFile, r.cfg.SampleRate, r.cfg.SystemGain, r.cfg.MicGain, r.sink)
	if err != nil {
		return err
	}
	return m.run()
}

// Stats reports live counters. It returns false outside of an active
// recording.
func (r *Recorder) Stats() (*Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording || r.session == nil {
		return nil, false
	}
	return r.session.stats(), true
}

// IsRecording reports whether a session is in flight.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateRecording
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
