package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meetlog/meetlog-capture/internal/audio"
)

// State is the recorder lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// sessionDirLayout names session directories deterministically from the start
// instant; the layout is a durable contract with the transcription side.
const sessionDirLayout = "2006-01-02_15-04-05"

// Session identifies one capture run. It is owned exclusively by the
// Recorder; the sample counters are the only state touched by more than one
// goroutine and are guarded by a single lock.
type Session struct {
	ID        string
	Dir       string
	StartedAt time.Time

	mu            sync.Mutex
	systemSamples uint64
	micSamples    uint64
}

// newSession creates the session directory under root.
func newSession(root string, now time.Time) (*Session, error) {
	dir := filepath.Join(root, now.Format(sessionDirLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &IOError{Path: dir, Op: "create session directory", Err: err}
	}
	return &Session{
		ID:        uuid.NewString(),
		Dir:       dir,
		StartedAt: now,
	}, nil
}

func (s *Session) addSamples(label audio.SourceLabel, n uint64) {
	s.mu.Lock()
	if label == audio.SourceMic {
		s.micSamples += n
	} else {
		s.systemSamples += n
	}
	s.mu.Unlock()
}

func (s *Session) sampleCounts() (system, mic uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemSamples, s.micSamples
}

// Stats is a point-in-time snapshot of a live session.
type Stats struct {
	Duration      time.Duration `json:"duration"`
	SystemSamples uint64        `json:"system_samples_written"`
	MicSamples    uint64        `json:"mic_samples_written"`
}

func (s *Session) stats() *Stats {
	system, mic := s.sampleCounts()
	return &Stats{
		Duration:      time.Since(s.StartedAt),
		SystemSamples: system,
		MicSamples:    mic,
	}
}

// Output is the immutable result of a completed session. The validity flags
// report which files are actually present and playable; a false flag means
// the corresponding path must not be handed to downstream consumers.
type Output struct {
	Directory  string `json:"directory"`
	SystemFile string `json:"system_file"`
	MicFile    string `json:"mic_file"`
	MixedFile  string `json:"mixed_file"`
	SystemOK   bool   `json:"system_ok"`
	MicOK      bool   `json:"mic_ok"`
	MixedOK    bool   `json:"mixed_ok"`
}

func (o *Output) String() string {
	return fmt.Sprintf("recording %s (system=%v mic=%v mixed=%v)", o.Directory, o.SystemOK, o.MicOK, o.MixedOK)
}
