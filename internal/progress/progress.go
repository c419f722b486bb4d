// Package progress provides a hook point for outbound progress updates.
// Updates are fire-and-forget notifications for UI consumers: there is no
// acknowledgment, no guaranteed delivery, and no ordering guarantee across
// distinct kinds.
package progress

// MixingProgress reports the mixing post-pass position.
type MixingProgress struct {
	CurrentFrame uint64  `json:"current_frame"`
	TotalFrames  uint64  `json:"total_frames"`
	Percent      float64 `json:"percent"`
}

// TranscriptionProgress reports per-file and overall transcription position.
// Phase identifies which source file is being transcribed ("system" or "mic").
type TranscriptionProgress struct {
	Phase          string  `json:"phase"`
	FilePercent    int     `json:"file_percent"`
	OverallPercent float64 `json:"overall_percent"`
}

// Sink receives progress updates. Implementations must not block.
type Sink interface {
	OnMixingProgress(MixingProgress)
	OnTranscriptionProgress(TranscriptionProgress)
}

// NoopSink discards all updates.
type NoopSink struct{}

func (NoopSink) OnMixingProgress(MixingProgress)               {}
func (NoopSink) OnTranscriptionProgress(TranscriptionProgress) {}

// Event is a tagged union of the progress kinds carried by ChannelSink.
type Event struct {
	Mixing        *MixingProgress
	Transcription *TranscriptionProgress
}

// ChannelSink forwards updates into a bounded channel, dropping events when
// the consumer lags. Consumers must tolerate missed updates.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink creates a sink buffering up to size events.
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 64
	}
	return &ChannelSink{events: make(chan Event, size)}
}

// Events returns the channel updates are delivered on.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

func (s *ChannelSink) OnMixingProgress(p MixingProgress) {
	select {
	case s.events <- Event{Mixing: &p}:
	default:
	}
}

func (s *ChannelSink) OnTranscriptionProgress(p TranscriptionProgress) {
	select {
	case s.events <- Event{Transcription: &p}:
	default:
	}
}
