// Package capture abstracts hardware audio inputs as block streams.
// Two variants share one contract: the input-device source (the operator's
// microphone) and the loopback source (everything the machine plays, standing
// in for the other meeting participants).
package capture

import (
	"fmt"

	"github.com/meetlog/meetlog-capture/internal/audio"
)

// ErrorReason classifies device failures so callers can present actionable
// guidance instead of a flat string.
type ErrorReason int

const (
	// ReasonUnavailable means the device is missing or busy.
	ReasonUnavailable ErrorReason = iota
	// ReasonPermissionDenied means the OS rejected access to the device.
	ReasonPermissionDenied
	// ReasonLost means the device disappeared mid-capture.
	ReasonLost
)

func (r ErrorReason) String() string {
	switch r {
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonLost:
		return "device lost"
	default:
		return "device unavailable"
	}
}

// DeviceError is a device failure tagged with the capture path it came from.
type DeviceError struct {
	Source audio.SourceLabel
	Reason ErrorReason
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s source: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s source: %s", e.Source, e.Reason)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Source produces a live sequence of audio blocks at the device's native rate
// until told to stop.
//
// Lifecycle: Open acquires the device and reports the stream format before
// the first block; Start begins delivery into out; Stop ends capture and is
// safe to call more than once. After Stop returns no further sends happen.
// Done yields at most one stream-level error (a device that disappeared
// mid-session) and is closed when the source winds down.
type Source interface {
	Label() audio.SourceLabel
	Open() (audio.Format, error)
	Start(out chan<- audio.Block) error
	Stop() error
	Done() <-chan error
}
