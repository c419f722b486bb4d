package capture

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/meetlog/meetlog-capture/internal/audio"
	"github.com/meetlog/meetlog-capture/internal/logging"
)

// deviceSource captures PCM from a miniaudio device. It backs both variants:
// the input-device source and the loopback source.
type deviceSource struct {
	label      audio.SourceLabel
	deviceType malgo.DeviceType
	nameHint   string

	mctx   *malgo.AllocatedContext
	device *malgo.Device
	format audio.Format

	mu      sync.Mutex
	out     chan<- audio.Block
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan error
	stopped bool
	closed  bool
}

// NewInputDeviceSource creates a source capturing the operator's microphone.
// nameHint optionally selects a device by substring match on its name; empty
// selects the system default input device.
func NewInputDeviceSource(nameHint string) Source {
	return newDeviceSource(audio.SourceMic, malgo.Capture, nameHint)
}

// NewLoopbackSource creates a source capturing the system's audio output.
// On backends without native loopback it falls back to a monitor capture
// device (e.g. a PulseAudio ".monitor" source); nameHint can pin one.
func NewLoopbackSource(nameHint string) Source {
	return newDeviceSource(audio.SourceSystem, malgo.Loopback, nameHint)
}

func newDeviceSource(label audio.SourceLabel, deviceType malgo.DeviceType, nameHint string) *deviceSource {
	ctx, cancel := context.WithCancel(context.Background())
	return &deviceSource{
		label:      label,
		deviceType: deviceType,
		nameHint:   nameHint,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan error, 1),
	}
}

func (s *deviceSource) Label() audio.SourceLabel {
	return s.label
}

// Open acquires the device and reports the native stream format.
func (s *deviceSource) Open() (audio.Format, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logging.Debug(logging.CategoryCapture, "miniaudio: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return audio.Format{}, &DeviceError{Source: s.label, Reason: ReasonUnavailable, Err: fmt.Errorf("init audio context: %w", err)}
	}
	s.mctx = mctx

	cfg := malgo.DefaultDeviceConfig(s.deviceType)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Alsa.NoMMap = 1
	// SampleRate/Channels zero means the device's native values; they are
	// read back from the opened device below.

	if s.nameHint != "" {
		id, err := s.findDevice(s.nameHint)
		if err != nil {
			s.teardownContext()
			return audio.Format{}, err
		}
		cfg.Capture.DeviceID = id.Pointer()
	} else if s.deviceType == malgo.Loopback {
		// Native loopback is not available everywhere; prefer a monitor
		// capture device when one exists.
		if id, err := s.findDevice("monitor"); err == nil {
			cfg.DeviceType = malgo.Capture
			cfg.Capture.DeviceID = id.Pointer()
		}
	}

	callbacks := malgo.DeviceCallbacks{
		Data: s.onData,
		Stop: s.onDeviceStop,
	}

	device, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		s.teardownContext()
		return audio.Format{}, &DeviceError{Source: s.label, Reason: classifyInitError(err), Err: err}
	}
	s.device = device
	s.format = audio.Format{
		SampleRate: int(device.SampleRate()),
		Channels:   int(device.CaptureChannels()),
	}

	logging.Info(logging.CategoryCapture, "opened %s source rate=%d channels=%d", s.label, s.format.SampleRate, s.format.Channels)
	return s.format, nil
}

// Start begins delivering blocks into out. Open must have succeeded first.
func (s *deviceSource) Start(out chan<- audio.Block) error {
	if s.device == nil {
		return &DeviceError{Source: s.label, Reason: ReasonUnavailable, Err: fmt.Errorf("source not opened")}
	}
	s.mu.Lock()
	s.out = out
	s.mu.Unlock()

	if err := s.device.Start(); err != nil {
		return &DeviceError{Source: s.label, Reason: classifyInitError(err), Err: err}
	}
	logging.Info(logging.CategoryCapture, "started %s capture", s.label)
	return nil
}

// Stop ends capture and releases the device. Safe to call more than once.
func (s *deviceSource) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopped = true
	s.mu.Unlock()

	// Cancel first so a data callback blocked on the output channel unwinds
	// before the device teardown waits on it.
	s.cancel()

	if s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
	}
	s.teardownContext()
	close(s.done)

	logging.Info(logging.CategoryCapture, "stopped %s capture", s.label)
	return nil
}

func (s *deviceSource) Done() <-chan error {
	return s.done
}

// onData runs on the audio thread: it converts the S16LE byte payload to
// samples and hands the block to the pipeline. The bounded output channel is
// the backpressure point; cancellation unblocks it during shutdown.
func (s *deviceSource) onData(_, input []byte, frameCount uint32) {
	if len(input) == 0 {
		return
	}
	s.mu.Lock()
	out := s.out
	s.mu.Unlock()
	if out == nil {
		return
	}

	samples := make([]int16, len(input)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(input[i*2:]))
	}

	select {
	case out <- audio.Block{Source: s.label, Samples: samples}:
	case <-s.ctx.Done():
	}
}

// onDeviceStop fires when the device stops; if we did not ask for it, the
// device disappeared mid-capture.
func (s *deviceSource) onDeviceStop() {
	s.mu.Lock()
	requested := s.stopped
	s.mu.Unlock()
	if requested {
		return
	}
	logging.Warning(logging.CategoryCapture, "%s device stopped unexpectedly", s.label)
	select {
	case s.done <- &DeviceError{Source: s.label, Reason: ReasonLost}:
	default:
	}
}

func (s *deviceSource) findDevice(nameHint string) (malgo.DeviceID, error) {
	infos, err := s.mctx.Devices(malgo.Capture)
	if err != nil {
		return malgo.DeviceID{}, &DeviceError{Source: s.label, Reason: ReasonUnavailable, Err: fmt.Errorf("enumerate capture devices: %w", err)}
	}
	hint := strings.ToLower(nameHint)
	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name()), hint) {
			return info.ID, nil
		}
	}
	return malgo.DeviceID{}, &DeviceError{Source: s.label, Reason: ReasonUnavailable, Err: fmt.Errorf("no capture device matching %q", nameHint)}
}

func (s *deviceSource) teardownContext() {
	if s.mctx != nil {
		_ = s.mctx.Uninit()
		s.mctx.Free()
		s.mctx = nil
	}
}

func classifyInitError(err error) ErrorReason {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "access denied") || strings.Contains(msg, "permission") {
		return ReasonPermissionDenied
	}
	return ReasonUnavailable
}

// DeviceInfo describes an available capture device.
type DeviceInfo struct {
	Name      string
	IsDefault bool
}

// ListInputDevices enumerates the capture devices visible to the backend.
func ListInputDevices() ([]DeviceInfo, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	devices := make([]DeviceInfo, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, DeviceInfo{
			Name:      info.Name(),
			IsDefault: info.IsDefault != 0,
		})
	}
	return devices, nil
}
