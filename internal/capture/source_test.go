package capture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meetlog/meetlog-capture/internal/audio"
)

func TestDeviceErrorFormatting(t *testing.T) {
	inner := errors.New("ALSA: no such device")
	err := &DeviceError{Source: audio.SourceMic, Reason: ReasonUnavailable, Err: inner}

	require.Contains(t, err.Error(), "mic source")
	require.Contains(t, err.Error(), "device unavailable")
	require.ErrorIs(t, err, inner)

	bare := &DeviceError{Source: audio.SourceSystem, Reason: ReasonLost}
	require.Equal(t, "system source: device lost", bare.Error())
}

func TestClassifyInitError(t *testing.T) {
	require.Equal(t, ReasonPermissionDenied, classifyInitError(errors.New("Access Denied by OS")))
	require.Equal(t, ReasonPermissionDenied, classifyInitError(errors.New("operation requires microphone permission")))
	require.Equal(t, ReasonUnavailable, classifyInitError(errors.New("device busy")))
}
