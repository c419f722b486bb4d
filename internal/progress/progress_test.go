package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelSinkDelivers(t *testing.T) {
	sink := NewChannelSink(4)
	sink.OnMixingProgress(MixingProgress{CurrentFrame: 10, TotalFrames: 100, Percent: 10})
	sink.OnTranscriptionProgress(TranscriptionProgress{Phase: "mic", FilePercent: 40, OverallPercent: 70})

	ev := <-sink.Events()
	require.NotNil(t, ev.Mixing)
	require.Equal(t, 10.0, ev.Mixing.Percent)

	ev = <-sink.Events()
	require.NotNil(t, ev.Transcription)
	require.Equal(t, "mic", ev.Transcription.Phase)
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(2)
	for i := 0; i < 10; i++ {
		sink.OnMixingProgress(MixingProgress{Percent: float64(i)})
	}

	// Only the first two fit; the rest were dropped without blocking.
	require.Len(t, sink.Events(), 2)
	first := <-sink.Events()
	require.Equal(t, 0.0, first.Mixing.Percent)
}
