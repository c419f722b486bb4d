package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func rampSamples(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(i%2000 - 1000)
	}
	return out
}

func sineSamples(n, rate int, freq float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(10000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestNewResamplerRejectsBadArguments(t *testing.T) {
	_, err := NewResampler(0, 48000, 1)
	require.Error(t, err)
	_, err = NewResampler(48000, -1, 1)
	require.Error(t, err)
	_, err = NewResampler(44100, 48000, 0)
	require.Error(t, err)
}

func TestResamplerIdentityPassthrough(t *testing.T) {
	r, err := NewResampler(48000, 48000, 2)
	require.NoError(t, err)
	require.True(t, r.Identity())

	in := rampSamples(960)
	out := r.Process(in)
	require.Equal(t, in, out)

	// No carried state in the identity case: a second block is also passed
	// through whole.
	out = r.Process(in)
	require.Equal(t, in, out)
}

func TestResamplerDownsampleRatio(t *testing.T) {
	r, err := NewResampler(48000, 16000, 1)
	require.NoError(t, err)

	in := sineSamples(48000, 48000, 440)
	out := r.Process(in)
	require.Len(t, out, 16000)
}

func TestResamplerUpsampleRatio(t *testing.T) {
	r, err := NewResampler(16000, 48000, 1)
	require.NoError(t, err)

	in := sineSamples(16000, 16000, 440)
	out := r.Process(in)
	require.InDelta(t, 48000, len(out), 5)
}

func TestResamplerConstantSignalStaysConstant(t *testing.T) {
	r, err := NewResampler(44100, 48000, 1)
	require.NoError(t, err)

	in := make([]int16, 4410)
	for i := range in {
		in[i] = 1234
	}
	out := r.Process(in)
	require.NotEmpty(t, out)
	for _, s := range out {
		require.Equal(t, int16(1234), s)
	}
}

func TestResamplerBlockSplitInvariance(t *testing.T) {
	for _, rates := range []struct{ src, dst int }{
		{44100, 48000},
		{48000, 16000},
		{32000, 48000},
	} {
		in := sineSamples(9600, rates.src, 440)

		whole, err := NewResampler(rates.src, rates.dst, 1)
		require.NoError(t, err)
		expected := whole.Process(in)

		chunked, err := NewResampler(rates.src, rates.dst, 1)
		require.NoError(t, err)
		var got []int16
		for _, size := range []int{1, 7, 128, 480, 1000} {
			got = append(got, chunked.Process(in[:size])...)
			in = in[size:]
		}
		got = append(got, chunked.Process(in)...)

		require.Equal(t, expected, got, "resampling %d -> %d", rates.src, rates.dst)
	}
}

func TestResamplerStereoKeepsChannelsSeparate(t *testing.T) {
	r, err := NewResampler(48000, 24000, 2)
	require.NoError(t, err)

	// Left channel constant 100, right channel constant -200.
	in := make([]int16, 9600)
	for i := 0; i < len(in); i += 2 {
		in[i] = 100
		in[i+1] = -200
	}
	out := r.Process(in)
	require.NotEmpty(t, out)
	require.Zero(t, len(out)%2)
	for i := 0; i < len(out); i += 2 {
		require.Equal(t, int16(100), out[i])
		require.Equal(t, int16(-200), out[i+1])
	}
}

func TestResamplerReset(t *testing.T) {
	r, err := NewResampler(44100, 48000, 1)
	require.NoError(t, err)

	in := sineSamples(4410, 44100, 440)
	first := r.Process(in)

	r.Reset()
	second := r.Process(in)
	require.Equal(t, first, second)
}

func TestResamplerEmptyInput(t *testing.T) {
	r, err := NewResampler(44100, 48000, 1)
	require.NoError(t, err)
	require.Empty(t, r.Process(nil))
}
