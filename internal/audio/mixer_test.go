package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMixerRejectsBadArguments(t *testing.T) {
	_, err := NewMixer(0, 0.7, 0.3)
	require.Error(t, err)
	_, err = NewMixer(2, -0.1, 0.3)
	require.Error(t, err)
}

func TestMixAppliesGains(t *testing.T) {
	m, err := NewMixer(1, 0.7, 0.3)
	require.NoError(t, err)

	out := m.Mix([]int16{10000}, []int16{10000})
	require.Equal(t, []int16{10000}, out)

	out = m.Mix([]int16{10000}, []int16{0})
	require.Equal(t, []int16{7000}, out)

	out = m.Mix([]int16{0}, []int16{10000})
	require.Equal(t, []int16{3000}, out)
}

func TestMixClampsToSampleRange(t *testing.T) {
	m, err := NewMixer(1, 1.0, 1.0)
	require.NoError(t, err)

	out := m.Mix([]int16{math.MaxInt16}, []int16{math.MaxInt16})
	require.Equal(t, []int16{math.MaxInt16}, out)

	out = m.Mix([]int16{math.MinInt16}, []int16{math.MinInt16})
	require.Equal(t, []int16{math.MinInt16}, out)
}

func TestMixPadsShorterInputWithSilence(t *testing.T) {
	m, err := NewMixer(1, 0.5, 0.5)
	require.NoError(t, err)

	out := m.Mix([]int16{1000, 1000, 1000, 1000}, []int16{1000})
	require.Equal(t, []int16{1000, 500, 500, 500}, out)

	out = m.Mix(nil, []int16{2000, 2000})
	require.Equal(t, []int16{1000, 1000}, out)
}

func TestConvertChannels(t *testing.T) {
	out, err := ConvertChannels([]int16{1, 2, 3}, 1, 2)
	require.NoError(t, err)
	require.Equal(t, []int16{1, 1, 2, 2, 3, 3}, out)

	out, err = ConvertChannels([]int16{100, 200, -100, -200}, 2, 1)
	require.NoError(t, err)
	require.Equal(t, []int16{150, -150}, out)

	in := []int16{5, 6, 7}
	out, err = ConvertChannels(in, 2, 2)
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.NotSame(t, &in[0], &out[0])

	_, err = ConvertChannels(in, 3, 2)
	require.Error(t, err)
}
