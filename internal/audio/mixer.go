package audio

import (
	"fmt"
	"math"
)

// Mixer sums two canonical-rate streams into one interleaved output stream.
// Each input is weighted by its gain to leave headroom, then the sum is
// clamped to the int16 range. When one stream is shorter than the other the
// gap is treated as silence, so the output always spans the longer stream.
type Mixer struct {
	channels int
	gainA    float64
	gainB    float64
}

// NewMixer creates a mixer producing interleaved output with the given
// channel count. gainA and gainB weight the first and second input.
func NewMixer(channels int, gainA, gainB float64) (*Mixer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}
	if gainA < 0 || gainB < 0 {
		return nil, fmt.Errorf("gains must be non-negative, got %v and %v", gainA, gainB)
	}
	return &Mixer{channels: channels, gainA: gainA, gainB: gainB}, nil
}

// Mix combines two blocks of interleaved samples already matching the mixer's
// channel count. The output length is the longer of the two inputs.
func (m *Mixer) Mix(a, b []int16) []int16 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		var va, vb float64
		if i < len(a) {
			va = float64(a[i])
		}
		if i < len(b) {
			vb = float64(b[i])
		}
		out[i] = clampSample(m.gainA*va + m.gainB*vb)
	}
	return out
}

// ConvertChannels adapts interleaved samples between mono and stereo layouts:
// mono is upmixed by duplication, stereo is downmixed by averaging. Other
// conversions are not supported.
func ConvertChannels(in []int16, from, to int) ([]int16, error) {
	switch {
	case from == to:
		out := make([]int16, len(in))
		copy(out, in)
		return out, nil
	case from == 1 && to == 2:
		out := make([]int16, len(in)*2)
		for i, s := range in {
			out[i*2] = s
			out[i*2+1] = s
		}
		return out, nil
	case from == 2 && to == 1:
		frames := len(in) / 2
		out := make([]int16, frames)
		for i := 0; i < frames; i++ {
			sum := int(in[i*2]) + int(in[i*2+1])
			out[i] = int16(sum / 2)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("do not know how to convert %d channels to %d", from, to)
	}
}

func clampSample(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
