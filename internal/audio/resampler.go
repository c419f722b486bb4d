package audio

import (
	"fmt"
	"math"
)

// Resampler converts interleaved PCM from a source rate to a destination rate
// using linear interpolation over fractional sample positions, applied per
// channel. It is stateful across blocks: the fractional position left over at
// the end of one block carries into the next, so splitting an input into many
// small blocks produces the same output as processing it whole.
type Resampler struct {
	srcRate  int
	dstRate  int
	channels int

	// pos is the fractional frame position into the pending source window.
	pos float64
	// pending holds the source frames not yet fully consumed (the
	// interpolation window for the next output frame spans into them).
	pending []int16
}

// NewResampler creates a resampler from srcRate to dstRate for the given
// channel count. Channel count is preserved; matching the channel layouts of
// two streams is the mixer's job.
func NewResampler(srcRate, dstRate, channels int) (*Resampler, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("sample rates must be positive, got %d -> %d", srcRate, dstRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}
	return &Resampler{
		srcRate:  srcRate,
		dstRate:  dstRate,
		channels: channels,
	}, nil
}

// Identity reports whether the resampler passes samples through unchanged.
func (r *Resampler) Identity() bool {
	return r.srcRate == r.dstRate
}

// Process resamples one block of interleaved samples and returns the output
// samples produced so far. Output may be empty for very small inputs; the
// carried state guarantees nothing is lost across calls.
func (r *Resampler) Process(in []int16) []int16 {
	if len(in) == 0 {
		return nil
	}
	if r.Identity() {
		out := make([]int16, len(in))
		copy(out, in)
		return out
	}

	ch := r.channels
	frames := len(in) / ch

	src := r.pending
	src = append(src, in[:frames*ch]...)
	total := len(src) / ch
	if total == 0 {
		r.pending = src
		return nil
	}

	step := float64(r.srcRate) / float64(r.dstRate)
	out := make([]int16, 0, (int(float64(frames)/step)+1)*ch)

	pos := r.pos
	for int(pos)+1 < total {
		i := int(pos)
		frac := pos - float64(i)
		for c := 0; c < ch; c++ {
			a := float64(src[i*ch+c])
			b := float64(src[(i+1)*ch+c])
			out = append(out, int16(math.Round(a+(b-a)*frac)))
		}
		pos += step
	}

	// Keep the frames still inside the interpolation window.
	keepFrom := int(pos)
	if keepFrom > total-1 {
		keepFrom = total - 1
	}
	r.pending = append(r.pending[:0], src[keepFrom*ch:]...)
	r.pos = pos - float64(keepFrom)

	return out
}

// Reset clears carried state so the resampler can be reused for a new stream.
func (r *Resampler) Reset() {
	r.pos = 0
	r.pending = r.pending[:0]
}
