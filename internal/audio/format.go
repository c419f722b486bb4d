// Package audio holds the PCM primitives shared by the capture pipeline:
// frame blocks, the canonical-rate resampler and the mixer.
//
// All PCM in this package is interleaved signed 16-bit little-endian.
package audio

// SourceLabel identifies which physical capture path produced a block.
type SourceLabel string

const (
	// SourceSystem is the loopback stream carrying other meeting participants.
	SourceSystem SourceLabel = "system"
	// SourceMic is the local input-device stream carrying the operator.
	SourceMic SourceLabel = "mic"
)

// Format describes a PCM stream.
type Format struct {
	SampleRate int
	Channels   int
}

// FrameCount returns the number of frames represented by n interleaved samples.
func (f Format) FrameCount(n int) int {
	if f.Channels <= 0 {
		return 0
	}
	return n / f.Channels
}

// Block is one chunk of interleaved PCM samples from a single source.
// Ownership transfers stage to stage; a block is never mutated after handoff.
type Block struct {
	Source  SourceLabel
	Samples []int16
}
