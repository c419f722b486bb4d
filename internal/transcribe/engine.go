package transcribe

import "context"

// Engine converts one audio file into timestamped segments. Implementations
// run the actual speech-to-text inference, which is external to this core.
//
// An empty result with a nil error is valid: silence or an empty file yields
// no segments. onProgress, when non-nil, receives the per-file completion
// percentage (0-100) and must not block.
type Engine interface {
	Transcribe(ctx context.Context, wavPath string, speaker Speaker, onProgress func(percent int)) ([]Segment, error)
}
