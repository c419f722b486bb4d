// Package wavio provides streaming WAV file access for the capture pipeline.
// Files are written incrementally: a provisional header goes out first and the
// definitive header (sizes, sample count) is rewritten on Close.
package wavio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/meetlog/meetlog-capture/internal/audio"
)

const pcmWavFormat = 1

// Writer appends interleaved 16-bit PCM blocks to a growing WAV file.
// A writer is exclusively owned by one pipeline; it is not safe for
// concurrent use. Close is idempotent, and closing with zero samples
// written still produces a valid, empty-duration file.
type Writer struct {
	path    string
	file    *os.File
	enc     *wav.Encoder
	format  audio.Format
	samples uint64
	closed  bool
}

// NewWriter creates the file at path and writes a provisional header.
func NewWriter(path string, format audio.Format) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, format.SampleRate, 16, format.Channels, pcmWavFormat)
	return &Writer{
		path:   path,
		file:   f,
		enc:    enc,
		format: format,
	}, nil
}

// WriteBlock appends one block of interleaved samples.
func (w *Writer) WriteBlock(samples []int16) error {
	if w.closed {
		return fmt.Errorf("writer for %s is closed", w.path)
	}
	if len(samples) == 0 {
		return nil
	}

	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: w.format.Channels,
			SampleRate:  w.format.SampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("write %d samples to %s: %w", len(samples), w.path, err)
	}
	w.samples += uint64(len(samples))
	return nil
}

// Samples returns the number of samples written so far.
func (w *Writer) Samples() uint64 {
	return w.samples
}

// Path returns the file path the writer appends to.
func (w *Writer) Path() string {
	return w.path
}

// Close finalizes the header and closes the file. Closing an already-closed
// writer is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	encErr := w.enc.Close()
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("finalize %s: %w", w.path, encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("close %s: %w", w.path, fileErr)
	}
	return nil
}
