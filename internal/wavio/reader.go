package wavio

import (
	"fmt"
	"io"
	"os"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/meetlog/meetlog-capture/internal/audio"
)

// Reader streams interleaved PCM samples out of a WAV file in bounded chunks.
type Reader struct {
	path   string
	file   *os.File
	dec    *wav.Decoder
	format audio.Format
}

// OpenReader opens a PCM WAV file for chunked reading.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}
	return &Reader{
		path: path,
		file: f,
		dec:  dec,
		format: audio.Format{
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
		},
	}, nil
}

// Format returns the stream format of the file.
func (r *Reader) Format() audio.Format {
	return r.format
}

// ReadBlock reads up to max interleaved samples. It returns io.EOF once the
// stream is exhausted.
func (r *Reader) ReadBlock(max int) ([]int16, error) {
	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: r.format.Channels,
			SampleRate:  r.format.SampleRate,
		},
		Data: make([]int, max),
	}
	n, err := r.dec.PCMBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(buf.Data[i])
	}
	return out, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll reads a whole PCM WAV file into memory.
func ReadAll(path string) ([]int16, audio.Format, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, audio.Format{}, err
	}
	defer r.Close()

	var samples []int16
	for {
		block, err := r.ReadBlock(16384)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, audio.Format{}, err
		}
		samples = append(samples, block...)
	}
	return samples, r.Format(), nil
}

// Duration returns the playable duration of a WAV file.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a valid WAV file", path)
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("duration of %s: %w", path, err)
	}
	return d, nil
}
