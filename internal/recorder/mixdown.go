package recorder

import (
	"io"

	"github.com/meetlog/meetlog-capture/internal/audio"
	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/progress"
	"github.com/meetlog/meetlog-capture/internal/wavio"
)

// mixChunkFrames is the number of frames pulled from each source per
// iteration. Memory use stays bounded no matter how long the session ran.
const mixChunkFrames = 8192

const mixedChannels = 2

// mixdown combines the two finalized per-source files into a stereo mix at
// the canonical rate. A missing or unreadable source contributes silence so
// the surviving side is never lost.
type mixdown struct {
	systemPath string
	micPath    string
	outPath    string
	sampleRate int
	mixer      *audio.Mixer
	sink       progress.Sink
}

func newMixdown(systemPath, micPath, outPath string, sampleRate int, systemGain, micGain float64, sink progress.Sink) (*mixdown, error) {
	mixer, err := audio.NewMixer(mixedChannels, systemGain, micGain)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = progress.NoopSink{}
	}
	return &mixdown{
		systemPath: systemPath,
		micPath:    micPath,
		outPath:    outPath,
		sampleRate: sampleRate,
		mixer:      mixer,
		sink:       sink,
	}, nil
}

// mixSource wraps one reader so a dead source degrades to silence instead of
// aborting the whole pass.
type mixSource struct {
	reader   *wavio.Reader
	channels int
	done     bool
}

func openMixSource(path string) *mixSource {
	r, err := wavio.OpenReader(path)
	if err != nil {
		logging.Warning(logging.CategoryAudio, "mix input unavailable, substituting silence: %v", err)
		return &mixSource{done: true}
	}
	return &mixSource{reader: r, channels: r.Format().Channels}
}

// read returns up to frames worth of stereo samples, or nil once exhausted.
func (s *mixSource) read(frames int) ([]int16, error) {
	if s.done {
		return nil, nil
	}
	block, err := s.reader.ReadBlock(frames * s.channels)
	if err == io.EOF {
		s.done = true
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return audio.ConvertChannels(block, s.channels, mixedChannels)
}

func (s *mixSource) close() {
	if s.reader != nil {
		s.reader.Close()
	}
}

// run performs the full pass. Total frame count is taken up front from the
// longer file so progress is monotonic.
func (m *mixdown) run() error {
	system := openMixSource(m.systemPath)
	defer system.close()
	mic := openMixSource(m.micPath)
	defer mic.close()

	writer, err := wavio.NewWriter(m.outPath, audio.Format{
		SampleRate: m.sampleRate,
		Channels:   mixedChannels,
	})
	if err != nil {
		return err
	}

	totalFrames := m.totalFrames()
	var written uint64
	lastPercent := -1.0

	for {
		a, err := system.read(mixChunkFrames)
		if err != nil {
			writer.Close()
			return err
		}
		b, err := mic.read(mixChunkFrames)
		if err != nil {
			writer.Close()
			return err
		}
		if len(a) == 0 && len(b) == 0 {
			break
		}
		mixed := m.mixer.Mix(a, b)
		if err := writer.WriteBlock(mixed); err != nil {
			writer.Close()
			return &IOError{Path: m.outPath, Op: "write", Err: err}
		}
		written += uint64(len(mixed) / mixedChannels)

		percent := 100.0
		if totalFrames > 0 {
			percent = float64(written) / float64(totalFrames) * 100
			if percent > 100 {
				percent = 100
			}
		}
		if percent-lastPercent >= 1 {
			lastPercent = percent
			m.sink.OnMixingProgress(progress.MixingProgress{
				CurrentFrame: written,
				TotalFrames:  totalFrames,
				Percent:      percent,
			})
		}
	}

	if err := writer.Close(); err != nil {
		return &IOError{Path: m.outPath, Op: "finalize", Err: err}
	}
	m.sink.OnMixingProgress(progress.MixingProgress{
		CurrentFrame: written,
		TotalFrames:  totalFrames,
		Percent:      100,
	})
	return nil
}

// totalFrames estimates the output length as the longer of the two inputs.
func (m *mixdown) totalFrames() uint64 {
	var longest float64
	for _, path := range []string{m.systemPath, m.micPath} {
		if d, err := wavio.Duration(path); err == nil && d.Seconds() > longest {
			longest = d.Seconds()
		}
	}
	return uint64(longest * float64(m.sampleRate))
}
