package recorder

import (
	"sync"

	"github.com/meetlog/meetlog-capture/internal/audio"
	"github.com/meetlog/meetlog-capture/internal/capture"
	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/wavio"
)

// blockQueueDepth bounds the per-source block queue. A slow writer applies
// backpressure to the source through this channel instead of buffering
// without limit.
const blockQueueDepth = 16

// pipeline moves blocks from one capture source through its resampler into
// its streaming writer. Frames are processed and written strictly in arrival
// order.
type pipeline struct {
	label     audio.SourceLabel
	source    capture.Source
	resampler *audio.Resampler
	writer    *wavio.Writer
	session   *Session

	blocks chan audio.Block
	wg     sync.WaitGroup

	mu      sync.Mutex
	failure error
}

func newPipeline(source capture.Source, format audio.Format, canonicalRate int, writer *wavio.Writer, session *Session) (*pipeline, error) {
	resampler, err := audio.NewResampler(format.SampleRate, canonicalRate, format.Channels)
	if err != nil {
		return nil, err
	}
	return &pipeline{
		label:     source.Label(),
		source:    source,
		resampler: resampler,
		writer:    writer,
		session:   session,
		blocks:    make(chan audio.Block, blockQueueDepth),
	}, nil
}

// start launches the processing loop and begins capture.
func (p *pipeline) start() error {
	p.wg.Add(2)
	go p.run()
	go p.watchSource()
	return p.source.Start(p.blocks)
}

func (p *pipeline) run() {
	defer p.wg.Done()
	for block := range p.blocks {
		p.handle(block)
	}
}

// watchSource surfaces device loss immediately; the rest of the session keeps
// running so the surviving source still gets finalized cleanly.
func (p *pipeline) watchSource() {
	defer p.wg.Done()
	if err, ok := <-p.source.Done(); ok && err != nil {
		logging.Error(logging.CategoryRecorder, "%s source failed mid-session: %v", p.label, err)
		p.setFailure(err)
	}
}

func (p *pipeline) handle(block audio.Block) {
	if p.err() != nil {
		// The file is already compromised; drop instead of spamming.
		return
	}
	samples := p.resampler.Process(block.Samples)
	if len(samples) == 0 {
		return
	}
	if err := p.writer.WriteBlock(samples); err != nil {
		logging.Error(logging.CategoryRecorder, "failed to write %s samples: %v", p.label, err)
		p.setFailure(&IOError{Path: p.writer.Path(), Op: "write", Err: err})
		return
	}
	p.session.addSamples(p.label, uint64(len(samples)))
}

// stop drains pending blocks, waits for the loop to finish and finalizes the
// file. The source must already be stopped so no further sends can happen.
func (p *pipeline) stop() error {
	close(p.blocks)
	p.wg.Wait()
	if err := p.writer.Close(); err != nil {
		return &IOError{Path: p.writer.Path(), Op: "finalize", Err: err}
	}
	return nil
}

func (p *pipeline) setFailure(err error) {
	p.mu.Lock()
	if p.failure == nil {
		p.failure = err
	}
	p.mu.Unlock()
}

func (p *pipeline) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failure
}
