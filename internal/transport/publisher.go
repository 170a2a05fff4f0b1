// SPDX-License-Identifier: MIT
package transport

import (
	"fmt"
	"sync"
	"time"

	applog "github.com/TheAnsarya/ableton-snes-spc/internal/log"
	"github.com/TheAnsarya/ableton-snes-spc/internal/spectrum"
)

// Publisher periodically snapshots the analysis engine and fans the frame
// out to its sinks. It runs in a single goroutine managed by Start and Stop;
// the engine itself has no internal scheduling, so this is the only place a
// cadence exists between the ingest path and remote consumers.
type Publisher struct {
	source   SpectrumSource
	sinks    []Transport
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	seq uint32

	// Pre-allocated snapshot buffers, sized for the maximum band count so a
	// band-count change never forces a reallocation mid-run.
	bands []float64
	peaks []float64
}

// NewPublisher creates a Publisher sending one frame per interval to each
// sink. An interval <= 0 defaults to 33ms (~30 fps).
func NewPublisher(interval time.Duration, source SpectrumSource, sinks ...Transport) (*Publisher, error) {
	if source == nil {
		return nil, fmt.Errorf("publisher: spectrum source cannot be nil")
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("publisher: at least one transport is required")
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("Publisher: invalid interval, defaulting to %s", interval)
	}

	return &Publisher{
		source:   source,
		sinks:    sinks,
		interval: interval,
		bands:    make([]float64, spectrum.MaxBands),
		peaks:    make([]float64, spectrum.MaxBands),
	}, nil
}

// Start launches the publisher goroutine. Safe to call multiple times;
// subsequent calls are no-ops while running.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("Publisher: Start called but already running")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("Publisher: started (interval %s, %d sink(s))", p.interval, len(p.sinks))
		for {
			select {
			case <-ticker.C:
				p.publishFrame()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine to terminate and waits for it.
// Safe to call multiple times.
func (p *Publisher) Stop() {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return
	}
	ticker := p.ticker
	doneChan := p.doneChan
	p.ticker = nil
	p.doneChan = nil
	p.mu.Unlock()

	p.stopOnce.Do(func() {
		ticker.Stop()
		close(doneChan)
	})
	p.wg.Wait()
	applog.Infof("Publisher: stopped")
}

// publishFrame snapshots the engine into the reusable buffers and sends one
// frame to every sink. Sink errors are logged and skipped; a slow or broken
// consumer must never stall the others.
func (p *Publisher) publishFrame() {
	n := p.source.Snapshot(p.bands, p.peaks)
	if n == 0 {
		return
	}
	p.seq++

	frame := &Frame{
		Type:      "spectrum",
		Seq:       p.seq,
		ShowPeaks: p.source.ShowPeaks(),
		Bands:     p.bands[:n],
		Peaks:     p.peaks[:n],
	}
	for _, sink := range p.sinks {
		if err := sink.Send(frame); err != nil {
			applog.Errorf("Publisher: send failed: %v", err)
		}
	}
}
