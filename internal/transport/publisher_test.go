// SPDX-License-Identifier: MIT
package transport

import (
	"testing"
	"time"

	"github.com/TheAnsarya/ableton-snes-spc/pkg/utils"
)

// fakeSource is a fixed-content SpectrumSource.
type fakeSource struct {
	bands []float64
	peaks []float64
}

func (f *fakeSource) NumBands() int   { return len(f.bands) }
func (f *fakeSource) ShowPeaks() bool { return true }
func (f *fakeSource) Snapshot(bands, peaks []float64) int {
	n := copy(bands, f.bands)
	if m := copy(peaks, f.peaks); m < n {
		n = m
	}
	return n
}

func TestNewPublisherValidation(t *testing.T) {
	sink := &utils.MockTransport{}

	if _, err := NewPublisher(time.Millisecond, nil, sink); err == nil {
		t.Error("expected error for nil source")
	}
	if _, err := NewPublisher(time.Millisecond, &fakeSource{}); err == nil {
		t.Error("expected error for zero sinks")
	}
}

func TestPublishFrame(t *testing.T) {
	source := &fakeSource{
		bands: []float64{0.1, 0.2, 0.3},
		peaks: []float64{0.4, 0.5, 0.6},
	}
	sink := &utils.MockTransport{}

	p, err := NewPublisher(time.Second, source, sink)
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}

	p.publishFrame()
	p.publishFrame()

	if len(sink.Sent) != 2 {
		t.Fatalf("sent %d frames, expected 2", len(sink.Sent))
	}
	frame, ok := sink.Sent[1].(*Frame)
	if !ok {
		t.Fatalf("payload type = %T, expected *Frame", sink.Sent[1])
	}
	if frame.Seq != 2 {
		t.Errorf("seq = %d, expected 2", frame.Seq)
	}
	if frame.Type != "spectrum" || !frame.ShowPeaks {
		t.Errorf("frame metadata wrong: %+v", frame)
	}
	if len(frame.Bands) != 3 || frame.Bands[2] != 0.3 {
		t.Errorf("bands = %v", frame.Bands)
	}
	if len(frame.Peaks) != 3 || frame.Peaks[0] != 0.4 {
		t.Errorf("peaks = %v", frame.Peaks)
	}
}

func TestPublisherStartStop(t *testing.T) {
	source := &fakeSource{bands: []float64{1}, peaks: []float64{1}}
	sink := &utils.MockTransport{}

	p, err := NewPublisher(time.Millisecond, source, sink)
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}

	p.Start()
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	p.Stop() // Repeated stop must be a no-op.

	if len(sink.Sent) == 0 {
		t.Error("expected at least one published frame")
	}
}
