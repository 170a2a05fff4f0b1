// SPDX-License-Identifier: MIT
package playback

import "io"

// int16 samples normalize into [-1.0, 1.0) for the analyzer.
const sampleNorm = 1.0 / 32768.0

// SampleSink receives mono samples from the tap. *spectrum.Analyzer
// satisfies it.
type SampleSink interface {
	Push(samples []float64)
}

// Tap is an io.Reader that forwards 16-bit LE PCM unchanged while downmixing
// a mono float copy to the sink. A read can end mid-frame, so leftover bytes
// carry over to the next call.
type Tap struct {
	src      io.Reader
	sink     SampleSink
	channels int
	rem      []byte
	mono     []float64
}

// NewTap wraps src. channels below 1 is treated as mono.
func NewTap(src io.Reader, sink SampleSink, channels int) *Tap {
	if channels < 1 {
		channels = 1
	}
	return &Tap{
		src:      src,
		sink:     sink,
		channels: channels,
		rem:      make([]byte, 0, channels*2),
	}
}

func (t *Tap) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 && t.sink != nil {
		t.analyze(p[:n])
	}
	return n, err
}

// analyze converts complete PCM frames to mono float samples and pushes them.
// Bytes that do not complete a frame wait in rem for the next read.
func (t *Tap) analyze(data []byte) {
	frameBytes := t.channels * 2

	buf := data
	if len(t.rem) > 0 {
		buf = append(t.rem, data...)
	}

	frames := len(buf) / frameBytes
	if cap(t.mono) < frames {
		t.mono = make([]float64, frames)
	}
	t.mono = t.mono[:frames]

	for i := range frames {
		var sum float64
		for ch := range t.channels {
			off := i*frameBytes + ch*2
			s := int16(uint16(buf[off]) | uint16(buf[off+1])<<8)
			sum += float64(s)
		}
		t.mono[i] = sum / float64(t.channels) * sampleNorm
	}

	t.rem = append(t.rem[:0], buf[frames*frameBytes:]...)

	if frames > 0 {
		t.sink.Push(t.mono)
	}
}
