// SPDX-License-Identifier: MIT
/*
Package audio implements live capture for the spectrum analyzer:
- PortAudio input stream with pre-allocated buffers
- Branchless noise gate so silence skips the analysis pipeline
- Optional WAV recording of the captured input

The capture callback is the hot path: it gates, downmixes to mono float
samples and hands the frame to the analysis engine without allocating.
*/
package audio

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/TheAnsarya/ableton-snes-spc/internal/config"
	applog "github.com/TheAnsarya/ableton-snes-spc/internal/log"
	"github.com/TheAnsarya/ableton-snes-spc/internal/spectrum"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

// int32 samples normalize into [-1.0, 1.0) for the analyzer.
const sampleNorm = 1.0 / float64(1<<31)

// Engine owns the capture stream and feeds the analysis engine.
type Engine struct {
	cfg      *config.Config
	analyzer *spectrum.Analyzer

	inputBuffer  []int32   // frames × channels, copied from the callback
	monoBuffer   []float64 // downmixed frame handed to the analyzer
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	gateEnabled   bool
	gateThreshold int32

	isRecording atomic.Bool
	outputFile  *os.File
	wavEncoder  *wav.Encoder
	sampleBuf   *goaudio.IntBuffer
}

// NewEngine resolves the input device and pre-allocates every buffer the
// callback path needs.
func NewEngine(cfg *config.Config, analyzer *spectrum.Analyzer) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		analyzer:    analyzer,
		inputBuffer: make([]int32, cfg.Audio.FramesPerBuffer*cfg.Audio.InputChannels),
		monoBuffer:  make([]float64, cfg.Audio.FramesPerBuffer),
		inputDevice: inputDevice,
		gateEnabled: cfg.Audio.GateThreshold > 0,
	}
	e.SetGateThreshold(cfg.Audio.GateThreshold)

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}

	applog.Infof("Audio: capture engine ready (device %q, %.0f Hz, %d frames/buffer)",
		inputDevice.Name, cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer)
	return e, nil
}

// StartInputStream opens and starts the capture stream. From the first
// callback on, processInputStream runs on PortAudio's audio thread.
func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.cfg.Audio.InputChannels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		FramesPerBuffer: e.cfg.Audio.FramesPerBuffer,
		SampleRate:      e.cfg.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return err
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return err
	}
	return nil
}

// StopInputStream stops and closes the capture stream.
func (e *Engine) StopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	return nil
}

// processInputStream is the capture callback. Pre-allocated buffers only; no
// allocation in this path.
func (e *Engine) processInputStream(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	copy(e.inputBuffer, in)
	e.analyzeBuffer(e.inputBuffer)

	if e.isRecording.Load() && e.wavEncoder != nil {
		for i, sample := range e.inputBuffer {
			e.sampleBuf.Data[i] = int(sample)
		}
		e.sampleBuf.Data = e.sampleBuf.Data[:len(e.inputBuffer)]
		if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
			applog.Errorf("Audio: error writing WAV data: %v", err)
		}
	}
}

// analyzeBuffer gates the frame, downmixes it to mono float samples and
// pushes it through the analysis pipeline. A gated (quiet) frame skips the
// push entirely; the analyzer keeps showing its last decaying state.
func (e *Engine) analyzeBuffer(buffer []int32) {
	if e.gateEnabled && maxAmplitude(buffer) <= e.gateThreshold {
		return
	}

	channels := e.cfg.Audio.InputChannels
	for i := range e.monoBuffer {
		base := i * channels
		if base >= len(buffer) {
			e.monoBuffer[i] = 0
			continue
		}
		if channels == 2 && base+1 < len(buffer) {
			e.monoBuffer[i] = (float64(buffer[base]) + float64(buffer[base+1])) * 0.5 * sampleNorm
		} else {
			e.monoBuffer[i] = float64(buffer[base]) * sampleNorm
		}
	}

	e.analyzer.Push(e.monoBuffer)
}

// Close stops recording and the input stream.
func (e *Engine) Close() error {
	if e.isRecording.Load() {
		if err := e.StopRecording(); err != nil {
			return err
		}
	}
	return e.StopInputStream()
}
