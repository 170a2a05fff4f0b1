// SPDX-License-Identifier: MIT
/*
Package spectrum implements the real-time spectral analysis engine that
drives the spectrum display: a fixed-capacity sample ring, a table-driven
radix-2 FFT, perceptual band mapping, and a smoothed/peak-hold temporal
filter.

The engine is a synchronous pipeline guarded by a single mutex: Push ingests
samples and runs window -> FFT -> band mapping -> filtering to completion
before returning, so a render pass never observes partially updated band
state. Readers hold the same lock only long enough to copy the B-length band
and peak sequences.

All tables and scratch buffers are allocated at construction (or at
band-count-change time); the steady-state Push path performs no allocation.
*/
package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/TheAnsarya/ableton-snes-spc/pkg/bitint"
)

// Supported configuration ranges. Out-of-range values are silently clamped;
// the engine favors always producing a plausible frame over rejecting input.
const (
	MinBands = 8
	MaxBands = 128

	MaxSmoothing = 0.99
	MinDecayRate = 0.01
	MaxDecayRate = 1.0
)

// Smoothed values below this snap to exactly zero. The geometric filter
// alone never lands on zero, and a denormal residue would keep re-arming
// the peak hold against a settled zero peak.
const silenceEpsilon = 1e-12

// Defaults matching the plugin's spectrum display.
const (
	DefaultFFTSize   = 1024
	DefaultBands     = 32
	DefaultSmoothing = 0.7
	DefaultDecayRate = 0.05
)

// Analyzer ingests a continuous stream of audio samples and maintains a
// smoothed per-band magnitude spectrum with decaying peak indicators.
type Analyzer struct {
	mu sync.Mutex

	fftSize    int
	sampleRate float64

	// Sample ring. writeIdx always in [0, fftSize); the oldest retained
	// sample sits at writeIdx, the newest immediately before it.
	ring     []float64
	writeIdx int

	// Immutable tables, built once at construction.
	window  []float64
	twiddle [][]complex128
	bitrev  []int

	// Scratch buffers reused by every Push.
	scratch   []complex128
	magnitude []float64 // fftSize/2 one-sided linear magnitudes

	// Band state, resized and zeroed on band-count change.
	numBands  int
	bands     []float64
	peaks     []float64
	peakDecay []float64
	bandLo    []int
	bandHi    []int

	smoothing float64
	decayRate float64
	logScale  bool
	showPeaks bool

	dirty bool
}

// New creates an Analyzer for the given transform size and sample rate.
// fftSize must be a power of two; sampleRate must be positive. The analysis
// window, twiddle factors and bit-reversal table are precomputed here and
// never rebuilt, since the transform size is fixed for the analyzer's
// lifetime.
func New(fftSize int, sampleRate float64, windowType WindowFunc) (*Analyzer, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	win := make([]float64, fftSize)
	buildWindow(win, windowType)

	a := &Analyzer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		ring:       make([]float64, fftSize),
		window:     win,
		twiddle:    buildTwiddles(fftSize),
		bitrev:     buildBitReverse(fftSize),
		scratch:    make([]complex128, fftSize),
		magnitude:  make([]float64, fftSize/2),
		smoothing:  DefaultSmoothing,
		decayRate:  DefaultDecayRate,
		logScale:   true,
		showPeaks:  true,
	}
	a.resizeBands(DefaultBands)
	return a, nil
}

// Push appends samples to the ring and synchronously runs the full analysis
// pipeline. By the time Push returns, the band state reflects the newly
// ingested audio. A zero-length push acquires and releases the lock but
// recomputes nothing. If len(samples) exceeds the ring capacity only the
// most recent fftSize samples are retained.
func (a *Analyzer) Push(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(samples) == 0 {
		return
	}

	mask := a.fftSize - 1
	for _, s := range samples {
		a.ring[a.writeIdx] = s
		a.writeIdx = (a.writeIdx + 1) & mask
	}

	a.computeFFT()
	a.updateBands()
	a.dirty = true
}

// computeFFT windows a snapshot of the ring, oldest sample first, transforms
// it and extracts one-sided linear magnitudes. The 2/N scale corrects for the
// one-sided spectrum convention; only the first N/2 bins are meaningful for
// real input.
func (a *Analyzer) computeFFT() {
	mask := a.fftSize - 1
	for i := range a.fftSize {
		idx := (a.writeIdx + i) & mask
		a.scratch[i] = complex(a.ring[idx]*a.window[i], 0)
	}

	a.forwardFFT(a.scratch)

	scale := 2.0 / float64(a.fftSize)
	for i := range a.magnitude {
		a.magnitude[i] = cmplx.Abs(a.scratch[i]) * scale
	}
}

// updateBands folds the magnitude bins into the band state: arithmetic mean
// over each precomputed bin range, exponential smoothing, then peak tracking.
// Peaks rise instantly; otherwise the per-band decay accumulator grows every
// frame, so an unrefreshed peak fades faster the longer it goes without a
// re-trigger. That accelerating fade is the intended law, not a constant
// rate.
func (a *Analyzer) updateBands() {
	for k := range a.numBands {
		lo, hi := a.bandLo[k], a.bandHi[k]
		sum := 0.0
		for i := lo; i < hi; i++ {
			sum += a.magnitude[i]
		}
		v := sum / float64(hi-lo)

		a.bands[k] = a.smoothing*a.bands[k] + (1-a.smoothing)*v
		if a.bands[k] < silenceEpsilon {
			a.bands[k] = 0
		}

		if a.bands[k] > a.peaks[k] {
			a.peaks[k] = a.bands[k]
			a.peakDecay[k] = 0
		} else {
			a.peakDecay[k] += a.decayRate
			a.peaks[k] = math.Max(0, a.peaks[k]-a.peakDecay[k])
		}
	}
}

// resizeBands replaces the band state with n zeroed slots and recomputes the
// bin ranges. Caller must hold the lock (or be the constructor).
func (a *Analyzer) resizeBands(n int) {
	a.numBands = n
	a.bands = make([]float64, n)
	a.peaks = make([]float64, n)
	a.peakDecay = make([]float64, n)
	a.bandLo = make([]int, n)
	a.bandHi = make([]int, n)
	a.recalcBandRanges()
}

// recalcBandRanges maps the numBands output slots onto bin ranges over
// [1, fftSize/2). Bin 0 (the DC term) is always excluded, and an empty range
// is widened to width 1 so the mean never divides by zero. Logarithmic
// distribution compresses the numerous high-frequency bins and expands the
// low end; linear splits the bins evenly.
func (a *Analyzer) recalcBandRanges() {
	half := a.fftSize / 2
	maxLog := math.Log10(float64(half))

	for k := range a.numBands {
		var lo, hi int
		if a.logScale {
			logLo := maxLog * float64(k) / float64(a.numBands)
			logHi := maxLog * float64(k+1) / float64(a.numBands)
			lo = int(math.Pow(10, logLo))
			hi = int(math.Pow(10, logHi))
		} else {
			lo = half * k / a.numBands
			hi = half * (k + 1) / a.numBands
		}

		if lo < 1 {
			lo = 1
		}
		if hi > half {
			hi = half
		}
		if lo >= hi {
			hi = lo + 1
		}
		a.bandLo[k] = lo
		a.bandHi[k] = hi
	}
}

// SetNumBands changes the number of output bands, clamped to
// [MinBands, MaxBands]. A new value resets all band state to zeros under the
// lock, so a concurrent reader never observes a torn-length sequence.
// Setting the current value is a no-op and preserves state.
func (a *Analyzer) SetNumBands(n int) {
	if n < MinBands {
		n = MinBands
	}
	if n > MaxBands {
		n = MaxBands
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if n == a.numBands {
		return
	}
	a.resizeBands(n)
}

// SetSmoothing sets the exponential smoothing factor, clamped to
// [0, MaxSmoothing]. Higher values respond slower.
func (a *Analyzer) SetSmoothing(s float64) {
	if s < 0 {
		s = 0
	}
	if s > MaxSmoothing {
		s = MaxSmoothing
	}
	a.mu.Lock()
	a.smoothing = s
	a.mu.Unlock()
}

// SetDecayRate sets the per-frame peak decay increment, clamped to
// [MinDecayRate, MaxDecayRate].
func (a *Analyzer) SetDecayRate(rate float64) {
	if rate < MinDecayRate {
		rate = MinDecayRate
	}
	if rate > MaxDecayRate {
		rate = MaxDecayRate
	}
	a.mu.Lock()
	a.decayRate = rate
	a.mu.Unlock()
}

// SetLogScale switches between logarithmic (default) and linear band
// distribution. Changing the mode recomputes the bin ranges but keeps the
// band state.
func (a *Analyzer) SetLogScale(log bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if log == a.logScale {
		return
	}
	a.logScale = log
	a.recalcBandRanges()
}

// SetShowPeaks toggles the peak indicator flag carried to display layers.
func (a *Analyzer) SetShowPeaks(show bool) {
	a.mu.Lock()
	a.showPeaks = show
	a.mu.Unlock()
}

// NumBands returns the current band count.
func (a *Analyzer) NumBands() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.numBands
}

// Smoothing returns the current smoothing factor.
func (a *Analyzer) Smoothing() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.smoothing
}

// DecayRate returns the current peak decay rate.
func (a *Analyzer) DecayRate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.decayRate
}

// LogScale reports whether logarithmic band distribution is active.
func (a *Analyzer) LogScale() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.logScale
}

// ShowPeaks reports whether peak indicators are enabled.
func (a *Analyzer) ShowPeaks() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.showPeaks
}

// FFTSize returns the transform size. Immutable after creation.
func (a *Analyzer) FFTSize() int {
	return a.fftSize
}

// SampleRate returns the sample rate the analyzer was built for. Immutable
// after creation.
func (a *Analyzer) SampleRate() float64 {
	return a.sampleRate
}

// FreqForBin returns the center frequency (Hz) for a magnitude bin index,
// or 0 if the index is out of range.
func (a *Analyzer) FreqForBin(binIndex int) float64 {
	if binIndex < 0 || binIndex >= a.fftSize/2 {
		return 0
	}
	return float64(binIndex) * (a.sampleRate / float64(a.fftSize))
}

// Snapshot copies the current smoothed and peak sequences into the provided
// slices without allocating and returns the number of bands copied. Intended
// for render-path readers that reuse their buffers across frames.
func (a *Analyzer) Snapshot(bands, peaks []float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := copy(bands, a.bands)
	if m := copy(peaks, a.peaks); m < n {
		n = m
	}
	return n
}

// Bands returns a copy of the current smoothed band values.
// NOTE: allocates on each call; render loops should prefer Snapshot.
func (a *Analyzer) Bands() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]float64, a.numBands)
	copy(out, a.bands)
	return out
}

// Peaks returns a copy of the current peak-hold values.
func (a *Analyzer) Peaks() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]float64, a.numBands)
	copy(out, a.peaks)
	return out
}

// ConsumeDirty reports whether new audio has been ingested since the last
// call and clears the flag. Display layers use it to skip redundant frames.
func (a *Analyzer) ConsumeDirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.dirty
	a.dirty = false
	return d
}
