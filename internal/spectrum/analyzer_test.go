// SPDX-License-Identifier: MIT
package spectrum

import (
	"math"
	"math/rand"
	"testing"

	"github.com/TheAnsarya/ableton-snes-spc/pkg/utils"
)

const (
	testFFTSize    = 1024
	testSampleRate = 44100
)

func TestDominantBandForPureTone(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	tone := utils.GenerateSineWave(testFFTSize, testSampleRate, 1000)

	// A 1kHz tone at 44.1kHz lands in bin round(1000*1024/44100) = 23.
	const toneBin = 23
	expected := -1
	for k := range a.numBands {
		if a.bandLo[k] <= toneBin && toneBin < a.bandHi[k] {
			expected = k
			break
		}
	}
	if expected < 0 {
		t.Fatalf("no band covers bin %d", toneBin)
	}

	// The dominant band must be deterministic across repeated pushes.
	for range 3 {
		for range 10 {
			a.Push(tone)
		}
		if got := utils.FindPeak(a.Bands()); got != expected {
			t.Fatalf("dominant band = %d, expected %d (bands %v)", got, expected, a.Bands())
		}
	}
}

func TestZeroLengthPushIsNoOp(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	a.Push(utils.GenerateSineWave(testFFTSize, testSampleRate, 1000))

	if !a.ConsumeDirty() {
		t.Fatal("expected dirty after a real push")
	}

	before := a.Bands()
	a.Push(nil)
	a.Push([]float64{})

	if a.ConsumeDirty() {
		t.Error("zero-length push must not mark the frame dirty")
	}
	after := a.Bands()
	for k := range before {
		if before[k] != after[k] {
			t.Fatalf("band %d changed on zero-length push: %v -> %v", k, before[k], after[k])
		}
	}
}

func TestSetNumBandsIdempotent(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	a.Push(utils.GenerateSineWave(testFFTSize, testSampleRate, 1000))

	before := a.Bands()
	a.SetNumBands(a.NumBands()) // current value: must not reset state
	after := a.Bands()
	for k := range before {
		if before[k] != after[k] {
			t.Fatalf("band %d reset by idempotent SetNumBands", k)
		}
	}

	a.SetNumBands(64) // new value: resets to 64 zeros
	bands, peaks := a.Bands(), a.Peaks()
	if len(bands) != 64 || len(peaks) != 64 {
		t.Fatalf("lengths = %d/%d, expected 64", len(bands), len(peaks))
	}
	for k := range bands {
		if bands[k] != 0 || peaks[k] != 0 {
			t.Fatalf("band %d not zeroed after resize", k)
		}
	}
}

func TestBandCountRoundTrip(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	tone := utils.GenerateComplexWave(testFFTSize, testSampleRate)

	// Starts away from the default count: setting the current value is a
	// state-preserving no-op, so the first resize must be a real change.
	for _, n := range []int{16, 64, 32} {
		a.Push(tone)
		a.SetNumBands(n)
		bands, peaks := a.Bands(), a.Peaks()
		if len(bands) != n || len(peaks) != n {
			t.Fatalf("lengths = %d/%d, expected %d", len(bands), len(peaks), n)
		}
		for k := range bands {
			if bands[k] != 0 || peaks[k] != 0 {
				t.Fatalf("state not reset at band %d after resize to %d", k, n)
			}
		}
	}
}

func TestSilenceDrivesBandsToZero(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	tone := utils.GenerateSineWave(testFFTSize, testSampleRate, 1000)
	silence := make([]float64, testFFTSize)

	for range 10 {
		a.Push(tone)
	}
	for range 200 {
		a.Push(silence)
	}

	for k, v := range a.Bands() {
		if v != 0 {
			t.Errorf("band %d = %g after sustained silence, expected 0", k, v)
		}
	}
	// The accelerating decay must have dragged every peak all the way down.
	for k, p := range a.Peaks() {
		if p != 0 {
			t.Errorf("peak %d = %g after sustained silence, expected 0", k, p)
		}
	}

	// Settled peaks must stay settled: a smoothed residue above a zero peak
	// would re-arm the instant-rise branch on alternate frames.
	for frame := range 8 {
		a.Push(silence)
		for k, p := range a.Peaks() {
			if p != 0 {
				t.Fatalf("peak %d = %g re-armed on silent frame %d", k, p, frame)
			}
		}
	}
}

func TestBoundedness(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	rng := rand.New(rand.NewSource(42))

	frame := make([]float64, testFFTSize)
	for range 50 {
		for i := range frame {
			frame[i] = rng.Float64()*2 - 1
		}
		a.Push(frame)

		bands, peaks := a.Bands(), a.Peaks()
		for k := range bands {
			if math.IsNaN(bands[k]) || math.IsInf(bands[k], 0) || bands[k] < 0 {
				t.Fatalf("band %d = %v", k, bands[k])
			}
			if math.IsNaN(peaks[k]) || math.IsInf(peaks[k], 0) || peaks[k] < 0 {
				t.Fatalf("peak %d = %v", k, peaks[k])
			}
			if db := DB(bands[k]); db < DBFloor {
				t.Fatalf("DB(band %d) = %v below floor", k, db)
			}
			if n := Normalize(bands[k]); n < 0 || n > 1 {
				t.Fatalf("Normalize(band %d) = %v outside [0,1]", k, n)
			}
		}
	}
}

func TestPeakNeverBelowSteadyBand(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	tone := utils.GenerateComplexWave(testFFTSize, testSampleRate)

	// Under a steady signal the smoothed value only rises toward its
	// asymptote, so the instant-rise rule keeps every peak at or above it.
	for range 30 {
		a.Push(tone)
		bands, peaks := a.Bands(), a.Peaks()
		for k := range bands {
			if peaks[k] < bands[k]-1e-12 {
				t.Fatalf("peak %d = %g below smoothed %g", k, peaks[k], bands[k])
			}
		}
	}
}

func TestConfigClamping(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)

	a.SetSmoothing(1.5)
	if got := a.Smoothing(); got != MaxSmoothing {
		t.Errorf("Smoothing = %v, expected %v", got, MaxSmoothing)
	}
	a.SetSmoothing(-0.2)
	if got := a.Smoothing(); got != 0 {
		t.Errorf("Smoothing = %v, expected 0", got)
	}

	a.SetDecayRate(5)
	if got := a.DecayRate(); got != MaxDecayRate {
		t.Errorf("DecayRate = %v, expected %v", got, MaxDecayRate)
	}
	a.SetDecayRate(0)
	if got := a.DecayRate(); got != MinDecayRate {
		t.Errorf("DecayRate = %v, expected %v", got, MinDecayRate)
	}

	a.SetNumBands(4)
	if got := a.NumBands(); got != MinBands {
		t.Errorf("NumBands = %d, expected %d", got, MinBands)
	}
	a.SetNumBands(1000)
	if got := a.NumBands(); got != MaxBands {
		t.Errorf("NumBands = %d, expected %d", got, MaxBands)
	}
}

func TestBandRangesExcludeDCAndStayInBounds(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	half := testFFTSize / 2

	for _, logScale := range []bool{true, false} {
		a.SetLogScale(logScale)
		for k := range a.numBands {
			lo, hi := a.bandLo[k], a.bandHi[k]
			if lo < 1 {
				t.Errorf("logScale=%v band %d: lo = %d includes DC", logScale, k, lo)
			}
			if hi > half {
				t.Errorf("logScale=%v band %d: hi = %d exceeds %d", logScale, k, hi, half)
			}
			if lo >= hi {
				t.Errorf("logScale=%v band %d: empty range [%d,%d)", logScale, k, lo, hi)
			}
		}
	}
}

func TestLinearBandMapping(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	a.SetLogScale(false)
	half := testFFTSize / 2

	for k := range a.numBands {
		lo := half * k / a.numBands
		hi := half * (k + 1) / a.numBands
		if lo < 1 {
			lo = 1
		}
		if got := a.bandLo[k]; got != lo {
			t.Errorf("band %d: lo = %d, expected %d", k, got, lo)
		}
		if got := a.bandHi[k]; got != hi {
			t.Errorf("band %d: hi = %d, expected %d", k, got, hi)
		}
	}
}

func TestPushHotPathZeroAllocs(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	frame := utils.GenerateComplexWave(testFFTSize, testSampleRate)

	// Warm-up call, then verify the steady-state path never allocates.
	a.Push(frame)
	allocs := testing.AllocsPerRun(100, func() {
		a.Push(frame)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in Push hot path, got %.1f", allocs)
	}
}

func TestSnapshotZeroAllocs(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)
	a.Push(utils.GenerateComplexWave(testFFTSize, testSampleRate))

	bands := make([]float64, MaxBands)
	peaks := make([]float64, MaxBands)
	allocs := testing.AllocsPerRun(100, func() {
		if n := a.Snapshot(bands, peaks); n != a.NumBands() {
			t.Fatalf("Snapshot copied %d bands", n)
		}
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in Snapshot, got %.1f", allocs)
	}
}

func TestDBConversion(t *testing.T) {
	tests := []struct {
		v        float64
		expected float64
	}{
		{1, 0},
		{0.001, -60},
		{0, DBFloor},
		{MagnitudeFloor, DBFloor}, // at the floor threshold, not above it
	}
	for _, tt := range tests {
		if got := DB(tt.v); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("DB(%v) = %v, expected %v", tt.v, got, tt.expected)
		}
	}

	if got := Normalize(1); got != 1 {
		t.Errorf("Normalize(1) = %v, expected 1", got)
	}
	if got := Normalize(10); got != 1 {
		t.Errorf("Normalize(10) = %v, expected clamp to 1", got)
	}
	if got := Normalize(0.001); got != 0 {
		t.Errorf("Normalize(0.001) = %v, expected 0", got)
	}
	if got := Normalize(0); got != 0 {
		t.Errorf("Normalize(0) = %v, expected 0", got)
	}
}

func TestFreqForBin(t *testing.T) {
	a := newTestAnalyzer(t, testFFTSize)

	if got := a.FreqForBin(0); got != 0 {
		t.Errorf("FreqForBin(0) = %v, expected 0", got)
	}
	want := 23 * testSampleRate / float64(testFFTSize)
	if got := a.FreqForBin(23); math.Abs(got-want) > 1e-9 {
		t.Errorf("FreqForBin(23) = %v, expected %v", got, want)
	}
	if got := a.FreqForBin(testFFTSize); got != 0 {
		t.Errorf("FreqForBin out of range = %v, expected 0", got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(1000, testSampleRate, Hann); err == nil {
		t.Error("expected error for non-power-of-2 size")
	}
	if _, err := New(testFFTSize, 0, Hann); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestOversizedPushKeepsMostRecent(t *testing.T) {
	a := newTestAnalyzer(t, 64)

	// Push 3x the ring capacity: a stale tone followed by silence. Only the
	// trailing 64 samples (all zero) may remain in the ring.
	input := make([]float64, 192)
	for i := range 128 {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 16)
	}
	a.Push(input)

	for i, s := range a.ring {
		if s != 0 {
			t.Fatalf("ring[%d] = %v, stale prefix not discarded", i, s)
		}
	}
}
