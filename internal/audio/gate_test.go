// SPDX-License-Identifier: MIT
package audio

import "testing"

func TestMaxAmplitude(t *testing.T) {
	tests := []struct {
		name     string
		buffer   []int32
		expected int32
	}{
		{"empty", nil, 0},
		{"silence", []int32{0, 0, 0}, 0},
		{"positive", []int32{1, 500, 30}, 500},
		{"negative dominates", []int32{100, -2000, 50}, 2000},
		{"extremes", []int32{-2147483647, 12}, 2147483647},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxAmplitude(tt.buffer); got != tt.expected {
				t.Errorf("maxAmplitude = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestMaxAmplitudeZeroAllocs(t *testing.T) {
	buffer := make([]int32, 1024)
	for i := range buffer {
		if i%2 == 0 {
			buffer[i] = int32(i * 1000)
		} else {
			buffer[i] = int32(-i * 1000)
		}
	}

	allocs := testing.AllocsPerRun(100, func() {
		_ = maxAmplitude(buffer)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in gate hot path, got %.1f", allocs)
	}
}

func TestGateThresholdClamping(t *testing.T) {
	e := &Engine{}

	e.SetGateThreshold(-0.5)
	if got := e.GateThreshold(); got != 0 {
		t.Errorf("threshold = %v, expected 0", got)
	}

	e.SetGateThreshold(2.0)
	if got := e.GateThreshold(); got < 0.999 {
		t.Errorf("threshold = %v, expected ~1", got)
	}

	e.SetGateThreshold(0.5)
	if got := e.GateThreshold(); got < 0.499 || got > 0.501 {
		t.Errorf("threshold = %v, expected ~0.5", got)
	}
}
