// SPDX-License-Identifier: MIT
package audio

import "math"

// maxAmplitude returns the largest absolute sample value using branchless
// abs and max, keeping the capture callback free of data-dependent jumps.
func maxAmplitude(buffer []int32) int32 {
	var maxAmp int32
	for i := range buffer {
		sample := buffer[i]
		mask := sample >> 31
		amplitude := (sample ^ mask) - mask
		diff := amplitude - maxAmp
		maxAmp += (diff & (diff >> 31)) ^ diff
	}
	return maxAmp
}

// EnableGate turns the noise gate on.
func (e *Engine) EnableGate() {
	e.gateEnabled = true
}

// DisableGate turns the noise gate off; every frame reaches the analyzer.
func (e *Engine) DisableGate() {
	e.gateEnabled = false
}

// SetGateThreshold adjusts the gate threshold from a normalized value in
// [0.0, 1.0], where 0 lets everything through and 1 gates everything.
func (e *Engine) SetGateThreshold(threshold float64) {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	e.gateThreshold = int32(threshold * float64(math.MaxInt32))
}

// GateThreshold returns the current gate threshold as a normalized value.
func (e *Engine) GateThreshold() float64 {
	return float64(e.gateThreshold) / float64(math.MaxInt32)
}
