// Package utils holds shared test helpers: deterministic signal generators
// and a transport stub for inspecting published frames.
package utils

import "math"

// MockTransport records everything sent through it instead of transmitting.
type MockTransport struct {
	Sent []any
}

// Send stores the payload for later inspection.
func (m *MockTransport) Send(data any) error {
	m.Sent = append(m.Sent, data)
	return nil
}

// Close is a no-op.
func (m *MockTransport) Close() error { return nil }

// GenerateSineWave returns size samples of a pure sinusoid at the given
// frequency, amplitude 0.9, in the [-1, 1] range the analysis engine expects.
func GenerateSineWave(size int, sampleRate, frequency float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = 0.9 * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// GenerateComplexWave returns a 440Hz fundamental plus two harmonics, useful
// for exercising several bands at once.
func GenerateComplexWave(size int, sampleRate float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
	}
	return buffer
}

// FindPeak returns the index of the largest value, or 0 for an empty slice.
func FindPeak(values []float64) int {
	peak := 0
	for i, v := range values {
		if v > values[peak] {
			peak = i
		}
	}
	return peak
}
