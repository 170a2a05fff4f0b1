// SPDX-License-Identifier: MIT
// Package transport publishes analysis frames to remote display consumers.
package transport

// Transport is a sink for published spectrum frames. Implementations must be
// safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

// SpectrumSource is the read side of the analysis engine consumed by
// publishers: current band count, the peak-display flag, and a copy-out
// snapshot of the band/peak sequences.
type SpectrumSource interface {
	NumBands() int
	ShowPeaks() bool
	Snapshot(bands, peaks []float64) int
}

// Frame is one published spectrum frame. Band and peak values are linear
// magnitudes; display layers convert to decibels on their side.
type Frame struct {
	Type      string    `json:"type"`
	Seq       uint32    `json:"seq"`
	ShowPeaks bool      `json:"show_peaks"`
	Bands     []float64 `json:"bands"`
	Peaks     []float64 `json:"peaks"`
}
