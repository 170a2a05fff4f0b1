// SPDX-License-Identifier: MIT
package spectrum

import "math"

// Display conversion constants shared with render layers. Magnitudes at or
// below MagnitudeFloor clamp to DBFloor instead of running log10 toward
// negative infinity; displayed values normalize against the
// [DBDisplayMin, DBDisplayMax] range.
const (
	MagnitudeFloor = 1e-4
	DBFloor        = -80.0
	DBDisplayMin   = -60.0
	DBDisplayMax   = 0.0
)

// DB converts a linear band magnitude to decibels, clamped to DBFloor for
// values at or below the magnitude floor.
func DB(v float64) float64 {
	if v > MagnitudeFloor {
		return 20 * math.Log10(v)
	}
	return DBFloor
}

// Normalize maps a linear band magnitude onto [0, 1] against the fixed
// display range. 0 is at or below DBDisplayMin, 1 is at DBDisplayMax.
func Normalize(v float64) float64 {
	n := (DB(v) - DBDisplayMin) / (DBDisplayMax - DBDisplayMin)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
