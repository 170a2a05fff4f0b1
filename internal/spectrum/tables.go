// SPDX-License-Identifier: MIT
package spectrum

import (
	"fmt"
	"math"
	"strings"

	"github.com/TheAnsarya/ableton-snes-spc/pkg/bitint"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the analysis window applied to a frame before the
// transform.
type WindowFunc int

// Enum for available window functions.
const (
	Hann WindowFunc = iota
	Hamming
	Blackman
	BlackmanNuttall
	Nuttall
	Lanczos
)

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc.
// Returns Hann and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "hann", "hanning", "":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "nuttall":
		return Nuttall, nil
	case "lanczos":
		return Lanczos, nil
	default:
		return Hann, fmt.Errorf("unknown window function name: %q", name)
	}
}

// buildWindow fills coeffs with the coefficients of the selected window.
// Hann is computed directly with the N-1 denominator so the frame endpoints
// land on exactly zero; the remaining windows come from gonum, which expects
// the slice pre-filled with ones.
func buildWindow(coeffs []float64, windowType WindowFunc) {
	if windowType == Hann {
		n := float64(len(coeffs) - 1)
		for i := range coeffs {
			coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/n))
		}
		return
	}

	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case Hamming:
		window.Hamming(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	default:
		window.Hann(coeffs)
	}
}

// buildTwiddles precomputes one table of unit rotation factors per butterfly
// stage: the table for stage length L holds exp(-2πi·j/L) for j in [0, L/2).
func buildTwiddles(n int) [][]complex128 {
	tables := make([][]complex128, 0, bitint.Log2(n))
	for l := 2; l <= n; l *= 2 {
		factors := make([]complex128, l/2)
		angle := -2 * math.Pi / float64(l)
		for j := range factors {
			factors[j] = complex(math.Cos(angle*float64(j)), math.Sin(angle*float64(j)))
		}
		tables = append(tables, factors)
	}
	return tables
}

// buildBitReverse precomputes the input permutation for the decimation-in-time
// transform: entry i holds i with its log2(n) low bits reversed.
func buildBitReverse(n int) []int {
	bits := bitint.Log2(n)
	table := make([]int, n)
	for i := range table {
		table[i] = bitint.Reverse(i, bits)
	}
	return table
}
