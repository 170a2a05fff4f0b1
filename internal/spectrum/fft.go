// SPDX-License-Identifier: MIT
package spectrum

// forwardFFT computes the discrete Fourier transform of data in place using
// the iterative Cooley-Tukey radix-2 decimation-in-time algorithm. The input
// is reordered through the precomputed bit-reversal table, then butterfly
// pairs are combined stage by stage with the precomputed twiddle factors.
// len(data) must equal the size the tables were built for.
func (a *Analyzer) forwardFFT(data []complex128) {
	n := len(data)
	if n <= 1 {
		return
	}

	for i, j := range a.bitrev {
		if i < j {
			data[i], data[j] = data[j], data[i]
		}
	}

	for stage, factors := range a.twiddle {
		l := 2 << stage
		half := l >> 1
		for i := 0; i < n; i += l {
			for j := 0; j < half; j++ {
				u := data[i+j]
				t := factors[j] * data[i+j+half]
				data[i+j] = u + t
				data[i+j+half] = u - t
			}
		}
	}
}
