/*
Package bitint provides bit manipulation helpers for power-of-2 sizing and
index permutation in FFT code.

Design principles:
- Zero allocations: all operations use stack memory only
- Predictable performance: O(1) or O(bits) constant-bound operations
- Real-time safe: no locks, syscalls, or blocking operations
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size. Powers of 2 are
// preserved; zero and negative sizes return 1.
//
// The size-1 subtraction is what preserves exact powers of 2: for 8,
// bits.Len64(7) = 3 and 1<<3 = 8, whereas bits.Len64(8) = 4 would
// incorrectly double to 16.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// IsPowerOfTwo checks if n is a power of 2. The expression (n & (n-1)) == 0
// holds only for values with exactly one bit set.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns floor(log2(n)) for positive n, and 0 otherwise. For
// power-of-2 transform sizes this is the number of butterfly stages.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len64(uint64(n)) - 1
}

// Reverse returns n with its low width bits reversed. Used to build the
// input permutation table for decimation-in-time FFTs.
func Reverse(n, width int) int {
	result := 0
	for i := 0; i < width; i++ {
		result = (result << 1) | (n & 1)
		n >>= 1
	}
	return result
}
