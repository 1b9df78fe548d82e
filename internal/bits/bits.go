// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// NextPow2 returns the smallest power of two that is >= n.
// NextPow2(0) is 1.
func NextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return uint64(1) << bits.Len64(n-1)
}

// BitsFor returns the number of bits needed to encode n distinct codes 0..n-1.
// At least one bit is returned.
func BitsFor(n int) int {
	if n <= 2 {
		return 1
	}
	return bits.Len64(uint64(n - 1))
}

// Mask returns a mask with the low w bits set. w may be 0..64.
func Mask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<w - 1
}
