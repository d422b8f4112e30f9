// Package mp implements unsigned multi-precision arithmetic over
// little-endian limb slices. A number of logical length n occupies exactly
// n uint64 limbs, least-significant limb first; leading zero limbs are
// allowed and significant comparisons never branch on secret data.
package mp

import (
	"encoding/binary"
	"math/bits"
)

// Mask returns all-ones when c != 0 and zero otherwise, in constant time.
func Mask(c uint64) uint64 {
	return -((c | -c) >> 63)
}

// MaskBit returns all-ones when the low bit of c is set and zero otherwise.
func MaskBit(c uint64) uint64 {
	return -(c & 1)
}

// Parity returns the XOR of all bits of x.
func Parity(x uint64) uint64 {
	return uint64(bits.OnesCount64(x) & 1)
}

// CTZ returns the number of trailing zero bits of x (64 for x == 0).
func CTZ(x uint64) int { return bits.TrailingZeros64(x) }

// CLZ returns the number of leading zero bits of x (64 for x == 0).
func CLZ(x uint64) int { return bits.LeadingZeros64(x) }

// Weight returns the number of set bits of x.
func Weight(x uint64) int { return bits.OnesCount64(x) }

// RevBytes reverses the byte order of x.
func RevBytes(x uint64) uint64 { return bits.ReverseBytes64(x) }

// RotHi rotates x towards the high bits by k positions.
func RotHi(x uint64, k int) uint64 { return bits.RotateLeft64(x, k) }

// Load reads a little-endian limb from b.
func Load(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// Store writes x to b as a little-endian limb.
func Store(b []byte, x uint64) { binary.LittleEndian.PutUint64(b, x) }
