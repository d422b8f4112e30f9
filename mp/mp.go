package mp

import "math/bits"

// New returns a zero number of n limbs.
func New(n int) []uint64 { return make([]uint64, n) }

// Copy sets c = a. The slices must have equal length.
func Copy(c, a []uint64) {
	copy(c, a)
}

// SetZero clears every limb of a.
func SetZero(a []uint64) {
	for i := range a {
		a[i] = 0
	}
}

// SetW sets a to the single-limb value w.
func SetW(a []uint64, w uint64) {
	a[0] = w
	for i := 1; i < len(a); i++ {
		a[i] = 0
	}
}

// IsZero reports whether a == 0 in constant time.
func IsZero(a []uint64) bool {
	var acc uint64
	for _, w := range a {
		acc |= w
	}
	return acc == 0
}

// IsW reports whether a equals the single-limb value w in constant time.
func IsW(a []uint64, w uint64) bool {
	acc := a[0] ^ w
	for i := 1; i < len(a); i++ {
		acc |= a[i]
	}
	return acc == 0
}

// Eq reports whether a == b in constant time. Lengths must match.
func Eq(a, b []uint64) bool {
	var acc uint64
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}

// Cmp compares equal-length a and b and returns -1, 0 or 1. The comparison
// is constant-time in the limb values; use it freely on secrets.
func Cmp(a, b []uint64) int {
	var gt, lt uint64
	for i := len(a) - 1; i >= 0; i-- {
		done := gt | lt
		gt |= ^done & ctGT(a[i], b[i])
		lt |= ^done & ctGT(b[i], a[i])
	}
	return int(gt&1) - int(lt&1)
}

// ctGT returns all-ones when a > b, in constant time.
func ctGT(a, b uint64) uint64 {
	// Borrow out of b - a means a > b.
	_, borrow := bits.Sub64(b, a, 0)
	return -borrow
}

// CmpW compares a against the single-limb value w.
func CmpW(a []uint64, w uint64) int {
	var hi uint64
	for i := 1; i < len(a); i++ {
		hi |= a[i]
	}
	if hi != 0 {
		return 1
	}
	switch {
	case a[0] > w:
		return 1
	case a[0] < w:
		return -1
	}
	return 0
}

// Add sets c = a + b and returns the carry. Lengths must match; c may
// alias a or b.
func Add(c, a, b []uint64) uint64 {
	var carry uint64
	for i := range a {
		c[i], carry = bits.Add64(a[i], b[i], carry)
	}
	return carry
}

// AddW sets c = a + w and returns the carry.
func AddW(c, a []uint64, w uint64) uint64 {
	carry := w
	for i := range a {
		c[i], carry = bits.Add64(a[i], carry, 0)
	}
	return carry
}

// Sub sets c = a - b and returns the borrow. Lengths must match; c may
// alias a or b.
func Sub(c, a, b []uint64) uint64 {
	var borrow uint64
	for i := range a {
		c[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	return borrow
}

// SubW sets c = a - w and returns the borrow.
func SubW(c, a []uint64, w uint64) uint64 {
	borrow := w
	for i := range a {
		c[i], borrow = bits.Sub64(a[i], borrow, 0)
	}
	return borrow
}

// CondCopy sets c = a when mask is all-ones and leaves c untouched when
// mask is zero, in constant time.
func CondCopy(c, a []uint64, mask uint64) {
	for i := range c {
		c[i] = c[i]&^mask | a[i]&mask
	}
}

// CondSwap exchanges a and b when mask is all-ones, in constant time.
func CondSwap(a, b []uint64, mask uint64) {
	for i := range a {
		t := (a[i] ^ b[i]) & mask
		a[i] ^= t
		b[i] ^= t
	}
}

// Bits returns the bit length of a (0 for a == 0). Not constant-time:
// use only on public values.
func Bits(a []uint64) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != 0 {
			return i*64 + 64 - bits.LeadingZeros64(a[i])
		}
	}
	return 0
}

// Bit returns bit i of a, in constant time with respect to the limb values.
func Bit(a []uint64, i int) uint64 {
	return a[i/64] >> (uint(i) % 64) & 1
}

// ShHi sets c = a << k for k in [0,64) and returns the bits shifted out of
// the top limb.
func ShHi(c, a []uint64, k uint) uint64 {
	if k == 0 {
		copy(c, a)
		return 0
	}
	var out uint64
	for i := range a {
		w := a[i]
		c[i] = w<<k | out
		out = w >> (64 - k)
	}
	return out
}

// ShLo sets c = a >> k for k in [0,64).
func ShLo(c, a []uint64, k uint) {
	if k == 0 {
		copy(c, a)
		return
	}
	for i := 0; i < len(a); i++ {
		w := a[i] >> k
		if i+1 < len(a) {
			w |= a[i+1] << (64 - k)
		}
		c[i] = w
	}
}

// ShLoWords sets c = a >> (64*k) zero-extending from the top.
func ShLoWords(c, a []uint64, k int) {
	n := len(a)
	for i := 0; i < n; i++ {
		if i+k < n {
			c[i] = a[i+k]
		} else {
			c[i] = 0
		}
	}
}
