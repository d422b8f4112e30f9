package mp

import "math/bits"

// MulW sets c = a*w and returns the high limb of the product. c may alias a.
func MulW(c, a []uint64, w uint64) uint64 {
	var carry uint64
	for i := range a {
		hi, lo := bits.Mul64(a[i], w)
		lo, cc := bits.Add64(lo, carry, 0)
		c[i] = lo
		carry = hi + cc
	}
	return carry
}

// AddMulW sets c += a*w and returns the carry limb.
func AddMulW(c, a []uint64, w uint64) uint64 {
	var carry uint64
	for i := range a {
		hi, lo := bits.Mul64(a[i], w)
		lo, cc := bits.Add64(lo, carry, 0)
		carry = hi + cc
		lo, cc = bits.Add64(c[i], lo, 0)
		c[i] = lo
		carry += cc
	}
	return carry
}

// SubMulW sets c -= a*w and returns the borrow limb.
func SubMulW(c, a []uint64, w uint64) uint64 {
	var borrow uint64
	for i := range a {
		hi, lo := bits.Mul64(a[i], w)
		lo, bb := bits.Add64(lo, borrow, 0)
		borrow = hi + bb
		d, bb := bits.Sub64(c[i], lo, 0)
		c[i] = d
		borrow += bb
	}
	return borrow
}

// Mul sets c = a*b by schoolbook multiplication. c must have
// len(a)+len(b) limbs and must not alias a or b.
func Mul(c, a, b []uint64) {
	SetZero(c)
	for i, w := range b {
		c[i+len(a)] = AddMulW(c[i:i+len(a)], a, w)
	}
}

// Sqr sets c = a*a. c must have 2*len(a) limbs and must not alias a.
// Off-diagonal products are computed once and doubled.
func Sqr(c, a []uint64) {
	n := len(a)
	SetZero(c)
	for i := 0; i < n; i++ {
		if i+1 < n {
			c[2*i+1+(n-i-1)] += AddMulW(c[2*i+1:i+n], a[i+1:], a[i])
		}
	}
	// Double the off-diagonal part and fold in the squares.
	ShHi(c, c, 1)
	var carry uint64
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(a[i], a[i])
		lo, cc := bits.Add64(c[2*i], lo, carry)
		c[2*i] = lo
		hi, cc = bits.Add64(c[2*i+1], hi, cc)
		c[2*i+1] = hi
		carry = cc
	}
}
