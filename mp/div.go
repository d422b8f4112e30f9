package mp

import "math/bits"

// DivW sets q = a / w and returns a mod w. q may alias a. w must be
// non-zero.
func DivW(q, a []uint64, w uint64) uint64 {
	var r uint64
	for i := len(a) - 1; i >= 0; i-- {
		q[i], r = bits.Div64(r, a[i], w)
	}
	return r
}

// ModW returns a mod w without producing the quotient.
func ModW(a []uint64, w uint64) uint64 {
	var r uint64
	for i := len(a) - 1; i >= 0; i-- {
		_, r = bits.Div64(r, a[i], w)
	}
	return r
}

// Div computes the Euclidean quotient and remainder of a by b using
// Knuth's Algorithm D with the usual normalisation. q receives
// len(a)-len(b)+1 limbs of quotient (or is zeroed when a < b), r receives
// len(b) limbs of remainder. Division is not constant-time; operands are
// public wherever it is used.
func Div(q, r, a, b []uint64) {
	nb := len(b)
	for nb > 0 && b[nb-1] == 0 {
		nb--
	}
	if nb == 0 {
		panic("mp: division by zero")
	}
	if nb == 1 {
		rw := DivW(q[:len(a)], a, b[0])
		SetZero(q[len(a):])
		SetZero(r)
		r[0] = rw
		return
	}
	na := len(a)
	for na > 0 && a[na-1] == 0 {
		na--
	}
	SetZero(q)
	if na < nb {
		SetZero(r)
		copy(r, a[:na])
		return
	}

	shift := uint(bits.LeadingZeros64(b[nb-1]))
	bn := make([]uint64, nb)
	ShHi(bn, b[:nb], shift)
	an := make([]uint64, na+1)
	an[na] = ShHi(an[:na], a[:na], shift)

	for j := na - nb; j >= 0; j-- {
		var qhat, rhat uint64
		if an[j+nb] >= bn[nb-1] {
			qhat = ^uint64(0)
		} else {
			qhat, rhat = bits.Div64(an[j+nb], an[j+nb-1], bn[nb-1])
			for {
				hi, lo := bits.Mul64(qhat, bn[nb-2])
				if hi < rhat || (hi == rhat && lo <= an[j+nb-2]) {
					break
				}
				qhat--
				rhat += bn[nb-1]
				if rhat < bn[nb-1] {
					break // rhat overflowed: qhat is now small enough
				}
			}
		}
		borrow := SubMulW(an[j:j+nb], bn, qhat)
		t, neg := bits.Sub64(an[j+nb], borrow, 0)
		an[j+nb] = t
		for neg != 0 {
			// qhat was too large; add the divisor back.
			qhat--
			c := Add(an[j:j+nb], an[j:j+nb], bn)
			an[j+nb], c = bits.Add64(an[j+nb], c, 0)
			neg -= c
		}
		q[j] = qhat
	}

	SetZero(r)
	ShLo(r[:nb], an[:nb], shift)
}

// Mod sets r = a mod b. r must have len(b) limbs.
func Mod(r, a, b []uint64) {
	q := make([]uint64, len(a)+1)
	Div(q, r, a, b)
}
