package mp

import "math/bits"

// MontFactor returns m0 = -m^-1 mod 2^64 for odd m[0], the per-limb
// factor of Montgomery reduction.
func MontFactor(m []uint64) uint64 {
	// Newton iteration doubles the number of correct low bits each step.
	w := m[0]
	inv := w // 3 correct bits to start (w odd)
	for i := 0; i < 5; i++ {
		inv *= 2 - w*inv
	}
	return -inv
}

// MontMul sets c = a*b*R^-1 mod m where R = 2^(64*len(m)), using operand
// scanning CIOS. Inputs must be < m; the result is fully reduced by a
// masked final subtract. Constant-time.
func MontMul(c, a, b, m []uint64, m0 uint64) {
	n := len(m)
	t := make([]uint64, n+2)
	for i := 0; i < n; i++ {
		// t += a * b[i]
		var carry uint64
		bi := b[i]
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(a[j], bi)
			lo, cc := bits.Add64(lo, carry, 0)
			carry = hi + cc
			lo, cc = bits.Add64(t[j], lo, 0)
			t[j] = lo
			carry += cc
		}
		var cc uint64
		t[n], cc = bits.Add64(t[n], carry, 0)
		t[n+1] += cc

		// t += u*m; t >>= 64
		u := t[0] * m0
		carry = 0
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(m[j], u)
			lo, c2 := bits.Add64(lo, carry, 0)
			carry = hi + c2
			lo, c2 = bits.Add64(t[j], lo, 0)
			t[j] = lo
			carry += c2
		}
		t[n], cc = bits.Add64(t[n], carry, 0)
		t[n+1] += cc
		copy(t, t[1:])
		t[n+1] = 0
	}
	d := make([]uint64, n)
	borrow := Sub(d, t[:n], m)
	copy(c, t[:n])
	// Keep the subtracted value when the carry limb is set or t >= m.
	CondCopy(c, d, Mask(t[n])|Mask(borrow^1))
}

// MontSqr sets c = a*a*R^-1 mod m.
func MontSqr(c, a, m []uint64, m0 uint64) {
	MontMul(c, a, a, m, m0)
}

// MontR returns R mod m.
func MontR(m []uint64) []uint64 {
	n := len(m)
	// 2^(64n) mod m by reducing a 1 followed by n zero limbs.
	wide := make([]uint64, n+1)
	wide[n] = 1
	r := make([]uint64, n)
	Mod(r, wide, m)
	return r
}

// MontR2 returns R^2 mod m, the factor that carries values into the
// Montgomery domain.
func MontR2(m []uint64) []uint64 {
	n := len(m)
	r := MontR(m)
	// Square by doubling 64n times; dominated by curve setup, not hot.
	for i := 0; i < 64*n; i++ {
		AddMod(r, r, r, m)
	}
	return r
}
