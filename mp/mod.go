package mp

// AddMod sets c = a + b mod m for a, b in [0, m). Constant-time; the
// reduction is a masked subtract, never a branch.
func AddMod(c, a, b, m []uint64) {
	t := make([]uint64, len(m))
	carry := Add(c, a, b)
	borrow := Sub(t, c, m)
	CondCopy(c, t, Mask(carry|(borrow^1)))
}

// SubMod sets c = a - b mod m for a, b in [0, m). Constant-time.
func SubMod(c, a, b, m []uint64) {
	t := make([]uint64, len(m))
	borrow := Sub(c, a, b)
	Add(t, c, m)
	CondCopy(c, t, Mask(borrow))
}

// NegMod sets c = -a mod m for a in [0, m). Constant-time.
func NegMod(c, a, m []uint64) {
	t := make([]uint64, len(m))
	Sub(t, m, a)
	var acc uint64
	for _, w := range a {
		acc |= w
	}
	nz := Mask(acc)
	for i := range c {
		c[i] = t[i] & nz
	}
}

// HalveMod sets c = a/2 mod m for odd m. Constant-time.
func HalveMod(c, a, m []uint64) {
	n := len(m)
	t := make([]uint64, n)
	carry := Add(t, a, m)
	odd := MaskBit(a[0])
	copy(c, a)
	CondCopy(c, t, odd)
	top := carry & odd & 1
	ShLo(c, c, 1)
	c[n-1] |= top << 63
}

// MulMod sets c = a*b mod m. The schoolbook product is reduced by full
// division; use gfp for the Montgomery path on fixed moduli.
func MulMod(c, a, b, m []uint64) {
	prod := make([]uint64, len(a)+len(b))
	Mul(prod, a, b)
	Mod(c, prod, m)
}

// SqrMod sets c = a*a mod m.
func SqrMod(c, a, m []uint64) {
	prod := make([]uint64, 2*len(a))
	Sqr(prod, a)
	Mod(c, prod, m)
}

// PowMod sets c = a^e mod m by left-to-right binary exponentiation. The
// running time depends on the bit length of e; callers with secret
// exponents use the Montgomery ladder in gfp instead.
func PowMod(c, a, e, m []uint64) {
	n := len(m)
	acc := make([]uint64, n)
	base := make([]uint64, n)
	SetW(acc, 1)
	Mod(base, a, m)
	for i := Bits(e) - 1; i >= 0; i-- {
		SqrMod(acc, acc, m)
		if Bit(e, i) == 1 {
			MulMod(acc, acc, base, m)
		}
	}
	copy(c, acc)
}

// InvMod sets c = a^-1 mod m for odd m using the binary extended
// Euclidean algorithm. Returns false when a is not invertible, in which
// case c is left zeroed.
func InvMod(c, a, m []uint64) bool {
	n := len(m)
	u := make([]uint64, n)
	v := make([]uint64, n)
	x1 := make([]uint64, n)
	x2 := make([]uint64, n)
	Mod(u, a, m)
	copy(v, m)
	SetW(x1, 1)

	for !IsZero(u) {
		for u[0]&1 == 0 {
			ShLo(u, u, 1)
			HalveMod(x1, x1, m)
		}
		for v[0]&1 == 0 {
			ShLo(v, v, 1)
			HalveMod(x2, x2, m)
		}
		if Cmp(u, v) >= 0 {
			Sub(u, u, v)
			SubMod(x1, x1, x2, m)
		} else {
			Sub(v, v, u)
			SubMod(x2, x2, x1, m)
		}
	}
	if !IsW(v, 1) {
		SetZero(c)
		return false
	}
	copy(c, x2)
	return true
}
