package ec

import "stb34101.dev/mp"

// IsValid checks the curve descriptor itself: p > 3 and a non-zero
// discriminant 4A^3 + 27B^2.
func (c *Curve) IsValid() bool {
	f := c.F
	if mp.CmpW(f.Modulus(), 3) <= 0 {
		return false
	}
	a3 := f.New()
	f.Sqr(a3, c.A)
	f.Mul(a3, a3, c.A)
	f.Dbl(a3, a3)
	f.Dbl(a3, a3) // 4A^3

	b2 := f.New()
	f.Sqr(b2, c.B)
	f.MulW(b2, b2, 27)

	f.Add(a3, a3, b2)
	return !f.IsZero(a3)
}

// SeemsValidGroup checks the attached group parameters: the base point
// satisfies the curve equation and |q*h - (p+1)| <= 2*sqrt(p), verified
// without square roots by squaring both sides.
func (c *Curve) SeemsValidGroup() bool {
	if c.Order == nil || mp.IsZero(c.Order) {
		return false
	}
	if !c.OnCurve(&c.G) {
		return false
	}
	n := c.F.Limbs()
	p := c.F.Modulus()

	// qh, full width to keep the product exact
	qh := mp.New(2*n + 1)
	h := []uint64{c.Cofactor}
	prod := mp.New(n + 1)
	mp.Mul(prod, c.Order, h)
	copy(qh, prod)

	// p+1
	p1 := mp.New(2*n + 1)
	copy(p1, p)
	mp.AddW(p1, p1, 1)

	// t = |qh - (p+1)|
	t := mp.New(2*n + 1)
	if mp.Cmp(qh, p1) >= 0 {
		mp.Sub(t, qh, p1)
	} else {
		mp.Sub(t, p1, qh)
	}

	// t^2 <= 4p
	t2 := mp.New(2 * (2*n + 1))
	mp.Sqr(t2, t)
	p4 := mp.New(2 * (2*n + 1))
	copy(p4, p)
	mp.ShHi(p4, p4, 2)
	return mp.Cmp(t2, p4) <= 0
}

// IsSafeGroup checks that the order is prime, differs from p, and that
// the embedding degree exceeds movThreshold: p^i != 1 mod q for
// i = 1..movThreshold.
func (c *Curve) IsSafeGroup(movThreshold int) bool {
	q := c.Order
	p := c.F.Modulus()
	if !mp.IsProbablePrime(q) {
		return false
	}
	if mp.Eq(q, p) {
		return false
	}
	n := len(q)
	r := mp.New(n)
	mp.Mod(r, p, q)
	acc := mp.New(n)
	mp.SetW(acc, 1)
	for i := 0; i < movThreshold; i++ {
		mp.MulMod(acc, acc, r, q)
		if mp.IsW(acc, 1) {
			return false
		}
	}
	return true
}
