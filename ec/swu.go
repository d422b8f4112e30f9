package ec

import "stb34101.dev/mp"

// SWU maps a plain residue u to a curve point by the simplified
// Shallue-Woestijne-Ulas method with non-residue -1, available because
// every supported prime satisfies p = 3 mod 4. Candidate abscissae are
//
//	x1 = -(B/A) * (1 + 1/(u^4 - u^2)),  x2 = -u^2 * x1
//
// and a constant-time mask keeps whichever ordinate is an actual square
// root. Exceptional u (u^4 = u^2) fall back to the base point through the
// same masked selection, so the map is total and branch-free.
func (c *Curve) SWU(r *Point, u []uint64) {
	f := c.F
	um := f.New()
	f.From(um, u)

	// s = u^4 - u^2 = (-u^2)^2 + (-u^2)
	nu2, s := f.New(), f.New()
	f.Sqr(nu2, um)
	f.Neg(nu2, nu2) // -u^2
	f.Sqr(s, nu2)
	f.Add(s, s, nu2)

	var acc uint64
	for _, w := range s {
		acc |= w
	}
	sZero := ^mp.Mask(acc)
	one := f.New()
	f.SetUnity(one)
	mp.CondCopy(s, one, sZero) // keep the inversion well-defined

	// x1 = -(B/A) * (1 + 1/s)
	x1, t := f.New(), f.New()
	f.Inv(t, s)
	f.Add(t, t, one)
	f.Div(x1, c.B, c.A)
	f.Neg(x1, x1)
	f.Mul(x1, x1, t)

	// x2 = -u^2 * x1
	x2 := f.New()
	f.Mul(x2, nu2, x1)

	g1, g2 := f.New(), f.New()
	c.evalRHS(g1, x1)
	c.evalRHS(g2, x2)

	y1, y2 := f.New(), f.New()
	ok1 := c.F.Sqrt(y1, g1)
	ok2 := c.F.Sqrt(y2, g2)

	use2 := ^mp.Mask(b2w(ok1)) // prefer the first root when it exists
	copy(r.X, x1)
	copy(r.Y, y1)
	mp.CondCopy(r.X, x2, use2)
	mp.CondCopy(r.Y, y2, use2)

	// Total fallback: neither candidate worked (possible only for the
	// handful of exceptional u). The base point keeps the map total.
	bad := ^mp.Mask(b2w(ok1) | b2w(ok2))
	mp.CondCopy(r.X, c.G.X, bad)
	mp.CondCopy(r.Y, c.G.Y, bad)
}

func (c *Curve) evalRHS(g, x []uint64) {
	f := c.F
	f.Sqr(g, x)
	f.Add(g, g, c.A)
	f.Mul(g, g, x)
	f.Add(g, g, c.B)
}

func b2w(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
