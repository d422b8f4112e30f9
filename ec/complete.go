package ec

import "stb34101.dev/mp"

// HomPoint is a homogeneous projective point (X : Y : Z) with x = X/Z,
// y = Y/Z. (0 : 1 : 0) is the point at infinity. Only the complete
// addition path uses this form.
type HomPoint struct {
	X, Y, Z []uint64
}

// NewHom returns the homogeneous point at infinity.
func (c *Curve) NewHom() *HomPoint {
	h := &HomPoint{X: c.F.New(), Y: c.F.New(), Z: c.F.New()}
	c.F.SetUnity(h.Y)
	return h
}

// JToH converts a Jacobian point to homogeneous form: (XZ : Y : Z^3).
// The infinity sentinel Z = 0 maps to (0 : 1 : 0) through a masked fix,
// so the conversion is exception-free.
func (c *Curve) JToH(r *HomPoint, p *JacPoint) {
	f := c.F
	f.Mul(r.X, p.X, p.Z)
	copy(r.Y, p.Y)
	f.Sqr(r.Z, p.Z)
	f.Mul(r.Z, r.Z, p.Z)
	var acc uint64
	for _, w := range p.Z {
		acc |= w
	}
	inf := ^mp.Mask(acc)
	one := f.New()
	f.SetUnity(one)
	mp.CondCopy(r.Y, one, inf)
}

// AToH lifts an affine point: (x : y : 1).
func (c *Curve) AToH(r *HomPoint, p *Point) {
	copy(r.X, p.X)
	copy(r.Y, p.Y)
	c.F.SetUnity(r.Z)
}

// HToA projects to affine; false for infinity.
func (c *Curve) HToA(r *Point, p *HomPoint) bool {
	if mp.IsZero(p.Z) {
		return false
	}
	f := c.F
	zi := f.New()
	f.Inv(zi, p.Z)
	f.Mul(r.X, p.X, zi)
	f.Mul(r.Y, p.Y, zi)
	return true
}

// HToJ converts to Jacobian form: (XZ, YZ^2, Z). Infinity stays the
// zero-Z sentinel.
func (c *Curve) HToJ(r *JacPoint, p *HomPoint) {
	f := c.F
	f.Mul(r.X, p.X, p.Z)
	f.Sqr(r.Z, p.Z)
	f.Mul(r.Y, p.Y, r.Z)
	copy(r.Z, p.Z)
}

// AddComplete sets r = p + q using the exception-free formulas of
// Renes, Costello and Batina (algorithm 1, arbitrary A). No input pair
// is rejected: doubling, inverses and infinity all flow through the same
// multiplication sequence. r may alias p or q.
func (c *Curve) AddComplete(r, p, q *HomPoint) {
	f := c.F
	b3 := f.New()
	f.Add(b3, c.B, c.B)
	f.Add(b3, b3, c.B)

	t0, t1, t2, t3, t4, t5 := f.New(), f.New(), f.New(), f.New(), f.New(), f.New()
	x3, y3, z3 := f.New(), f.New(), f.New()

	f.Mul(t0, p.X, q.X)
	f.Mul(t1, p.Y, q.Y)
	f.Mul(t2, p.Z, q.Z)
	f.Add(t3, p.X, p.Y)
	f.Add(t4, q.X, q.Y)
	f.Mul(t3, t3, t4)
	f.Add(t4, t0, t1)
	f.Sub(t3, t3, t4)
	f.Add(t4, p.X, p.Z)
	f.Add(t5, q.X, q.Z)
	f.Mul(t4, t4, t5)
	f.Add(t5, t0, t2)
	f.Sub(t4, t4, t5)
	f.Add(t5, p.Y, p.Z)
	f.Add(x3, q.Y, q.Z)
	f.Mul(t5, t5, x3)
	f.Add(x3, t1, t2)
	f.Sub(t5, t5, x3)
	f.Mul(z3, c.A, t4)
	f.Mul(x3, b3, t2)
	f.Add(z3, x3, z3)
	f.Sub(x3, t1, z3)
	f.Add(z3, t1, z3)
	f.Mul(y3, x3, z3)
	f.Add(t1, t0, t0)
	f.Add(t1, t1, t0)
	f.Mul(t2, c.A, t2)
	f.Mul(t4, b3, t4)
	f.Add(t1, t1, t2)
	f.Sub(t2, t0, t2)
	f.Mul(t2, c.A, t2)
	f.Add(t4, t4, t2)
	f.Mul(t0, t1, t4)
	f.Add(y3, y3, t0)
	f.Mul(t0, t5, t4)
	f.Mul(x3, t3, x3)
	f.Sub(x3, x3, t0)
	f.Mul(t0, t3, t1)
	f.Mul(z3, t5, z3)
	f.Add(z3, z3, t0)

	copy(r.X, x3)
	copy(r.Y, y3)
	copy(r.Z, z3)
}

// AddCompleteJJ adds two Jacobian points through the complete formulas
// and returns the homogeneous result.
func (c *Curve) AddCompleteJJ(r *HomPoint, p, q *JacPoint) {
	hp := c.NewHom()
	hq := c.NewHom()
	c.JToH(hp, p)
	c.JToH(hq, q)
	c.AddComplete(r, hp, hq)
}

// AddCompleteJA adds a Jacobian and an affine point through the complete
// formulas.
func (c *Curve) AddCompleteJA(r *HomPoint, p *JacPoint, a *Point) {
	hp := c.NewHom()
	ha := c.NewHom()
	c.JToH(hp, p)
	c.AToH(ha, a)
	c.AddComplete(r, hp, ha)
}
