package ec

import "stb34101.dev/mp"

// FromAffine lifts an affine point to Jacobian form with Z = 1.
func (c *Curve) FromAffine(r *JacPoint, p *Point) {
	copy(r.X, p.X)
	copy(r.Y, p.Y)
	c.F.SetUnity(r.Z)
}

// ToAffine projects p to affine coordinates with one inversion and
// reports false for the point at infinity.
func (c *Curve) ToAffine(r *Point, p *JacPoint) bool {
	if p.IsInf() {
		return false
	}
	f := c.F
	zi := f.New()
	zi2 := f.New()
	f.Inv(zi, p.Z)
	f.Sqr(zi2, zi)
	f.Mul(r.X, p.X, zi2)
	f.Mul(zi2, zi2, zi)
	f.Mul(r.Y, p.Y, zi2)
	return true
}

// Neg sets r = -p.
func (c *Curve) Neg(r, p *JacPoint) {
	copy(r.X, p.X)
	c.F.Neg(r.Y, p.Y)
	copy(r.Z, p.Z)
}

// Dbl sets r = 2p. The A = -3 chain follows dbl-2001-b, the generic one
// dbl-2007-bl; both handle the infinity sentinel for free since Z = 0
// forces Z3 = 0.
func (c *Curve) Dbl(r, p *JacPoint) {
	if c.aM3 {
		c.dblM3(r, p)
		return
	}
	c.dblGeneric(r, p)
}

func (c *Curve) dblGeneric(r, p *JacPoint) {
	f := c.F
	xx, yy, yyyy, zz := f.New(), f.New(), f.New(), f.New()
	s, m, t := f.New(), f.New(), f.New()

	f.Sqr(xx, p.X)
	f.Sqr(yy, p.Y)
	f.Sqr(yyyy, yy)
	f.Sqr(zz, p.Z)

	// S = 2*((X+YY)^2 - XX - YYYY)
	f.Add(s, p.X, yy)
	f.Sqr(s, s)
	f.Sub(s, s, xx)
	f.Sub(s, s, yyyy)
	f.Dbl(s, s)

	// M = 3*XX + A*ZZ^2
	f.Sqr(m, zz)
	f.Mul(m, m, c.A)
	f.Add(m, m, xx)
	f.Add(m, m, xx)
	f.Add(m, m, xx)

	// Z3 = (Y+Z)^2 - YY - ZZ  (computed before X, Y are clobbered)
	f.Add(t, p.Y, p.Z)
	f.Sqr(t, t)
	f.Sub(t, t, yy)
	f.Sub(t, t, zz)
	copy(r.Z, t)

	// X3 = M^2 - 2S
	f.Sqr(t, m)
	f.Sub(t, t, s)
	f.Sub(t, t, s)
	copy(r.X, t)

	// Y3 = M*(S - X3) - 8*YYYY
	f.Sub(s, s, r.X)
	f.Mul(s, s, m)
	f.Dbl(yyyy, yyyy)
	f.Dbl(yyyy, yyyy)
	f.Dbl(yyyy, yyyy)
	f.Sub(r.Y, s, yyyy)
}

func (c *Curve) dblM3(r, p *JacPoint) {
	f := c.F
	delta, gamma, beta, alpha := f.New(), f.New(), f.New(), f.New()
	t := f.New()

	f.Sqr(delta, p.Z)
	f.Sqr(gamma, p.Y)
	f.Mul(beta, p.X, gamma)

	// alpha = 3*(X - delta)*(X + delta)
	f.Sub(alpha, p.X, delta)
	f.Add(t, p.X, delta)
	f.Mul(alpha, alpha, t)
	f.Add(t, alpha, alpha)
	f.Add(alpha, alpha, t)

	// Z3 = (Y + Z)^2 - gamma - delta
	f.Add(t, p.Y, p.Z)
	f.Sqr(t, t)
	f.Sub(t, t, gamma)
	f.Sub(t, t, delta)
	copy(r.Z, t)

	// X3 = alpha^2 - 8*beta
	f.Sqr(t, alpha)
	f.Dbl(delta, beta)
	f.Dbl(delta, delta)
	f.Dbl(delta, delta)
	f.Sub(t, t, delta)
	copy(r.X, t)

	// Y3 = alpha*(4*beta - X3) - 8*gamma^2
	f.Dbl(beta, beta)
	f.Dbl(beta, beta)
	f.Sub(beta, beta, r.X)
	f.Mul(beta, beta, alpha)
	f.Sqr(gamma, gamma)
	f.Dbl(gamma, gamma)
	f.Dbl(gamma, gamma)
	f.Dbl(gamma, gamma)
	f.Sub(r.Y, beta, gamma)
}

// DblAffine sets r = 2a for an affine operand (mdbl-2007-bl).
func (c *Curve) DblAffine(r *JacPoint, a *Point) {
	f := c.F
	xx, yy, yyyy := f.New(), f.New(), f.New()
	s, m, t := f.New(), f.New(), f.New()

	f.Sqr(xx, a.X)
	f.Sqr(yy, a.Y)
	f.Sqr(yyyy, yy)

	f.Add(s, a.X, yy)
	f.Sqr(s, s)
	f.Sub(s, s, xx)
	f.Sub(s, s, yyyy)
	f.Dbl(s, s)

	// M = 3*XX + A (Z = 1)
	f.Add(m, xx, xx)
	f.Add(m, m, xx)
	f.Add(m, m, c.A)

	f.Dbl(r.Z, a.Y)

	f.Sqr(t, m)
	f.Sub(t, t, s)
	f.Sub(t, t, s)
	copy(r.X, t)

	f.Sub(s, s, r.X)
	f.Mul(s, s, m)
	f.Dbl(yyyy, yyyy)
	f.Dbl(yyyy, yyyy)
	f.Dbl(yyyy, yyyy)
	f.Sub(r.Y, s, yyyy)
}

// Add sets r = p + q (add-2007-bl) with internal fallbacks: doubling when
// the operands coincide, infinity when they are inverses, and the obvious
// answers when either operand is infinity. The fallbacks branch; the
// constant-time ladder never reaches them.
func (c *Curve) Add(r, p, q *JacPoint) {
	if p.IsInf() {
		r.Set(q)
		return
	}
	if q.IsInf() {
		r.Set(p)
		return
	}
	f := c.F
	z1z1, z2z2 := f.New(), f.New()
	u1, u2, s1, s2 := f.New(), f.New(), f.New(), f.New()
	h, i, j, rr, v, t := f.New(), f.New(), f.New(), f.New(), f.New(), f.New()

	f.Sqr(z1z1, p.Z)
	f.Sqr(z2z2, q.Z)
	f.Mul(u1, p.X, z2z2)
	f.Mul(u2, q.X, z1z1)
	f.Mul(s1, q.Z, z2z2)
	f.Mul(s1, s1, p.Y)
	f.Mul(s2, p.Z, z1z1)
	f.Mul(s2, s2, q.Y)

	f.Sub(h, u2, u1)
	f.Sub(rr, s2, s1)
	if f.IsZero(h) {
		if f.IsZero(rr) {
			c.Dbl(r, p)
			return
		}
		mp.SetZero(r.X)
		mp.SetZero(r.Y)
		mp.SetZero(r.Z)
		return
	}
	f.Dbl(rr, rr)

	f.Dbl(i, h)
	f.Sqr(i, i)
	f.Mul(j, h, i)
	f.Mul(v, u1, i)

	// Z3 = ((Z1+Z2)^2 - Z1Z1 - Z2Z2)*H
	f.Add(t, p.Z, q.Z)
	f.Sqr(t, t)
	f.Sub(t, t, z1z1)
	f.Sub(t, t, z2z2)
	f.Mul(t, t, h)
	copy(r.Z, t)

	// X3 = r^2 - J - 2V
	f.Sqr(t, rr)
	f.Sub(t, t, j)
	f.Sub(t, t, v)
	f.Sub(t, t, v)
	copy(r.X, t)

	// Y3 = r*(V - X3) - 2*S1*J
	f.Sub(v, v, r.X)
	f.Mul(v, v, rr)
	f.Mul(s1, s1, j)
	f.Dbl(s1, s1)
	f.Sub(r.Y, v, s1)
}

// AddAffine sets r = p + a for an affine second operand
// (madd-2004-hmv), falling back to doubling when the operands coincide.
func (c *Curve) AddAffine(r *JacPoint, p *JacPoint, a *Point) {
	if p.IsInf() {
		c.FromAffine(r, a)
		return
	}
	f := c.F
	t1, t2, t3, t4 := f.New(), f.New(), f.New(), f.New()

	f.Sqr(t1, p.Z)
	f.Mul(t2, t1, p.Z)
	f.Mul(t1, t1, a.X)
	f.Mul(t2, t2, a.Y)
	f.Sub(t1, t1, p.X) // H
	f.Sub(t2, t2, p.Y) // r
	if f.IsZero(t1) {
		if f.IsZero(t2) {
			c.DblAffine(r, a)
			return
		}
		mp.SetZero(r.X)
		mp.SetZero(r.Y)
		mp.SetZero(r.Z)
		return
	}

	f.Mul(t4, p.Z, t1)
	copy(r.Z, t4)

	f.Sqr(t3, t1)
	f.Mul(t4, t3, t1)
	f.Mul(t3, t3, p.X)

	// X3 = r^2 - H^3 - 2*X1*H^2
	x3 := f.New()
	f.Sqr(x3, t2)
	f.Sub(x3, x3, t4)
	f.Sub(x3, x3, t3)
	f.Sub(x3, x3, t3)

	// Y3 = r*(X1*H^2 - X3) - Y1*H^3
	f.Sub(t3, t3, x3)
	f.Mul(t3, t3, t2)
	f.Mul(t4, t4, p.Y)
	f.Sub(r.Y, t3, t4)
	copy(r.X, x3)
}

// Tpl sets r = 3p (tpl-2007-bl; the A = -3 shortcut replaces only the M
// term).
func (c *Curve) Tpl(r, p *JacPoint) {
	f := c.F
	xx, yy, zz, yyyy := f.New(), f.New(), f.New(), f.New()
	m, mm, e, ee, tt, u, t := f.New(), f.New(), f.New(), f.New(), f.New(), f.New(), f.New()

	f.Sqr(xx, p.X)
	f.Sqr(yy, p.Y)
	f.Sqr(zz, p.Z)
	f.Sqr(yyyy, yy)

	if c.aM3 {
		// M = 3*(X - ZZ)*(X + ZZ)
		f.Sub(m, p.X, zz)
		f.Add(t, p.X, zz)
		f.Mul(m, m, t)
		f.Add(t, m, m)
		f.Add(m, m, t)
	} else {
		// M = 3*XX + A*ZZ^2
		f.Sqr(m, zz)
		f.Mul(m, m, c.A)
		f.Add(m, m, xx)
		f.Add(m, m, xx)
		f.Add(m, m, xx)
	}
	f.Sqr(mm, m)

	// E = 6*((X+YY)^2 - XX - YYYY) - MM
	f.Add(e, p.X, yy)
	f.Sqr(e, e)
	f.Sub(e, e, xx)
	f.Sub(e, e, yyyy)
	f.Dbl(t, e)
	f.Add(e, e, t)
	f.Dbl(e, e)
	f.Sub(e, e, mm)

	f.Sqr(ee, e)

	// T = 16*YYYY
	f.Dbl(tt, yyyy)
	f.Dbl(tt, tt)
	f.Dbl(tt, tt)
	f.Dbl(tt, tt)

	// U = (M+E)^2 - MM - EE - T
	f.Add(u, m, e)
	f.Sqr(u, u)
	f.Sub(u, u, mm)
	f.Sub(u, u, ee)
	f.Sub(u, u, tt)

	// Z3 = (Z+E)^2 - ZZ - EE
	f.Add(t, p.Z, e)
	f.Sqr(t, t)
	f.Sub(t, t, zz)
	f.Sub(t, t, ee)
	copy(r.Z, t)

	// X3 = 4*(X*EE - 4*YY*U)
	f.Mul(t, yy, u)
	f.Dbl(t, t)
	f.Dbl(t, t)
	x3 := f.New()
	f.Mul(x3, p.X, ee)
	f.Sub(x3, x3, t)
	f.Dbl(x3, x3)
	f.Dbl(x3, x3)

	// Y3 = 8*Y*(U*(T-U) - E*EE)
	f.Sub(t, tt, u)
	f.Mul(t, t, u)
	f.Mul(ee, ee, e)
	f.Sub(t, t, ee)
	f.Mul(t, t, p.Y)
	f.Dbl(t, t)
	f.Dbl(t, t)
	f.Dbl(t, t)
	copy(r.X, x3)
	copy(r.Y, t)
}

// DblAddAffine sets r = 2p + a (or 2p - a when neg is set). The fused
// Longa-Miri chain is an optimisation, not a contract; this composition
// keeps the exceptional-case behaviour of Dbl and AddAffine.
func (c *Curve) DblAddAffine(r *JacPoint, p *JacPoint, a *Point, neg bool) {
	t := c.NewJac()
	c.Dbl(t, p)
	if neg {
		na := c.NewPoint()
		c.NegAffine(na, a)
		c.AddAffine(r, t, na)
		return
	}
	c.AddAffine(r, t, a)
}
