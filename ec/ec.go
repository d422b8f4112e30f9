// Package ec implements short Weierstrass curves y^2 = x^3 + Ax + B over
// GF(p) in affine and Jacobian coordinates, with a constant-time scalar
// multiplication engine driven by precomputed odd multiples.
package ec

import (
	"errors"

	"stb34101.dev/gfp"
	"stb34101.dev/mp"
)

// Point is an affine point. Coordinates are field elements in the
// Montgomery domain of the curve's field. The point at infinity has no
// affine encoding; only Jacobian points carry the zero-Z sentinel.
type Point struct {
	X, Y []uint64
}

// JacPoint is a Jacobian point (X, Y, Z) with x = X/Z^2, y = Y/Z^3.
// Z == 0 denotes the point at infinity.
type JacPoint struct {
	X, Y, Z []uint64
}

// Curve describes a Weierstrass curve together with its subgroup
// parameters. The curve owns its field descriptor.
type Curve struct {
	F *gfp.Field

	A, B []uint64 // curve coefficients, in-domain
	aM3  bool     // A = -3, enables the faster doubling chain

	G        Point    // base point
	Order    []uint64 // subgroup order q, plain little-endian limbs
	Cofactor uint64

	// QF is the residue ring modulo the subgroup order, used by
	// signature arithmetic. Set by SetGroup.
	QF *gfp.Field
}

// NewCurve builds a curve descriptor over f with plain-residue
// coefficients a and b. The A = -3 specialisation is detected here and
// never changes afterwards.
func NewCurve(f *gfp.Field, a, b []uint64) (*Curve, error) {
	n := f.Limbs()
	if len(a) != n || len(b) != n {
		return nil, errors.New("ec: coefficient width mismatch")
	}
	if mp.Cmp(a, f.Modulus()) >= 0 || mp.Cmp(b, f.Modulus()) >= 0 {
		return nil, errors.New("ec: coefficient out of range")
	}
	c := &Curve{F: f, A: f.New(), B: f.New()}
	f.From(c.A, a)
	f.From(c.B, b)

	// a == p - 3?
	m3 := mp.New(n)
	mp.SubW(m3, f.Modulus(), 3)
	c.aM3 = mp.Eq(a, m3)
	return c, nil
}

// SetGroup attaches the generator (plain residues gx, gy), the subgroup
// order and the cofactor. The order must be odd.
func (c *Curve) SetGroup(gx, gy, order []uint64, cofactor uint64) error {
	f := c.F
	if len(order) != f.Limbs() {
		return errors.New("ec: order width mismatch")
	}
	if order[0]&1 == 0 {
		return errors.New("ec: order must be odd")
	}
	c.G = Point{X: f.New(), Y: f.New()}
	f.From(c.G.X, gx)
	f.From(c.G.Y, gy)
	c.Order = append([]uint64(nil), order...)
	c.Cofactor = cofactor
	qf, err := gfp.New(order)
	if err != nil {
		return err
	}
	c.QF = qf
	if !c.OnCurve(&c.G) {
		return errors.New("ec: base point not on curve")
	}
	return nil
}

// NewPoint returns a zero affine point of the curve's width.
func (c *Curve) NewPoint() *Point {
	return &Point{X: c.F.New(), Y: c.F.New()}
}

// NewJac returns the point at infinity.
func (c *Curve) NewJac() *JacPoint {
	return &JacPoint{X: c.F.New(), Y: c.F.New(), Z: c.F.New()}
}

// Set copies a into p.
func (p *Point) Set(a *Point) {
	copy(p.X, a.X)
	copy(p.Y, a.Y)
}

// Set copies a into p.
func (p *JacPoint) Set(a *JacPoint) {
	copy(p.X, a.X)
	copy(p.Y, a.Y)
	copy(p.Z, a.Z)
}

// IsInf reports whether p is the point at infinity, in constant time.
func (p *JacPoint) IsInf() bool { return mp.IsZero(p.Z) }

// OnCurve evaluates (x^2 + A)x + B - y^2 and reports whether p satisfies
// the curve equation.
func (c *Curve) OnCurve(p *Point) bool {
	f := c.F
	lhs := f.New()
	rhs := f.New()
	f.Sqr(rhs, p.X)
	f.Add(rhs, rhs, c.A)
	f.Mul(rhs, rhs, p.X)
	f.Add(rhs, rhs, c.B)
	f.Sqr(lhs, p.Y)
	return mp.Eq(lhs, rhs)
}

// RecoverY computes y = (x^3 + Ax + B)^((p+1)/4) for in-domain x and
// reports whether x is the abscissa of a curve point. Used to lift
// x-only encodings in the key transport path.
func (c *Curve) RecoverY(y, x []uint64) bool {
	f := c.F
	g := f.New()
	f.Sqr(g, x)
	f.Add(g, g, c.A)
	f.Mul(g, g, x)
	f.Add(g, g, c.B)
	return f.Sqrt(y, g)
}

// NegAffine sets r = -p, i.e. (x, -y).
func (c *Curve) NegAffine(r, p *Point) {
	copy(r.X, p.X)
	c.F.Neg(r.Y, p.Y)
}

// CondNegAffine negates p in place when mask is all-ones. Constant-time.
func (c *Curve) CondNegAffine(p *Point, mask uint64) {
	t := c.F.New()
	c.F.Neg(t, p.Y)
	mp.CondCopy(p.Y, t, mask)
}

// Bytes serialises an affine point as X || Y, little-endian octets of the
// field width each.
func (c *Curve) Bytes(out []byte, p *Point) {
	f := c.F
	nb := f.Bytes()
	t := f.New()
	f.To(t, p.X)
	mp.Bytes(out[:nb], t)
	f.To(t, p.Y)
	mp.Bytes(out[nb:2*nb], t)
}

// SetBytes parses X || Y and validates the result against the curve
// equation.
func (c *Curve) SetBytes(p *Point, in []byte) error {
	f := c.F
	nb := f.Bytes()
	if len(in) != 2*nb {
		return errors.New("ec: bad point encoding length")
	}
	x := mp.New(f.Limbs())
	y := mp.New(f.Limbs())
	mp.SetBytes(x, in[:nb])
	mp.SetBytes(y, in[nb:])
	if mp.Cmp(x, f.Modulus()) >= 0 || mp.Cmp(y, f.Modulus()) >= 0 {
		return errors.New("ec: coordinate out of range")
	}
	f.From(p.X, x)
	f.From(p.Y, y)
	if !c.OnCurve(p) {
		return errors.New("ec: point not on curve")
	}
	return nil
}
