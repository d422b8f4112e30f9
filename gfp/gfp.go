// Package gfp implements the prime field GF(p) used by the curve layer.
// A Field fixes the modulus once and carries the Montgomery constants; all
// element operations are constant-time in the limb width.
package gfp

import (
	"errors"

	"stb34101.dev/mp"
)

// Field describes GF(p). Elements are little-endian limb slices of
// exactly Limbs() limbs, held in the Montgomery domain between From and To
// conversions.
type Field struct {
	p    []uint64 // modulus
	m0   uint64   // -p^-1 mod 2^64
	r    []uint64 // R mod p, the unity element in-domain
	r2   []uint64 // R^2 mod p
	pp1d4 []uint64 // (p+1)/4 when p = 3 mod 4, nil otherwise
}

// New creates a field descriptor from the little-endian modulus p.
// p must be odd and greater than one.
func New(p []uint64) (*Field, error) {
	if len(p) == 0 || p[0]&1 == 0 {
		return nil, errors.New("gfp: modulus must be odd")
	}
	if mp.CmpW(p, 1) <= 0 {
		return nil, errors.New("gfp: modulus must exceed one")
	}
	f := &Field{
		p:  append([]uint64(nil), p...),
		m0: mp.MontFactor(p),
		r:  mp.MontR(p),
		r2: mp.MontR2(p),
	}
	if p[0]&3 == 3 {
		// (p+1)/4 = (p >> 2) + 1 since the two low bits are set.
		e := mp.New(len(p))
		mp.ShLo(e, p, 2)
		mp.AddW(e, e, 1)
		f.pp1d4 = e
	}
	return f, nil
}

// Limbs returns the limb count of a field element.
func (f *Field) Limbs() int { return len(f.p) }

// Bytes returns the octet width of the modulus.
func (f *Field) Bytes() int { return (mp.Bits(f.p) + 7) / 8 }

// Modulus returns the modulus limbs. Callers must not modify them.
func (f *Field) Modulus() []uint64 { return f.p }

// New returns a zero element.
func (f *Field) New() []uint64 { return mp.New(len(f.p)) }

// From carries a plain residue a < p into the Montgomery domain.
func (f *Field) From(c, a []uint64) {
	mp.MontMul(c, a, f.r2, f.p, f.m0)
}

// To carries a Montgomery-domain element back to a plain residue.
func (f *Field) To(c, a []uint64) {
	one := mp.New(len(f.p))
	one[0] = 1
	mp.MontMul(c, a, one, f.p, f.m0)
}

// SetUnity sets c to the in-domain representation of 1.
func (f *Field) SetUnity(c []uint64) { copy(c, f.r) }

// IsUnity reports whether a is the in-domain 1, in constant time.
func (f *Field) IsUnity(a []uint64) bool { return mp.Eq(a, f.r) }

// IsZero reports whether a is zero, in constant time.
func (f *Field) IsZero(a []uint64) bool { return mp.IsZero(a) }

func (f *Field) Add(c, a, b []uint64) { mp.AddMod(c, a, b, f.p) }
func (f *Field) Sub(c, a, b []uint64) { mp.SubMod(c, a, b, f.p) }
func (f *Field) Neg(c, a []uint64)    { mp.NegMod(c, a, f.p) }
func (f *Field) Dbl(c, a []uint64)    { mp.AddMod(c, a, a, f.p) }
func (f *Field) Half(c, a []uint64)   { mp.HalveMod(c, a, f.p) }

func (f *Field) Mul(c, a, b []uint64) { mp.MontMul(c, a, b, f.p, f.m0) }
func (f *Field) Sqr(c, a []uint64)    { mp.MontSqr(c, a, f.p, f.m0) }

// MulW multiplies an in-domain element by a small plain integer.
func (f *Field) MulW(c, a []uint64, w uint64) {
	t := f.New()
	d := f.New()
	copy(d, a)
	for w != 0 {
		if w&1 == 1 {
			f.Add(t, t, d)
		}
		f.Dbl(d, d)
		w >>= 1
	}
	copy(c, t)
}

// Pow sets c = a^e in-domain by a left-to-right ladder that touches the
// table through masked copies only; e may be secret.
func (f *Field) Pow(c, a, e []uint64) {
	n := len(f.p)
	acc := f.New()
	f.SetUnity(acc)
	t := mp.New(n)
	for i := 64*len(e) - 1; i >= 0; i-- {
		f.Sqr(acc, acc)
		f.Mul(t, acc, a)
		mp.CondCopy(acc, t, mp.MaskBit(mp.Bit(e, i)))
	}
	copy(c, acc)
}

// Inv sets c = a^-1 via Fermat: a^(p-2). The exponent is fixed and
// public, so the ladder's masked structure costs nothing extra.
func (f *Field) Inv(c, a []uint64) {
	e := mp.New(len(f.p))
	mp.SubW(e, f.p, 2)
	f.Pow(c, a, e)
}

// Div sets c = a / b.
func (f *Field) Div(c, a, b []uint64) {
	t := f.New()
	f.Inv(t, b)
	f.Mul(c, a, t)
}

// Sqrt sets c to a square root of a when p = 3 mod 4, computing
// a^((p+1)/4). Returns false when a is not a quadratic residue or the
// modulus does not support the closed form; c is then unspecified.
func (f *Field) Sqrt(c, a []uint64) bool {
	if f.pp1d4 == nil {
		return false
	}
	r := f.New()
	f.Pow(r, a, f.pp1d4)
	chk := f.New()
	f.Sqr(chk, r)
	if !mp.Eq(chk, a) {
		return false
	}
	copy(c, r)
	return true
}
