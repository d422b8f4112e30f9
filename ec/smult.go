package ec

import (
	"errors"

	stb "stb34101.dev"
	"stb34101.dev/mp"
)

// windowWidth picks the table width from the scalar bit length: 4 up to
// 256 bits, 5 up to 384, 6 beyond.
func windowWidth(bits int) int {
	switch {
	case bits <= 256:
		return 4
	case bits <= 384:
		return 5
	}
	return 6
}

// gather copies table[idx] into dst by scanning the whole table under
// arithmetic masks. idx never reaches a branch or a memory index.
func gather(dst *Point, table []Point, idx uint64) {
	for i := range table {
		m := ^mp.Mask(uint64(i) ^ idx)
		mp.CondCopy(dst.X, table[i].X, m)
		mp.CondCopy(dst.Y, table[i].Y, m)
	}
}

// MulPoint sets r = d*p for d in [1, q-1], constant-time in d. The
// scalar is first forced odd (d or q-d, compensated by a final masked
// negation), recoded into odd signed digits and driven through the
// precomputed odd multiples of p; the last addition goes through the
// complete formulas so no exceptional pair can surface.
func (c *Curve) MulPoint(r *Point, p *Point, d []uint64) error {
	q := c.Order
	n := len(q)
	if len(d) != n {
		return errors.New("ec: scalar width mismatch")
	}
	qBits := mp.Bits(q)
	w := windowWidth(qBits)

	// dd = d odd ? d : q - d
	dd := mp.New(n)
	t := mp.New(n)
	copy(dd, d)
	mp.Sub(t, q, d)
	dIsEven := ^mp.MaskBit(d[0])
	mp.CondCopy(dd, t, dIsEven)

	table, _ := c.SmallOddMults(p, w)

	// Regular odd signed-digit recoding: every digit lands in
	// {+-1, +-3, ..., +-(2^w-1)}.
	k := (qBits+w-1)/w + 1
	idx := make([]uint64, k)
	neg := make([]uint64, k)
	u := mp.New(n)
	copy(u, dd)
	lowMask := uint64(1)<<(w+1) - 1
	half := uint64(1) << w
	for j := 0; j < k-1; j++ {
		tt := u[0] & lowMask
		pos := -(tt >> w) // all-ones when the digit is positive
		ap := tt - half
		an := half - tt
		abs := ap&pos | an&^pos
		idx[j] = abs >> 1
		neg[j] = ^pos
		// u = (u - (tt - half)) / 2^w, branch-free
		mp.SubW(u, u, tt)
		mp.AddW(u, u, half)
		mp.ShLo(u, u, uint(w))
	}
	idx[k-1] = u[0] >> 1 // residual digit, always positive and odd
	neg[k-1] = 0

	// Ladder, most significant digit first.
	e := c.NewPoint()
	gather(e, table, idx[k-1])
	c.CondNegAffine(e, neg[k-1])
	acc := c.NewJac()
	c.FromAffine(acc, e)

	for j := k - 2; j >= 1; j-- {
		for i := 0; i < w; i++ {
			c.Dbl(acc, acc)
		}
		gather(e, table, idx[j])
		c.CondNegAffine(e, neg[j])
		c.AddAffine(acc, acc, e)
	}

	// Final digit through the complete formulas.
	for i := 0; i < w; i++ {
		c.Dbl(acc, acc)
	}
	gather(e, table, idx[0])
	c.CondNegAffine(e, neg[0])
	h := c.NewHom()
	c.AddCompleteJA(h, acc, e)
	if !c.HToA(r, h) {
		return errors.New("ec: scalar multiple is the point at infinity")
	}
	c.CondNegAffine(r, dIsEven)

	stb.WipeWords(u)
	stb.WipeWords(dd)
	for j := range idx {
		idx[j], neg[j] = 0, 0
	}
	return nil
}

// MulG sets r = d*G.
func (c *Curve) MulG(r *Point, d []uint64) error {
	return c.MulPoint(r, &c.G, d)
}

// MulAddVartime sets r = u*a + v*b sharing the doubling chain between
// both scalars (Shamir's trick). Variable-time: only public inputs go
// through here, signature verification being the caller. Reports false
// when the sum is the point at infinity.
func (c *Curve) MulAddVartime(r *Point, a *Point, u []uint64, b *Point, v []uint64) bool {
	ab := c.NewJac()
	abA := c.NewPoint()
	t := c.NewJac()
	c.FromAffine(t, a)
	c.AddAffine(ab, t, b)
	haveSum := c.ToAffine(abA, ab)

	acc := c.NewJac()
	bits := mp.Bits(u)
	if vb := mp.Bits(v); vb > bits {
		bits = vb
	}
	for i := bits - 1; i >= 0; i-- {
		c.Dbl(acc, acc)
		ub := mp.Bit(u, i) == 1
		vb := mp.Bit(v, i) == 1
		switch {
		case ub && vb:
			if haveSum {
				c.AddAffine(acc, acc, abA)
			}
		case ub:
			c.AddAffine(acc, acc, a)
		case vb:
			c.AddAffine(acc, acc, b)
		}
	}
	return c.ToAffine(r, acc)
}

// MulNaive sets r = d*p by doubling and adding, variable-time. Test and
// validation helper; d must not be secret.
func (c *Curve) MulNaive(r *Point, p *Point, d []uint64) bool {
	acc := c.NewJac()
	for i := mp.Bits(d) - 1; i >= 0; i-- {
		c.Dbl(acc, acc)
		if mp.Bit(d, i) == 1 {
			c.AddAffine(acc, acc, p)
		}
	}
	return c.ToAffine(r, acc)
}
