package ec

// SmallOddMults computes the affine odd multiples P, 3P, ..., (2^w - 1)P
// of a point of odd prime order, plus 2P, at the cost of a single field
// inversion. Multiples are expressed through the division polynomials
// W_n evaluated at P: W_n equals the classical psi_n for odd n and
// psi_n/(2y) for even n, which keeps every recurrence division-free.
//
// For odd n:
//
//	x_n = x - (2y)^2 * W_{n-1} * W_{n+1} / W_n^2
//	y_n = y * W_{2n} / W_n^4
//
// and 2P falls out of the same pass:
//
//	x_2 = x - W_3 / (2y)^2,  y_2 = W_4 / (2 * (2y)^3).
func (c *Curve) SmallOddMults(p *Point, w int) (table []Point, da *Point) {
	f := c.F
	count := 1 << (w - 1) // table entries, (2i+1)P for i = 0..count-1
	nmax := 2 * (2*count - 1)

	x, y, a, b := p.X, p.Y, c.A, c.B

	// Division polynomial values W_0 .. W_nmax.
	W := make([][]uint64, nmax+1)
	for i := range W {
		W[i] = f.New()
	}
	f.SetUnity(W[1])
	f.SetUnity(W[2])

	twoY := f.New()
	f.Dbl(twoY, y)
	twoY4 := f.New() // (2y)^4
	f.Sqr(twoY4, twoY)
	f.Sqr(twoY4, twoY4)

	x2, x3q, x4, x6 := f.New(), f.New(), f.New(), f.New()
	f.Sqr(x2, x)
	f.Mul(x3q, x2, x)
	f.Sqr(x4, x2)
	f.Sqr(x6, x3q)

	a2, a3, ab, b2 := f.New(), f.New(), f.New(), f.New()
	f.Sqr(a2, a)
	f.Mul(a3, a2, a)
	f.Mul(ab, a, b)
	f.Sqr(b2, b)

	// W_3 = 3x^4 + 6ax^2 + 12bx - a^2
	t, u := f.New(), f.New()
	f.MulW(t, x4, 3)
	f.Mul(u, a, x2)
	f.MulW(u, u, 6)
	f.Add(t, t, u)
	f.Mul(u, b, x)
	f.MulW(u, u, 12)
	f.Add(t, t, u)
	f.Sub(W[3], t, a2)

	// W_4 = 2*(x^6 + 5ax^4 + 20bx^3 - 5a^2x^2 - 4abx - 8b^2 - a^3)
	if nmax >= 4 {
		f.Mul(t, a, x4)
		f.MulW(t, t, 5)
		f.Add(t, t, x6)
		f.Mul(u, b, x3q)
		f.MulW(u, u, 20)
		f.Add(t, t, u)
		f.Mul(u, a2, x2)
		f.MulW(u, u, 5)
		f.Sub(t, t, u)
		f.Mul(u, ab, x)
		f.MulW(u, u, 4)
		f.Sub(t, t, u)
		f.MulW(u, b2, 8)
		f.Sub(t, t, u)
		f.Sub(t, t, a3)
		f.Dbl(W[4], t)
	}

	// Recurrences upward from W_5.
	s1, s2 := f.New(), f.New()
	for n := 5; n <= nmax; n++ {
		if n&1 == 1 {
			i := n / 2 // n = 2i+1
			// W_{i+2}*W_i^3 and W_{i-1}*W_{i+1}^3, the (2y)^4 factor
			// landing on the even-index pair.
			f.Sqr(s1, W[i])
			f.Mul(s1, s1, W[i])
			f.Mul(s1, s1, W[i+2])
			f.Sqr(s2, W[i+1])
			f.Mul(s2, s2, W[i+1])
			f.Mul(s2, s2, W[i-1])
			if i&1 == 1 {
				f.Mul(s2, s2, twoY4)
			} else {
				f.Mul(s1, s1, twoY4)
			}
			f.Sub(W[n], s1, s2)
		} else {
			i := n / 2 // n = 2i, i >= 3
			f.Sqr(s1, W[i-1])
			f.Mul(s1, s1, W[i+2])
			f.Sqr(s2, W[i+1])
			f.Mul(s2, s2, W[i-2])
			f.Sub(s1, s1, s2)
			f.Mul(W[n], s1, W[i])
		}
	}

	// One simultaneous inversion covers 2y and every odd-index W.
	toInvert := make([][]uint64, 0, count+1)
	toInvert = append(toInvert, twoY)
	for i := 1; i < count; i++ {
		toInvert = append(toInvert, W[2*i+1])
	}
	inverses := c.batchInvert(toInvert)
	inv2y := inverses[0]

	table = make([]Point, count)
	table[0] = Point{X: f.New(), Y: f.New()}
	table[0].Set(p)

	twoY2 := f.New()
	f.Sqr(twoY2, twoY)
	iw2, iw4, xt, yt := f.New(), f.New(), f.New(), f.New()
	for i := 1; i < count; i++ {
		n := 2*i + 1
		iw := inverses[i]
		f.Sqr(iw2, iw)
		f.Sqr(iw4, iw2)

		f.Mul(xt, W[n-1], W[n+1])
		f.Mul(xt, xt, twoY2)
		f.Mul(xt, xt, iw2)
		f.Sub(xt, x, xt)

		f.Mul(yt, W[2*n], iw4)
		f.Mul(yt, yt, y)

		table[i] = Point{X: f.New(), Y: f.New()}
		copy(table[i].X, xt)
		copy(table[i].Y, yt)
	}

	// 2P from the same inversion.
	inv2y2 := f.New()
	f.Sqr(inv2y2, inv2y)
	da = &Point{X: f.New(), Y: f.New()}
	f.Mul(t, W[3], inv2y2)
	f.Sub(da.X, x, t)
	f.Mul(t, W[4], inv2y2)
	f.Mul(t, t, inv2y)
	f.Half(da.Y, t)
	return table, da
}

// batchInvert inverts every element through a single field inversion
// using the Montgomery trick: build running products, invert the total,
// then peel the individual inverses off in reverse.
func (c *Curve) batchInvert(xs [][]uint64) [][]uint64 {
	f := c.F
	n := len(xs)
	out := make([][]uint64, n)
	if n == 0 {
		return out
	}
	prefix := make([][]uint64, n)
	acc := f.New()
	f.SetUnity(acc)
	for i, v := range xs {
		prefix[i] = f.New()
		copy(prefix[i], acc)
		f.Mul(acc, acc, v)
	}
	inv := f.New()
	f.Inv(inv, acc)
	for i := n - 1; i >= 0; i-- {
		out[i] = f.New()
		f.Mul(out[i], inv, prefix[i])
		f.Mul(inv, inv, xs[i])
	}
	return out
}
