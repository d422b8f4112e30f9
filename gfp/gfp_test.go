package gfp

import (
	"crypto/rand"
	"testing"

	"stb34101.dev/mp"
)

var testPrimes = [][]uint64{
	{0xFFFFFFFFFFFFFFC5},                 // 2^64 - 59
	{0xFFFFFFFFFFFFFF61, ^uint64(0)},     // 2^128 - 159
	{^uint64(0), 0x7FFFFFFFFFFFFFFF},     // 2^127 - 1, = 3 mod 4
	{0x43, 0, 0, 0},                      // 67 padded with zero limbs
}

func newField(t *testing.T, p []uint64) *Field {
	t.Helper()
	f, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func randElem(t *testing.T, f *Field) []uint64 {
	t.Helper()
	b := make([]byte, 8*f.Limbs())
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	a := mp.FromBytes(b)
	r := f.New()
	mp.Mod(r, a, f.Modulus())
	return r
}

func TestNewRejectsBadModulus(t *testing.T) {
	if _, err := New([]uint64{4}); err == nil {
		t.Error("even modulus must be rejected")
	}
	if _, err := New([]uint64{1}); err == nil {
		t.Error("modulus one must be rejected")
	}
}

func TestDomainRoundTrip(t *testing.T) {
	for _, p := range testPrimes {
		f := newField(t, p)
		a := randElem(t, f)
		m := f.New()
		back := f.New()
		f.From(m, a)
		f.To(back, m)
		if !mp.Eq(back, a) {
			t.Error("To(From(a)) != a")
		}
	}
}

func TestUnity(t *testing.T) {
	f := newField(t, testPrimes[0])
	one := f.New()
	f.SetUnity(one)
	if !f.IsUnity(one) {
		t.Error("unity does not satisfy IsUnity")
	}
	a := randElem(t, f)
	am := f.New()
	f.From(am, a)
	c := f.New()
	f.Mul(c, am, one)
	if !mp.Eq(c, am) {
		t.Error("a * 1 != a")
	}
}

func TestInv(t *testing.T) {
	for _, p := range testPrimes {
		f := newField(t, p)
		for i := 0; i < 8; i++ {
			a := randElem(t, f)
			if f.IsZero(a) {
				continue
			}
			am := f.New()
			f.From(am, a)
			inv := f.New()
			f.Inv(inv, am)
			c := f.New()
			f.Mul(c, am, inv)
			if !f.IsUnity(c) {
				t.Error("a * a^-1 != 1")
			}
		}
	}
}

func TestSqrt(t *testing.T) {
	for _, p := range testPrimes {
		if p[0]&3 != 3 {
			continue
		}
		f := newField(t, p)
		for i := 0; i < 8; i++ {
			a := randElem(t, f)
			am := f.New()
			f.From(am, a)
			sq := f.New()
			f.Sqr(sq, am)

			root := f.New()
			if !f.Sqrt(root, sq) {
				t.Fatal("square of an element must be a residue")
			}
			chk := f.New()
			f.Sqr(chk, root)
			if !mp.Eq(chk, sq) {
				t.Error("Sqrt(a^2)^2 != a^2")
			}
		}
	}
}

func TestArithmeticIdentities(t *testing.T) {
	f := newField(t, testPrimes[1])
	a := randElem(t, f)
	b := randElem(t, f)
	am, bm := f.New(), f.New()
	f.From(am, a)
	f.From(bm, b)

	// (a+b)(a-b) == a^2 - b^2
	sum, diff, lhs := f.New(), f.New(), f.New()
	f.Add(sum, am, bm)
	f.Sub(diff, am, bm)
	f.Mul(lhs, sum, diff)

	a2, b2, rhs := f.New(), f.New(), f.New()
	f.Sqr(a2, am)
	f.Sqr(b2, bm)
	f.Sub(rhs, a2, b2)
	if !mp.Eq(lhs, rhs) {
		t.Error("(a+b)(a-b) != a^2 - b^2")
	}

	// Half(Dbl(a)) == a
	d, h := f.New(), f.New()
	f.Dbl(d, am)
	f.Half(h, d)
	if !mp.Eq(h, am) {
		t.Error("Half(Dbl(a)) != a")
	}
}
