package mp

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func randN(t *testing.T, n int) []uint64 {
	t.Helper()
	b := make([]byte, 8*n)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return FromBytes(b)
}

func TestAddSubRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 4, 6, 8} {
		a := randN(t, n)
		b := randN(t, n)
		c := New(n)
		d := New(n)
		carry := Add(c, a, b)
		borrow := Sub(d, c, b)
		if borrow != carry {
			t.Errorf("n=%d: carry %d does not match borrow %d", n, carry, borrow)
		}
		if !Eq(d, a) {
			t.Errorf("n=%d: (a+b)-b != a", n)
		}
	}
}

func TestCmp(t *testing.T) {
	cases := []struct {
		a, b []uint64
		want int
	}{
		{[]uint64{0, 0}, []uint64{0, 0}, 0},
		{[]uint64{1, 0}, []uint64{0, 0}, 1},
		{[]uint64{0, 0}, []uint64{1, 0}, -1},
		{[]uint64{0, 1}, []uint64{^uint64(0), 0}, 1},
		{[]uint64{5, 7}, []uint64{9, 7}, -1},
	}
	for i, tc := range cases {
		if got := Cmp(tc.a, tc.b); got != tc.want {
			t.Errorf("case %d: Cmp = %d, want %d", i, got, tc.want)
		}
	}
}

func TestShiftInverse(t *testing.T) {
	a := randN(t, 4)
	a[3] >>= 7 // leave headroom
	c := New(4)
	d := New(4)
	ShHi(c, a, 7)
	ShLo(d, c, 7)
	if !Eq(d, a) {
		t.Error("ShLo(ShHi(a,7),7) != a")
	}
}

func TestMulDivRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		a := randN(t, n)
		b := randN(t, n)
		if IsZero(b) {
			b[0] = 1
		}
		prod := New(2 * n)
		Mul(prod, a, b)

		q := New(2*n + 1)
		r := New(n)
		Div(q, r, prod, b)
		if !IsZero(r) {
			t.Errorf("n=%d: (a*b) mod b != 0", n)
		}
		if !Eq(q[:n], a) || !IsZero(q[n:]) {
			t.Errorf("n=%d: (a*b) div b != a", n)
		}
	}
}

func TestSqrMatchesMul(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		a := randN(t, n)
		m := New(2 * n)
		s := New(2 * n)
		Mul(m, a, a)
		Sqr(s, a)
		if !Eq(m, s) {
			t.Errorf("n=%d: Sqr disagrees with Mul", n)
		}
	}
}

func TestDivKnownValues(t *testing.T) {
	// 0x1_00000000_00000005 / 0x2_00000003
	a := []uint64{5, 1}
	b := []uint64{0x200000003, 0}
	q := New(2)
	r := New(2)
	Div(q, r, a, b)
	// Verify q*b + r == a.
	check := New(4)
	Mul(check, q, b)
	carry := Add(check[:2], check[:2], r)
	if carry != 0 || !IsZero(check[2:]) || !Eq(check[:2], a) {
		t.Error("q*b + r != a")
	}
	if Cmp(r, b) >= 0 {
		t.Error("remainder not reduced")
	}
}

func TestModMulAgreesWithModOfProduct(t *testing.T) {
	// Property 5 of the arithmetic layer: (a*b mod m) built from reduced
	// operands equals the straight reduction of the full product.
	for _, n := range []int{2, 4} {
		a := randN(t, n)
		b := randN(t, n)
		m := randN(t, n)
		m[0] |= 1
		if IsW(m, 1) {
			m[1] = 2
		}
		ar := New(n)
		br := New(n)
		Mod(ar, a, m)
		Mod(br, b, m)

		c1 := New(n)
		c2 := New(n)
		MulMod(c1, a, b, m)
		MulMod(c2, ar, br, m)
		if !Eq(c1, c2) {
			t.Errorf("n=%d: modular multiplication is not congruence-stable", n)
		}
	}
}

func TestMontMulMatchesMulMod(t *testing.T) {
	for _, n := range []int{2, 4, 8} {
		m := randN(t, n)
		m[0] |= 1
		m0 := MontFactor(m)
		r2 := MontR2(m)

		a := New(n)
		b := New(n)
		Mod(a, randN(t, n), m)
		Mod(b, randN(t, n), m)

		// into Montgomery domain, multiply, back out
		am := New(n)
		bm := New(n)
		cm := New(n)
		c := New(n)
		MontMul(am, a, r2, m, m0)
		MontMul(bm, b, r2, m, m0)
		MontMul(cm, am, bm, m, m0)
		one := New(n)
		SetW(one, 1)
		MontMul(c, cm, one, m, m0)

		want := New(n)
		MulMod(want, a, b, m)
		if !Eq(c, want) {
			t.Errorf("n=%d: Montgomery product disagrees with plain reduction", n)
		}
	}
}

func TestInvMod(t *testing.T) {
	m := FromBytes([]byte{0x43}) // 67, prime
	a := New(1)
	c := New(1)
	for v := uint64(1); v < 67; v++ {
		SetW(a, v)
		if !InvMod(c, a, m) {
			t.Fatalf("%d should be invertible mod 67", v)
		}
		p := New(1)
		MulMod(p, a, c, m)
		if !IsW(p, 1) {
			t.Errorf("a * a^-1 != 1 for a=%d", v)
		}
	}
	// Non-invertible case.
	m15 := New(1)
	SetW(m15, 15)
	SetW(a, 5)
	if InvMod(c, a, m15) {
		t.Error("5 must not be invertible mod 15")
	}
}

func TestJacobi(t *testing.T) {
	// Quadratic residues mod 23: squares of 1..11.
	m := New(1)
	SetW(m, 23)
	isQR := map[uint64]bool{}
	for v := uint64(1); v < 23; v++ {
		isQR[v*v%23] = true
	}
	a := New(1)
	for v := uint64(1); v < 23; v++ {
		SetW(a, v)
		want := -1
		if isQR[v] {
			want = 1
		}
		if got := Jacobi(a, m); got != want {
			t.Errorf("Jacobi(%d/23) = %d, want %d", v, got, want)
		}
	}
	SetW(a, 0)
	if got := Jacobi(a, m); got != 0 {
		t.Errorf("Jacobi(0/23) = %d, want 0", got)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	a := FromBytes(b)
	out := make([]byte, len(b))
	Bytes(out, a)
	if !bytes.Equal(b, out) {
		t.Error("little-endian byte round-trip failed")
	}
}

func TestCondOps(t *testing.T) {
	a := []uint64{1, 2, 3}
	b := []uint64{9, 8, 7}
	c := append([]uint64(nil), a...)
	CondCopy(c, b, 0)
	if !Eq(c, a) {
		t.Error("CondCopy with zero mask must not write")
	}
	CondCopy(c, b, ^uint64(0))
	if !Eq(c, b) {
		t.Error("CondCopy with full mask must copy")
	}
	x := append([]uint64(nil), a...)
	y := append([]uint64(nil), b...)
	CondSwap(x, y, ^uint64(0))
	if !Eq(x, b) || !Eq(y, a) {
		t.Error("CondSwap with full mask must exchange")
	}
}

func TestRandNZMod(t *testing.T) {
	m := FromBytes([]byte{0x07, 0x01}) // 263
	a := New(len(m))
	for i := 0; i < 50; i++ {
		if err := RandNZMod(a, m, rand.Reader); err != nil {
			t.Fatal(err)
		}
		if IsZero(a) || Cmp(a, m) >= 0 {
			t.Fatal("sample out of [1, m-1]")
		}
	}
}
