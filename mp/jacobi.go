package mp

// Jacobi computes the Jacobi symbol (a/m) for odd m > 0 by iterated
// halving and quadratic reciprocity. Returns -1, 0 or 1. Not
// constant-time; the symbol is only ever taken of public values.
func Jacobi(a, m []uint64) int {
	n := len(m)
	u := make([]uint64, n)
	v := make([]uint64, n)
	Mod(u, a, m)
	copy(v, m)
	k := 1

	for {
		if IsW(v, 1) {
			return k
		}
		if IsZero(u) {
			return 0
		}
		// Strip factors of two off u; each pair leaves the symbol
		// unchanged, an odd count flips it when v = ±3 mod 8.
		s := 0
		for u[0]&1 == 0 {
			ShLo(u, u, 1)
			s++
		}
		if s&1 == 1 {
			switch v[0] & 7 {
			case 3, 5:
				k = -k
			}
		}
		// Reciprocity: (u/v) = (v/u) unless u = v = 3 mod 4.
		if u[0]&3 == 3 && v[0]&3 == 3 {
			k = -k
		}
		u, v = v, u
		t := make([]uint64, n)
		Mod(t, u, v)
		copy(u, t)
	}
}
