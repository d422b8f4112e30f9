package mp

var smallPrimes = []uint64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61,
	67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137,
	139, 149, 151, 157, 163, 167, 173, 179, 181, 191, 193, 197, 199,
}

// mrBases covers every composite below 3.3*10^24 deterministically and is
// the conventional fixed-base choice for validating honest parameters.
var mrBases = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// IsProbablePrime runs trial division by small primes followed by
// Miller-Rabin with fixed bases. Intended for validating public
// parameters; not constant-time.
func IsProbablePrime(a []uint64) bool {
	if IsZero(a) || IsW(a, 1) {
		return false
	}
	for _, p := range smallPrimes {
		if IsW(a, p) {
			return true
		}
		if ModW(a, p) == 0 {
			return false
		}
	}

	n := len(a)
	// a-1 = d * 2^s
	d := New(n)
	SubW(d, a, 1)
	s := 0
	for d[0]&1 == 0 {
		ShLo(d, d, 1)
		s++
	}

	am1 := New(n)
	SubW(am1, a, 1)
	b := New(n)
	x := New(n)
	for _, base := range mrBases {
		SetW(b, base)
		PowMod(x, b, d, a)
		if IsW(x, 1) || Eq(x, am1) {
			continue
		}
		witness := true
		for i := 0; i < s-1; i++ {
			SqrMod(x, x, a)
			if Eq(x, am1) {
				witness = false
				break
			}
		}
		if witness {
			return false
		}
	}
	return true
}
