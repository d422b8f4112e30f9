// Package bash implements the STB 34.101.77 sponge family: the 1536-bit
// permutation bash-f, the bash-hash functions and the programmable
// sponge bash-prg.
package bash

import (
	"encoding/binary"
	"math/bits"
)

// StateSize is the permutation width in bytes.
const StateSize = 192

// Round constants, generated by a word LFSR: each constant is the
// previous one shifted right with feedback 0xDC2BE1997FE0D8AE on a set
// low bit.
var roundC = [24]uint64{
	0x3BF5080AC8BA94B1, 0xC1D1659C1BBD92F6, 0x60E8B2CE0DDEC97B, 0xEC5FB8FE790FBC13,
	0xAA043DE6436706A7, 0x8929FF6A5E535BFD, 0x98BF1E2C50C97550, 0x4C5F8F162864BAA8,
	0x262FC78B14325D54, 0x1317E3C58A192EAA, 0x098BF1E2C50C9755, 0xD8EE19681D669304,
	0x6C770CB40EB34982, 0x363B865A0759A4C1, 0xC73622B47C4C0ACE, 0x639B115A3E260567,
	0xEDE6693460F3DA1D, 0xAAD8D5034F9935A0, 0x556C6A81A7CC9AD0, 0x2AB63540D3E64D68,
	0x155B1AA069F326B4, 0x0AAD8D5034F9935A, 0x0556C6A81A7CC9AD, 0xDE8082CD72DEBC78,
}

// Per-column rotation amounts of the bash-s round function.
var (
	rotM1 = [8]int{8, 56, 8, 56, 8, 56, 8, 56}
	rotN1 = [8]int{53, 51, 37, 3, 21, 19, 5, 35}
	rotM2 = [8]int{14, 34, 46, 2, 14, 34, 46, 2}
	rotN2 = [8]int{1, 7, 49, 23, 33, 39, 17, 55}
)

// Inter-round lane permutation: lane i of the next round reads lane
// perm[i] of the current one.
var perm = [24]int{
	15, 10, 9, 12, 11, 14, 13, 8,
	17, 16, 19, 18, 21, 20, 23, 22,
	6, 3, 0, 5, 2, 7, 4, 1,
}

// F applies the bash-f permutation to a 192-byte state in place. Lanes
// are little-endian 64-bit words.
func F(s *[StateSize]byte) {
	var w [24]uint64
	for i := range w {
		w[i] = binary.LittleEndian.Uint64(s[8*i:])
	}
	for r := 0; r < 24; r++ {
		for i := 0; i < 8; i++ {
			w0, w1, w2 := w[i], w[i+8], w[i+16]

			t2 := bits.RotateLeft64(w0, rotM1[i])
			w0 ^= w1 ^ w2
			t1 := w1 ^ bits.RotateLeft64(w0, rotN1[i])
			w1 = t1 ^ t2
			w2 ^= bits.RotateLeft64(w2, rotM2[i]) ^ bits.RotateLeft64(t1, rotN2[i])

			w[i] = w0 ^ (^w2 | w1)
			w[i+8] = w1 ^ (w0 | w2)
			w[i+16] = w2 ^ (w0 & w1)
		}
		var t [24]uint64
		for i, p := range perm {
			t[i] = w[p]
		}
		w = t
		w[23] ^= roundC[r]
	}
	for i := range w {
		binary.LittleEndian.PutUint64(s[8*i:], w[i])
	}
}
