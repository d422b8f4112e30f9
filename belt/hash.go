package belt

import (
	"encoding/binary"
	"hash"

	stb "stb34101.dev"
)

// HashSize is the length of a hash value in bytes.
const HashSize = 32

// HashBlockSize is the hashing rate in bytes.
const HashBlockSize = 32

// compress maps a 64-byte input x1||x2||x3||x4 to the 16-byte chaining
// word s and the 32-byte output y1||y2. Block cipher keys are drawn
// from the input halves, so no long-lived cipher instance is kept.
func compress(x *[64]byte) (s [16]byte, y [32]byte) {
	var t [16]byte
	for i := 0; i < 16; i++ {
		t[i] = x[i] ^ x[16+i]
	}
	c34, _ := NewCipher(x[32:64])
	c34.Encrypt(s[:], t[:])
	c34.Wipe()
	for i := 0; i < 16; i++ {
		s[i] ^= t[i]
	}

	var k [32]byte
	copy(k[:16], s[:])
	copy(k[16:], x[48:64])
	c1, _ := NewCipher(k[:])
	c1.Encrypt(y[:16], x[0:16])
	c1.Wipe()
	for i := 0; i < 16; i++ {
		y[i] ^= x[i]
	}

	for i := 0; i < 16; i++ {
		k[i] = ^s[i]
	}
	copy(k[16:], x[32:48])
	c2, _ := NewCipher(k[:])
	c2.Encrypt(y[16:32], x[16:32])
	c2.Wipe()
	for i := 0; i < 16; i++ {
		y[16+i] ^= x[16+i]
	}

	stb.Wipe(t[:])
	stb.Wipe(k[:])
	return
}

// digest is the belt hashing state. s accumulates the chaining words,
// h is the current hash variable and total counts absorbed bytes.
type digest struct {
	s     [16]byte
	h     [32]byte
	buf   [HashBlockSize]byte
	n     int
	total uint64
}

var _ hash.Hash = (*digest)(nil)

// NewHash returns a fresh hashing state.
func NewHash() hash.Hash {
	d := &digest{}
	d.Reset()
	return d
}

func (d *digest) Size() int      { return HashSize }
func (d *digest) BlockSize() int { return HashBlockSize }

func (d *digest) Reset() {
	for i := range d.s {
		d.s[i] = 0
	}
	copy(d.h[:], hTab[:32])
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.n = 0
	d.total = 0
}

func (d *digest) Write(p []byte) (int, error) {
	written := len(p)
	d.total += uint64(len(p))
	for len(p) > 0 {
		t := copy(d.buf[d.n:], p)
		d.n += t
		p = p[t:]
		if d.n == HashBlockSize {
			d.step()
		}
	}
	return written, nil
}

// step absorbs the buffered block into s and h.
func (d *digest) step() {
	var x [64]byte
	copy(x[:32], d.buf[:])
	copy(x[32:], d.h[:])
	si, y := compress(&x)
	for i := range d.s {
		d.s[i] ^= si[i]
	}
	d.h = y
	d.n = 0
	stb.Wipe(x[:])
}

// Sum finalizes a copy of the state. The trailer packs the bit length
// of the message, the chaining accumulator and the hash variable.
func (d *digest) Sum(b []byte) []byte {
	c := *d
	if c.n > 0 {
		for i := c.n; i < HashBlockSize; i++ {
			c.buf[i] = 0
		}
		c.step()
	}
	var x [64]byte
	binary.LittleEndian.PutUint64(x[:8], c.total*8)
	copy(x[16:32], c.s[:])
	copy(x[32:], c.h[:])
	_, y := compress(&x)
	stb.Wipe(x[:])
	return append(b, y[:]...)
}

// Hash computes the hash value of src in one call.
func Hash(src []byte) [HashSize]byte {
	d := NewHash()
	d.Write(src)
	var out [HashSize]byte
	copy(out[:], d.Sum(nil))
	return out
}
