package belt

import (
	"encoding/binary"
	"hash"
)

// MACSize is the length of an authentication code in bytes.
const MACSize = 8

// mac computes the CBC-style authentication code. The last material
// block is always held in buf so that Sum can apply the finalization
// keys; n is therefore in 0..BlockSize with n == BlockSize only when
// more data may still arrive.
type mac struct {
	c   *Cipher
	s   [BlockSize]byte
	r   [BlockSize]byte
	buf [BlockSize]byte
	n   int
}

var _ hash.Hash = (*mac)(nil)

// NewMAC returns an authentication code keyed by c.
func NewMAC(c *Cipher) hash.Hash {
	m := &mac{c: c}
	m.c.Encrypt(m.r[:], m.s[:])
	return m
}

func (m *mac) Size() int      { return MACSize }
func (m *mac) BlockSize() int { return BlockSize }

func (m *mac) Reset() {
	for i := range m.s {
		m.s[i] = 0
		m.buf[i] = 0
	}
	m.n = 0
}

func (m *mac) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		if m.n == BlockSize {
			m.fold()
		}
		t := copy(m.buf[m.n:], p)
		m.n += t
		p = p[t:]
	}
	return written, nil
}

// fold absorbs the buffered block as a non-final one.
func (m *mac) fold() {
	for i := range m.s {
		m.s[i] ^= m.buf[i]
	}
	m.c.Encrypt(m.s[:], m.s[:])
	m.n = 0
}

// Sum finalizes a copy of the state so that further writes continue the
// original computation.
func (m *mac) Sum(b []byte) []byte {
	s := m.s
	var x [BlockSize]byte
	copy(x[:], m.buf[:m.n])
	if m.n == BlockSize {
		phi1(&x, &m.r)
	} else {
		x[m.n] ^= 0x80
		phi2(&x, &m.r)
	}
	for i := range s {
		s[i] ^= x[i]
	}
	m.c.Encrypt(s[:], s[:])
	return append(b, s[:MACSize]...)
}

// phi1 folds r as (r2, r3, r4, r1^r2) into x.
func phi1(x, r *[BlockSize]byte) {
	r1 := binary.LittleEndian.Uint32(r[0:])
	r2 := binary.LittleEndian.Uint32(r[4:])
	for i := 0; i < 12; i++ {
		x[i] ^= r[i+4]
	}
	w := binary.LittleEndian.Uint32(x[12:]) ^ r1 ^ r2
	binary.LittleEndian.PutUint32(x[12:], w)
}

// phi2 folds r as (r1^r4, r1, r2, r3) into x.
func phi2(x, r *[BlockSize]byte) {
	r1 := binary.LittleEndian.Uint32(r[0:])
	r4 := binary.LittleEndian.Uint32(r[12:])
	w := binary.LittleEndian.Uint32(x[0:]) ^ r1 ^ r4
	binary.LittleEndian.PutUint32(x[0:], w)
	for i := 4; i < BlockSize; i++ {
		x[i] ^= r[i-4]
	}
}

// MAC computes the authentication code of src in one call.
func MAC(src, key []byte) ([MACSize]byte, error) {
	var out [MACSize]byte
	c, err := NewCipher(key)
	if err != nil {
		return out, err
	}
	defer c.Wipe()
	m := NewMAC(c)
	m.Write(src)
	copy(out[:], m.Sum(nil))
	return out, nil
}
