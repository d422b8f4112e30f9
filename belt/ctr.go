package belt

import (
	"crypto/cipher"

	"github.com/pkg/errors"
)

// ctrStream keeps the encrypted counter s and the keystream block
// derived from it. pos counts consumed keystream bytes; starting it at
// BlockSize forces a counter step before the first byte is produced.
type ctrStream struct {
	c   *Cipher
	s   [BlockSize]byte
	ks  [BlockSize]byte
	pos int
}

var _ cipher.Stream = (*ctrStream)(nil)

// NewCTR returns a counter-mode stream over c with a 128-bit
// synchronization value. The counter seed is the encrypted iv.
func NewCTR(c *Cipher, iv []byte) (cipher.Stream, error) {
	if len(iv) != BlockSize {
		return nil, errors.Errorf("belt: invalid iv size %d", len(iv))
	}
	st := &ctrStream{c: c, pos: BlockSize}
	c.Encrypt(st.s[:], iv)
	return st, nil
}

func (st *ctrStream) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("belt: output shorter than input")
	}
	for i := range src {
		if st.pos == BlockSize {
			st.step()
		}
		dst[i] = src[i] ^ st.ks[st.pos]
		st.pos++
	}
}

// step increments the counter as a little-endian 128-bit integer and
// encrypts it into the keystream block.
func (st *ctrStream) step() {
	for i := 0; i < BlockSize; i++ {
		st.s[i]++
		if st.s[i] != 0 {
			break
		}
	}
	st.c.Encrypt(st.ks[:], st.s[:])
	st.pos = 0
}

// CTR encrypts or decrypts src in one call, writing the result to dst.
func CTR(dst, src, key, iv []byte) error {
	c, err := NewCipher(key)
	if err != nil {
		return err
	}
	defer c.Wipe()
	st, err := NewCTR(c, iv)
	if err != nil {
		return err
	}
	st.XORKeyStream(dst, src)
	return nil
}
