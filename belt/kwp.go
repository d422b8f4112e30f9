package belt

import (
	"crypto/subtle"

	"github.com/pkg/errors"

	stb "stb34101.dev"
)

// KWPHeaderSize is the length of a key wrap header in bytes.
const KWPHeaderSize = 16

// KWPWrap protects the key material x under the key encryption key kek,
// binding the 16-byte header i. The token is x||i passed through the
// wide-block transformation and is 16 bytes longer than x.
func KWPWrap(x, i, kek []byte) ([]byte, error) {
	if len(x) < BlockSize || len(x)%BlockSize != 0 {
		return nil, errors.Errorf("belt: invalid wrapped key size %d", len(x))
	}
	if len(i) != KWPHeaderSize {
		return nil, errors.Errorf("belt: invalid wrap header size %d", len(i))
	}
	c, err := NewCipher(kek)
	if err != nil {
		return nil, err
	}
	defer c.Wipe()
	token := make([]byte, len(x)+KWPHeaderSize)
	copy(token, x)
	copy(token[len(x):], i)
	if err := WBLEncrypt(c, token); err != nil {
		stb.Wipe(token)
		return nil, err
	}
	return token, nil
}

// KWPUnwrap recovers key material from a token produced by KWPWrap.
// A header mismatch yields ErrBadKeyToken and no key material.
func KWPUnwrap(token, i, kek []byte) ([]byte, error) {
	if len(token) < 2*BlockSize || len(token)%BlockSize != 0 {
		return nil, errors.Errorf("belt: invalid key token size %d", len(token))
	}
	if len(i) != KWPHeaderSize {
		return nil, errors.Errorf("belt: invalid wrap header size %d", len(i))
	}
	c, err := NewCipher(kek)
	if err != nil {
		return nil, err
	}
	defer c.Wipe()
	buf := make([]byte, len(token))
	copy(buf, token)
	if err := WBLDecrypt(c, buf); err != nil {
		stb.Wipe(buf)
		return nil, err
	}
	n := len(buf) - KWPHeaderSize
	if subtle.ConstantTimeCompare(buf[n:], i) != 1 {
		stb.Wipe(buf)
		return nil, stb.ErrBadKeyToken
	}
	x := buf[:n]
	stb.Wipe(buf[n:])
	return x, nil
}
