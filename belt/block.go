// Package belt implements the STB 34.101.31 block cipher and the modes
// of it that the signature and key-transport layers consume: counter
// encryption, authentication codes, hashing, wide-block wrapping and
// key repacking.
package belt

import (
	"crypto/cipher"
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"
)

// BlockSize is the cipher block size in bytes.
const BlockSize = 16

// The substitution table. The conventional test strings of the
// standards family are prefixes of this table.
var hTab = [256]byte{
	0xB1, 0x94, 0xBA, 0xC8, 0x0A, 0x08, 0xF5, 0x3B, 0x36, 0x6D, 0x00, 0x8E, 0x58, 0x4A, 0x5D, 0xE4,
	0x85, 0x04, 0xFA, 0x9D, 0x1B, 0xB6, 0xC7, 0xAC, 0x25, 0x2E, 0x72, 0xC2, 0x02, 0xFD, 0xCE, 0x0D,
	0x5B, 0xE3, 0xD6, 0x12, 0x17, 0xB9, 0x61, 0x81, 0xFE, 0x67, 0x86, 0xAD, 0x71, 0x6B, 0x89, 0x0B,
	0x5C, 0xB0, 0xC0, 0xFF, 0x33, 0xC3, 0x56, 0xB8, 0x35, 0xC4, 0x05, 0xAE, 0xD8, 0xE0, 0x7F, 0x99,
	0xE1, 0x2B, 0xDC, 0x1A, 0xE2, 0x82, 0x57, 0xEC, 0x70, 0x3F, 0xCC, 0xF0, 0x95, 0xEE, 0x8D, 0xF1,
	0xC1, 0xAB, 0x76, 0x38, 0x9F, 0xE6, 0x78, 0xCA, 0xF7, 0xC6, 0xF8, 0x60, 0xD5, 0xBB, 0x9C, 0x4F,
	0xF3, 0x3C, 0x65, 0x7B, 0x63, 0x7C, 0x30, 0x6A, 0xDD, 0x4E, 0xA7, 0x79, 0x9E, 0xB2, 0x3D, 0x31,
	0x3E, 0x98, 0xB5, 0x6E, 0x27, 0xD3, 0xBC, 0xCF, 0x59, 0x1E, 0x18, 0x1F, 0x4C, 0x5A, 0xB7, 0x93,
	0xE9, 0xDE, 0xE7, 0x2C, 0x8F, 0x0C, 0x0F, 0xA6, 0x2D, 0xDB, 0x49, 0xF4, 0x6F, 0x73, 0x96, 0x47,
	0x06, 0x07, 0x53, 0x16, 0xED, 0x24, 0x7A, 0x37, 0x39, 0xCB, 0xA3, 0x83, 0x03, 0xA9, 0x8B, 0xF6,
	0x92, 0xBD, 0x9B, 0x1C, 0xE5, 0xD1, 0x41, 0x01, 0x54, 0x45, 0xFB, 0xC9, 0x5E, 0x4D, 0x0E, 0xF2,
	0x68, 0x20, 0x80, 0xAA, 0x22, 0x7D, 0x64, 0x2F, 0x26, 0x87, 0xF9, 0x34, 0x90, 0x40, 0x55, 0x11,
	0xBE, 0x32, 0x97, 0x13, 0x43, 0xFC, 0x9A, 0x48, 0xA0, 0x2A, 0x88, 0x5F, 0x19, 0x4B, 0x09, 0xA1,
	0x7E, 0xCD, 0xA4, 0xD0, 0x15, 0x44, 0xAF, 0x8C, 0xA5, 0x84, 0x50, 0xBF, 0x66, 0xD2, 0xE8, 0x8A,
	0xA2, 0xD7, 0x46, 0x52, 0x42, 0xA8, 0xDF, 0xB3, 0x69, 0x74, 0xC5, 0x51, 0xEB, 0x23, 0x29, 0x21,
	0xD4, 0xEF, 0xD9, 0xB4, 0x3A, 0x62, 0x28, 0x75, 0x91, 0x14, 0x10, 0xEA, 0x77, 0x6C, 0xDA, 0x1D,
}

// g substitutes each byte of u through the table and rotates the result
// left by r bits.
func g(u uint32, r int) uint32 {
	v := uint32(hTab[u&0xFF]) |
		uint32(hTab[u>>8&0xFF])<<8 |
		uint32(hTab[u>>16&0xFF])<<16 |
		uint32(hTab[u>>24])<<24
	return bits.RotateLeft32(v, r)
}

// Cipher is a belt block cipher instance with an expanded 256-bit key.
type Cipher struct {
	k [8]uint32
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher expands a 128-, 192- or 256-bit key.
func NewCipher(key []byte) (*Cipher, error) {
	c := &Cipher{}
	switch len(key) {
	case 16:
		for i := 0; i < 4; i++ {
			c.k[i] = binary.LittleEndian.Uint32(key[4*i:])
			c.k[i+4] = c.k[i]
		}
	case 24:
		for i := 0; i < 6; i++ {
			c.k[i] = binary.LittleEndian.Uint32(key[4*i:])
		}
		c.k[6] = c.k[0] ^ c.k[1] ^ c.k[2]
		c.k[7] = c.k[3] ^ c.k[4] ^ c.k[5]
	case 32:
		for i := 0; i < 8; i++ {
			c.k[i] = binary.LittleEndian.Uint32(key[4*i:])
		}
	default:
		return nil, errors.Errorf("belt: invalid key size %d", len(key))
	}
	return c, nil
}

// Wipe zeroises the expanded key.
func (c *Cipher) Wipe() {
	for i := range c.k {
		c.k[i] = 0
	}
}

func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts a single block. dst and src may overlap entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("belt: block buffer too short")
	}
	a := binary.LittleEndian.Uint32(src[0:])
	b := binary.LittleEndian.Uint32(src[4:])
	cc := binary.LittleEndian.Uint32(src[8:])
	d := binary.LittleEndian.Uint32(src[12:])

	for i := uint32(1); i <= 8; i++ {
		j := 7 * (i - 1)
		b ^= g(a+c.k[j%8], 5)
		cc ^= g(d+c.k[(j+1)%8], 21)
		a -= g(b+c.k[(j+2)%8], 13)
		e := g(b+cc+c.k[(j+3)%8], 21) ^ i
		b += e
		cc -= e
		d += g(cc+c.k[(j+4)%8], 13)
		b ^= g(a+c.k[(j+5)%8], 21)
		cc ^= g(d+c.k[(j+6)%8], 5)
		a, b = b, a
		cc, d = d, cc
		b, cc = cc, b
	}
	binary.LittleEndian.PutUint32(dst[0:], b)
	binary.LittleEndian.PutUint32(dst[4:], d)
	binary.LittleEndian.PutUint32(dst[8:], a)
	binary.LittleEndian.PutUint32(dst[12:], cc)
}

// Decrypt inverts Encrypt. dst and src may overlap entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("belt: block buffer too short")
	}
	b := binary.LittleEndian.Uint32(src[0:])
	d := binary.LittleEndian.Uint32(src[4:])
	a := binary.LittleEndian.Uint32(src[8:])
	cc := binary.LittleEndian.Uint32(src[12:])

	for i := uint32(8); i >= 1; i-- {
		j := 7 * (i - 1)
		b, cc = cc, b
		cc, d = d, cc
		a, b = b, a
		cc ^= g(d+c.k[(j+6)%8], 5)
		b ^= g(a+c.k[(j+5)%8], 21)
		d -= g(cc+c.k[(j+4)%8], 13)
		e := g(b+cc+c.k[(j+3)%8], 21) ^ i
		b -= e
		cc += e
		a += g(b+c.k[(j+2)%8], 13)
		cc ^= g(d+c.k[(j+1)%8], 21)
		b ^= g(a+c.k[j%8], 5)
	}
	binary.LittleEndian.PutUint32(dst[0:], a)
	binary.LittleEndian.PutUint32(dst[4:], b)
	binary.LittleEndian.PutUint32(dst[8:], cc)
	binary.LittleEndian.PutUint32(dst[12:], d)
}
