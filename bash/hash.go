package bash

import (
	"encoding/binary"
	"hash"

	"github.com/pkg/errors"
)

// Hash is a bash-hash instance at security level l. It implements
// hash.Hash; the digest length is l/4 bytes and the rate 192 - l/2
// bytes.
type Hash struct {
	s    [StateSize]byte
	pos  int
	rate int
	size int
}

var _ hash.Hash = (*Hash)(nil)

// New returns a bash-hash at security level l. l must be a positive
// multiple of 16 not exceeding 256.
func New(l int) (*Hash, error) {
	if l <= 0 || l > 256 || l%16 != 0 {
		return nil, errors.Errorf("bash: unsupported level %d", l)
	}
	h := &Hash{rate: StateSize - l/2, size: l / 4}
	h.Reset()
	return h, nil
}

// New256 returns the 256-bit digest instance (level 128).
func New256() *Hash { h, _ := New(128); return h }

// New384 returns the 384-bit digest instance (level 192).
func New384() *Hash { h, _ := New(192); return h }

// New512 returns the 512-bit digest instance (level 256).
func New512() *Hash { h, _ := New(256); return h }

func (h *Hash) Reset() {
	for i := range h.s {
		h.s[i] = 0
	}
	binary.LittleEndian.PutUint64(h.s[StateSize-8:], uint64(h.size))
	h.pos = 0
}

func (h *Hash) Size() int      { return h.size }
func (h *Hash) BlockSize() int { return h.rate }

func (h *Hash) Write(p []byte) (int, error) {
	for _, b := range p {
		h.s[h.pos] ^= b
		h.pos++
		if h.pos == h.rate {
			F(&h.s)
			h.pos = 0
		}
	}
	return len(p), nil
}

// Sum appends the digest to b without disturbing the running state.
func (h *Hash) Sum(b []byte) []byte {
	t := *h
	t.s[t.pos] ^= 0x40
	F(&t.s)
	return append(b, t.s[:t.size]...)
}

// Sum256 returns the 256-bit bash digest of data.
func Sum256(data []byte) [32]byte {
	var d [32]byte
	sum(d[:], 128, data)
	return d
}

// Sum384 returns the 384-bit bash digest of data.
func Sum384(data []byte) [48]byte {
	var d [48]byte
	sum(d[:], 192, data)
	return d
}

// Sum512 returns the 512-bit bash digest of data.
func Sum512(data []byte) [64]byte {
	var d [64]byte
	sum(d[:], 256, data)
	return d
}

func sum(dst []byte, l int, data []byte) {
	h, _ := New(l)
	h.Write(data)
	copy(dst, h.Sum(nil))
}
