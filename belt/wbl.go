package belt

import (
	"encoding/binary"

	"github.com/pkg/errors"

	stb "stb34101.dev"
)

// wblCheck validates a wide-block buffer. Shorter or ragged buffers are
// not needed by the key transport and signing layers.
func wblCheck(buf []byte) error {
	if len(buf) < 2*BlockSize || len(buf)%BlockSize != 0 {
		return errors.Errorf("belt: invalid wide block size %d", len(buf))
	}
	return nil
}

// WBLEncrypt applies the wide-block transformation to buf in place.
// Every round folds the encrypted sum of all blocks but the last into
// the last block, tags it with the round number and rotates.
func WBLEncrypt(c *Cipher, buf []byte) error {
	if err := wblCheck(buf); err != nil {
		return err
	}
	m := len(buf) / BlockSize
	var s, e [BlockSize]byte
	for tau := 1; tau <= 2*m; tau++ {
		for i := range s {
			s[i] = 0
		}
		for j := 0; j < m-1; j++ {
			for i := 0; i < BlockSize; i++ {
				s[i] ^= buf[j*BlockSize+i]
			}
		}
		c.Encrypt(e[:], s[:])
		last := buf[(m-1)*BlockSize:]
		for i := 0; i < BlockSize; i++ {
			last[i] ^= e[i]
		}
		w := binary.LittleEndian.Uint64(last[:8])
		binary.LittleEndian.PutUint64(last[:8], w^uint64(tau))
		rotateBlocksLeft(buf)
	}
	stb.Wipe(s[:])
	stb.Wipe(e[:])
	return nil
}

// WBLDecrypt inverts WBLEncrypt in place.
func WBLDecrypt(c *Cipher, buf []byte) error {
	if err := wblCheck(buf); err != nil {
		return err
	}
	m := len(buf) / BlockSize
	var s, e [BlockSize]byte
	for tau := 2 * m; tau >= 1; tau-- {
		rotateBlocksRight(buf)
		for i := range s {
			s[i] = 0
		}
		for j := 0; j < m-1; j++ {
			for i := 0; i < BlockSize; i++ {
				s[i] ^= buf[j*BlockSize+i]
			}
		}
		c.Encrypt(e[:], s[:])
		last := buf[(m-1)*BlockSize:]
		w := binary.LittleEndian.Uint64(last[:8])
		binary.LittleEndian.PutUint64(last[:8], w^uint64(tau))
		for i := 0; i < BlockSize; i++ {
			last[i] ^= e[i]
		}
	}
	stb.Wipe(s[:])
	stb.Wipe(e[:])
	return nil
}

// rotateBlocksLeft moves the first block to the end.
func rotateBlocksLeft(buf []byte) {
	var t [BlockSize]byte
	copy(t[:], buf[:BlockSize])
	copy(buf, buf[BlockSize:])
	copy(buf[len(buf)-BlockSize:], t[:])
}

// rotateBlocksRight moves the last block to the front.
func rotateBlocksRight(buf []byte) {
	var t [BlockSize]byte
	copy(t[:], buf[len(buf)-BlockSize:])
	copy(buf[BlockSize:], buf[:len(buf)-BlockSize])
	copy(buf[:BlockSize], t[:])
}
