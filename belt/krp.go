package belt

import (
	"encoding/binary"

	"github.com/pkg/errors"

	stb "stb34101.dev"
)

// KRPDepthSize and KRPHeaderSize are the lengths of the diversification
// inputs of the key repacking transformation.
const (
	KRPDepthSize  = 12
	KRPHeaderSize = 16
)

// KRP derives a key of len(dst) bytes from the 32-byte key x, the
// 12-byte depth d and the 16-byte header i. dst must be 16, 24 or 32
// bytes long.
func KRP(dst, x, d, i []byte) error {
	switch len(dst) {
	case 16, 24, 32:
	default:
		return errors.Errorf("belt: invalid derived key size %d", len(dst))
	}
	if len(x) != 32 {
		return errors.Errorf("belt: invalid source key size %d", len(x))
	}
	if len(d) != KRPDepthSize {
		return errors.Errorf("belt: invalid depth size %d", len(d))
	}
	if len(i) != KRPHeaderSize {
		return errors.Errorf("belt: invalid header size %d", len(i))
	}
	var in [64]byte
	binary.LittleEndian.PutUint32(in[:4], uint32(len(dst)))
	copy(in[4:16], d)
	copy(in[16:32], i)
	copy(in[32:], x)
	_, y := compress(&in)
	copy(dst, y[:len(dst)])
	stb.Wipe(in[:])
	stb.Wipe(y[:])
	return nil
}
