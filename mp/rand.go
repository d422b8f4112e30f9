package mp

import "io"

// RandNZMod draws a uniformly from [1, m-1] by rejection sampling against
// m. The draw width matches the bit length of m so the expected number of
// rejections is below two.
func RandNZMod(a, m []uint64, r io.Reader) error {
	n := len(m)
	nbits := Bits(m)
	nbytes := (nbits + 7) / 8
	buf := make([]byte, nbytes)
	topMask := byte(0xFF)
	if nbits%8 != 0 {
		topMask = byte(1<<(uint(nbits)%8)) - 1
	}
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		buf[nbytes-1] &= topMask
		SetBytes(a[:n], buf)
		if !IsZero(a) && Cmp(a, m) < 0 {
			for i := range buf {
				buf[i] = 0
			}
			return nil
		}
	}
}
