package mp

// Limbs returns the limb count needed for nb bytes.
func Limbs(nb int) int { return (nb + 7) / 8 }

// SetBytes fills a from the little-endian octet string b, zero-extending to
// the full limb length of a. Bytes beyond the capacity of a are a
// precondition violation.
func SetBytes(a []uint64, b []byte) {
	SetZero(a)
	for i, v := range b {
		a[i/8] |= uint64(v) << (uint(i) % 8 * 8)
	}
}

// Bytes writes a as a little-endian octet string of len(b) bytes,
// truncating high zero limbs. The value of a must fit in len(b) bytes.
func Bytes(b []byte, a []uint64) {
	for i := range b {
		b[i] = byte(a[i/8] >> (uint(i) % 8 * 8))
	}
}

// FromBytes returns a fresh number holding the little-endian octet string b.
func FromBytes(b []byte) []uint64 {
	a := New(Limbs(len(b)))
	SetBytes(a, b)
	return a
}

// SetBytesBE fills a from a big-endian octet string. Used only by the
// parameter codec; wire formats of this module are little-endian.
func SetBytesBE(a []uint64, b []byte) {
	SetZero(a)
	n := len(b)
	for i := 0; i < n; i++ {
		v := b[n-1-i]
		a[i/8] |= uint64(v) << (uint(i) % 8 * 8)
	}
}
