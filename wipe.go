package stb34101

import (
	"crypto/subtle"
	"unsafe"
)

// Wipe clears a byte slice holding secret material. The write goes through
// unsafe so the compiler cannot elide it as a dead store.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	p := unsafe.Pointer(&b[0])
	for i := uintptr(0); i < uintptr(len(b)); i++ {
		*(*byte)(unsafe.Pointer(uintptr(p) + i)) = 0
	}
}

// WipeWords clears a limb slice holding secret material.
func WipeWords(w []uint64) {
	if len(w) == 0 {
		return
	}
	p := unsafe.Pointer(&w[0])
	for i := uintptr(0); i < uintptr(len(w)); i++ {
		*(*uint64)(unsafe.Pointer(uintptr(p) + i*8)) = 0
	}
}

// IsZero reports in constant time whether every byte of b is zero.
func IsZero(b []byte) bool {
	var acc byte
	for i := range b {
		acc |= b[i]
	}
	return subtle.ConstantTimeByteEq(acc, 0) == 1
}

// Equal reports in constant time whether a and b have identical contents.
// Slices of different lengths compare unequal without leaking where they
// differ.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
