package rng

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/pkg/errors"

	stb "stb34101.dev"
)

// source is a named entropy provider. read must fill buf completely or
// report failure; partial fills are treated as failures upstream.
type source struct {
	name string
	hw   bool
	read func(buf []byte) error
}

// hwRetries bounds the spins on a hardware instruction before the
// source is declared failing.
const hwRetries = 8

func hwRead(buf []byte, avail bool, insn func() (uint32, bool)) error {
	if !avail {
		return stb.ErrBadEntropy
	}
	var w [4]byte
	for len(buf) > 0 {
		var v uint32
		ok := false
		for t := 0; t < hwRetries && !ok; t++ {
			v, ok = insn()
		}
		if !ok {
			return stb.ErrBadEntropy
		}
		binary.LittleEndian.PutUint32(w[:], v)
		n := copy(buf, w[:])
		buf = buf[n:]
	}
	return nil
}

func trngRead(buf []byte) error  { return hwRead(buf, hasRDSEED(), rdseed32) }
func trng2Read(buf []byte) error { return hwRead(buf, hasRDRAND(), rdrand32) }

func sysRead(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return errors.Wrap(err, "rng: system generator")
	}
	return nil
}

// defaultSources lists the providers consulted at start-up, hardware
// first.
func defaultSources() []source {
	return []source{
		{"trng", true, trngRead},
		{"trng2", true, trng2Read},
		{"sys", false, sysRead},
		{"sys2", false, sys2Read},
		{"timer", false, timerRead},
	}
}
