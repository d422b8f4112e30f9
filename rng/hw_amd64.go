//go:build amd64

package rng

import "github.com/klauspost/cpuid/v2"

// rdseed32 and rdrand32 are implemented in hw_amd64.s. ok mirrors the
// carry flag of the instruction.
func rdseed32() (v uint32, ok bool)
func rdrand32() (v uint32, ok bool)

func hasRDSEED() bool { return cpuid.CPU.Has(cpuid.RDSEED) }
func hasRDRAND() bool { return cpuid.CPU.Has(cpuid.RDRAND) }
