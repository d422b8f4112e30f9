//go:build !amd64

package rng

func rdseed32() (uint32, bool) { return 0, false }
func rdrand32() (uint32, bool) { return 0, false }
func hasRDSEED() bool          { return false }
func hasRDRAND() bool          { return false }
