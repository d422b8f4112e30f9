// Package stb34101 holds the pieces shared by every package of the module:
// the error taxonomy returned by the top-level APIs, the security levels of
// the STB 34.101 family, and helpers for wiping secret material.
package stb34101

// Error is a taxon returned by the top-level functions of this module.
// Low-level arithmetic never returns an Error; only the API surfaces
// (bign, bake, rng, bash, belt) classify failures this way.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrBadInput reports an invalid buffer or out-of-range argument at the
	// API surface. No side effects have taken place.
	ErrBadInput = Error("stb34101: bad input")

	// ErrBadParams reports public parameters failing structural checks.
	ErrBadParams = Error("stb34101: bad public parameters")

	ErrBadPrivKey   = Error("stb34101: bad private key")
	ErrBadPubKey    = Error("stb34101: bad public key")
	ErrBadKeyToken  = Error("stb34101: bad key token")
	ErrBadSharedKey = Error("stb34101: bad shared key")

	ErrBadOID    = Error("stb34101: bad object identifier")
	ErrBadFormat = Error("stb34101: bad format")

	ErrBadSig  = Error("stb34101: bad signature")
	ErrBadCert = Error("stb34101: bad certificate")
	ErrAuth    = Error("stb34101: authentication failed")

	ErrBadRNG           = Error("stb34101: bad random number generator")
	ErrBadEntropy       = Error("stb34101: entropy source failure")
	ErrNotEnoughEntropy = Error("stb34101: not enough entropy")
	ErrStatTest         = Error("stb34101: statistical test failed")

	ErrOutOfMemory    = Error("stb34101: out of memory")
	ErrNotImplemented = Error("stb34101: not implemented")
	ErrNoResult       = Error("stb34101: no result")
)
