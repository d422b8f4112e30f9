// Package bign implements the STB 34.101.45 signature scheme and the key
// agreement and key transport operations built on the same curves: ECDH,
// key wrap and unwrap, and identity-based signing.
package bign

import (
	"github.com/pkg/errors"

	stb "stb34101.dev"
	"stb34101.dev/ec"
	"stb34101.dev/gfp"
	"stb34101.dev/mp"
)

// Params holds the public parameters of a bign curve. Integer fields are
// little-endian octet strings of the field width; the base point
// abscissa is zero by construction, so only y_G is stored.
type Params struct {
	L    int // security level: 128, 192 or 256, or experimental 96
	P    []byte
	A    []byte
	B    []byte
	Seed []byte
	Q    []byte
	YG   []byte
}

// curve256v1 is the standard level-128 parameter set
// (1.2.112.0.2.0.34.101.45.3.1). p = 2^256 - 189.
var curve256v1 = &Params{
	L: 128,
	P: mustLE("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF43"),
	A: mustLE("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF40"),
	B: mustLE("77CE6C1515F3A8EDD2C13AABE4D8FBBE4CF55069978B9253B22E7D6BD69C03F1"),
	Seed: []byte{
		0x5E, 0x38, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
	},
	Q:  mustLE("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFD95C8ED60DFB4DFC7E5ABF99263D6607"),
	YG: mustLE("6BF7FC3CFB16D69F5CE4C9A351D6835D78913966C408F6521E29CF1804516A93"),
}

// StdParams returns a registered parameter set by its dotted object
// identifier.
func StdParams(oid string) (*Params, error) {
	switch oid {
	case OIDCurve256v1:
		return curve256v1.clone(), nil
	case OIDCurve384v1, OIDCurve512v1:
		return nil, stb.ErrNotImplemented
	}
	return nil, stb.ErrBadOID
}

func (p *Params) clone() *Params {
	c := &Params{L: p.L}
	c.P = append([]byte(nil), p.P...)
	c.A = append([]byte(nil), p.A...)
	c.B = append([]byte(nil), p.B...)
	c.Seed = append([]byte(nil), p.Seed...)
	c.Q = append([]byte(nil), p.Q...)
	c.YG = append([]byte(nil), p.YG...)
	return c
}

// fieldBytes returns the width of a field element in bytes.
func (p *Params) fieldBytes() int { return stb.Level(p.L).FieldBytes() }

// check validates widths and the level tag.
func (p *Params) check() error {
	if lv := stb.Level(p.L); !lv.Valid() && lv != stb.L96 {
		return stb.ErrBadParams
	}
	nb := p.fieldBytes()
	if len(p.P) != nb || len(p.A) != nb || len(p.B) != nb ||
		len(p.Q) != nb || len(p.YG) != nb || len(p.Seed) != 8 {
		return stb.ErrBadParams
	}
	return nil
}

// Curve builds the elliptic curve group described by p. The descriptor
// is rebuilt on every call; callers performing many operations should
// hold on to it.
func (p *Params) Curve() (*ec.Curve, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	n := mp.Limbs(p.fieldBytes())
	prime := mp.New(n)
	mp.SetBytes(prime, p.P)
	f, err := gfp.New(prime)
	if err != nil {
		return nil, errors.Wrap(stb.ErrBadParams, err.Error())
	}
	a := mp.New(n)
	b := mp.New(n)
	mp.SetBytes(a, p.A)
	mp.SetBytes(b, p.B)
	c, err := ec.NewCurve(f, a, b)
	if err != nil {
		return nil, errors.Wrap(stb.ErrBadParams, err.Error())
	}
	gx := mp.New(n)
	gy := mp.New(n)
	q := mp.New(n)
	mp.SetBytes(gy, p.YG)
	mp.SetBytes(q, p.Q)
	if err := c.SetGroup(gx, gy, q, 1); err != nil {
		return nil, errors.Wrap(stb.ErrBadParams, err.Error())
	}
	return c, nil
}

// Val runs the structural and group checks on the parameters: field and
// order primality, curve non-singularity, base point order, and the MOV
// and anomalous-curve conditions.
func (p *Params) Val() error {
	c, err := p.Curve()
	if err != nil {
		return err
	}
	if !c.IsValid() || !c.SeemsValidGroup() || !c.IsSafeGroup(50) {
		return stb.ErrBadParams
	}
	return nil
}

// mustLE decodes big-endian hex into a little-endian octet string.
// Constants above are written the way the standard prints them.
func mustLE(s string) []byte {
	if len(s)%2 != 0 {
		panic("bign: bad constant")
	}
	b := make([]byte, len(s)/2)
	for i := 0; i < len(b); i++ {
		hi := hexVal(s[2*i])
		lo := hexVal(s[2*i+1])
		if hi < 0 || lo < 0 {
			panic("bign: bad constant")
		}
		b[len(b)-1-i] = byte(hi<<4 | lo)
	}
	return b
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
