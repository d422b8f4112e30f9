package bign

import (
	"encoding/asn1"
	"math/big"

	stb "stb34101.dev"
)

// ASN.1 layout of the public parameters. Integers travel as unsigned
// big-endian per DER; octet-string fields keep the little-endian wire
// form.
type derFieldID struct {
	ID asn1.ObjectIdentifier
	P  *big.Int
}

type derCurveBody struct {
	A    []byte
	B    []byte
	Seed asn1.BitString
}

type derParams struct {
	Version  int
	Field    derFieldID
	Curve    derCurveBody
	Base     []byte
	Order    *big.Int
	Cofactor *big.Int `asn1:"optional"`
}

// MarshalDER encodes the parameters as the ECParameters-style SEQUENCE
// of the standard.
func (p *Params) MarshalDER() ([]byte, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	fieldOID, err := parseDotted(OIDField)
	if err != nil {
		return nil, err
	}
	d := derParams{
		Version: 1,
		Field:   derFieldID{ID: fieldOID, P: leToInt(p.P)},
		Curve: derCurveBody{
			A:    append([]byte(nil), p.A...),
			B:    append([]byte(nil), p.B...),
			Seed: asn1.BitString{Bytes: append([]byte(nil), p.Seed...), BitLength: 8 * len(p.Seed)},
		},
		Base:     append([]byte(nil), p.YG...),
		Order:    leToInt(p.Q),
		Cofactor: big.NewInt(1),
	}
	out, err := asn1.Marshal(d)
	if err != nil {
		return nil, stb.ErrBadFormat
	}
	return out, nil
}

// UnmarshalDER decodes a parameter SEQUENCE. The security level is
// derived from the field width.
func UnmarshalDER(in []byte) (*Params, error) {
	var d derParams
	rest, err := asn1.Unmarshal(in, &d)
	if err != nil || len(rest) != 0 {
		return nil, stb.ErrBadFormat
	}
	if d.Version != 1 {
		return nil, stb.ErrBadFormat
	}
	if d.Field.ID.String() != OIDField {
		return nil, stb.ErrBadOID
	}
	nb := (d.Field.P.BitLen() + 7) / 8
	var level int
	switch nb {
	case 24:
		level = 96
	case 32:
		level = 128
	case 48:
		level = 192
	case 64:
		level = 256
	default:
		return nil, stb.ErrBadParams
	}
	if len(d.Curve.A) != nb || len(d.Curve.B) != nb || len(d.Base) != nb {
		return nil, stb.ErrBadParams
	}
	if d.Curve.Seed.BitLength != 64 {
		return nil, stb.ErrBadParams
	}
	q := intToLE(d.Order, nb)
	if q == nil {
		return nil, stb.ErrBadParams
	}
	p := &Params{
		L:    level,
		P:    intToLE(d.Field.P, nb),
		A:    append([]byte(nil), d.Curve.A...),
		B:    append([]byte(nil), d.Curve.B...),
		Seed: append([]byte(nil), d.Curve.Seed.Bytes...),
		Q:    q,
		YG:   append([]byte(nil), d.Base...),
	}
	if d.Cofactor != nil && d.Cofactor.Cmp(big.NewInt(1)) != 0 {
		return nil, stb.ErrBadParams
	}
	return p, p.check()
}

func leToInt(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// intToLE serialises v into nb little-endian bytes, nil if it does not
// fit.
func intToLE(v *big.Int, nb int) []byte {
	be := v.Bytes()
	if len(be) > nb {
		return nil
	}
	le := make([]byte, nb)
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}
