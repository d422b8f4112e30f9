package bign

import (
	"io"

	stb "stb34101.dev"
	"stb34101.dev/ec"
	"stb34101.dev/mp"
)

// loadPriv parses a private key into limbs and checks 1 <= d < q.
func loadPriv(c *ec.Curve, p *Params, priv []byte) ([]uint64, error) {
	if len(priv) != stb.Level(p.L).OrderBytes() {
		return nil, stb.ErrBadPrivKey
	}
	d := mp.New(len(c.Order))
	mp.SetBytes(d, priv)
	if mp.IsZero(d) || mp.Cmp(d, c.Order) >= 0 {
		stb.WipeWords(d)
		return nil, stb.ErrBadPrivKey
	}
	return d, nil
}

// KeyPairGen draws a private key from r and derives the public key.
func KeyPairGen(p *Params, r io.Reader) (priv, pub []byte, err error) {
	c, err := p.Curve()
	if err != nil {
		return nil, nil, err
	}
	d := mp.New(len(c.Order))
	if err := mp.RandNZMod(d, c.Order, r); err != nil {
		return nil, nil, stb.ErrBadRNG
	}
	defer stb.WipeWords(d)
	q := c.NewPoint()
	if err := c.MulG(q, d); err != nil {
		return nil, nil, stb.ErrBadPrivKey
	}
	nb := p.fieldBytes()
	priv = make([]byte, nb)
	mp.Bytes(priv, d)
	pub = make([]byte, 2*nb)
	c.Bytes(pub, q)
	return priv, pub, nil
}

// PubKeyCalc recomputes the public key of priv.
func PubKeyCalc(p *Params, priv []byte) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	d, err := loadPriv(c, p, priv)
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(d)
	q := c.NewPoint()
	if err := c.MulG(q, d); err != nil {
		return nil, stb.ErrBadPrivKey
	}
	pub := make([]byte, 2*p.fieldBytes())
	c.Bytes(pub, q)
	return pub, nil
}

// PrivKeyVal checks that priv is a well-formed private key.
func PrivKeyVal(p *Params, priv []byte) error {
	c, err := p.Curve()
	if err != nil {
		return err
	}
	d, err := loadPriv(c, p, priv)
	if err != nil {
		return err
	}
	stb.WipeWords(d)
	return nil
}

// PubKeyVal checks that pub encodes a point of the curve.
func PubKeyVal(p *Params, pub []byte) error {
	c, err := p.Curve()
	if err != nil {
		return err
	}
	q := c.NewPoint()
	if err := c.SetBytes(q, pub); err != nil {
		return stb.ErrBadPubKey
	}
	return nil
}

// loadPub parses a public key.
func loadPub(c *ec.Curve, p *Params, pub []byte) (*ec.Point, error) {
	if len(pub) != 2*p.fieldBytes() {
		return nil, stb.ErrBadPubKey
	}
	q := c.NewPoint()
	if err := c.SetBytes(q, pub); err != nil {
		return nil, stb.ErrBadPubKey
	}
	return q, nil
}
