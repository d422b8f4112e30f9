package bign

import (
	"io"

	stb "stb34101.dev"
	"stb34101.dev/belt"
	"stb34101.dev/ec"
	"stb34101.dev/mp"
)

// thetaFromPoint derives the 256-bit transport key from the abscissa of
// the shared point.
func thetaFromPoint(c *ec.Curve, p *Params, pt *ec.Point) []byte {
	nb := p.fieldBytes()
	buf := make([]byte, nb)
	fieldToBytes(c, buf, pt.X)
	theta := append([]byte(nil), buf[:32]...)
	stb.Wipe(buf)
	return theta
}

// KeyWrap protects key under the recipient public key pub, binding the
// 16-byte header. The token is the ephemeral abscissa followed by the
// wide-block wrap of key||header, so it is fieldBytes+16 bytes longer
// than the key.
func KeyWrap(p *Params, key, header, pub []byte, rnd io.Reader) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	if p.fieldBytes() < 32 {
		return nil, stb.ErrNotImplemented
	}
	if len(key) < 16 || len(key)%16 != 0 {
		return nil, stb.ErrBadInput
	}
	if len(header) != belt.KWPHeaderSize {
		return nil, stb.ErrBadInput
	}
	q, err := loadPub(c, p, pub)
	if err != nil {
		return nil, err
	}
	k := mp.New(len(c.Order))
	if err := mp.RandNZMod(k, c.Order, rnd); err != nil {
		return nil, stb.ErrBadRNG
	}
	defer stb.WipeWords(k)

	t := c.NewPoint()
	if err := c.MulPoint(t, q, k); err != nil {
		return nil, stb.ErrBadInput
	}
	theta := thetaFromPoint(c, p, t)
	defer stb.Wipe(theta)

	r := c.NewPoint()
	if err := c.MulG(r, k); err != nil {
		return nil, stb.ErrBadInput
	}
	nb := p.fieldBytes()
	token := make([]byte, nb)
	fieldToBytes(c, token, r.X)
	wrapped, err := belt.KWPWrap(key, header, theta)
	if err != nil {
		return nil, err
	}
	return append(token, wrapped...), nil
}

// KeyUnwrap recovers key material from a token produced by KeyWrap. Any
// failure past the length checks reports ErrBadKeyToken and yields no
// key material.
func KeyUnwrap(p *Params, token, header, priv []byte) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	nb := p.fieldBytes()
	if nb < 32 {
		return nil, stb.ErrNotImplemented
	}
	if len(token) < nb+32 {
		return nil, stb.ErrBadInput
	}
	if len(header) != belt.KWPHeaderSize {
		return nil, stb.ErrBadInput
	}
	d, err := loadPriv(c, p, priv)
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(d)

	// lift the ephemeral point from its abscissa
	x := mp.New(c.F.Limbs())
	mp.SetBytes(x, token[:nb])
	if mp.Cmp(x, c.F.Modulus()) >= 0 {
		return nil, stb.ErrBadKeyToken
	}
	r := c.NewPoint()
	c.F.From(r.X, x)
	if !c.RecoverY(r.Y, r.X) {
		return nil, stb.ErrBadKeyToken
	}

	t := c.NewPoint()
	if err := c.MulPoint(t, r, d); err != nil {
		return nil, stb.ErrBadKeyToken
	}
	theta := thetaFromPoint(c, p, t)
	defer stb.Wipe(theta)

	key, err := belt.KWPUnwrap(token[nb:], header, theta)
	if err != nil {
		return nil, stb.ErrBadKeyToken
	}
	return key, nil
}
