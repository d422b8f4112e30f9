package bign

import (
	stb "stb34101.dev"
)

// DH computes the Diffie-Hellman value d*Q and returns its first size
// bytes in X||Y serialisation. size may not exceed the point width.
func DH(p *Params, priv, pub []byte, size int) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	nb := p.fieldBytes()
	if size < 0 || size > 2*nb {
		return nil, stb.ErrBadInput
	}
	d, err := loadPriv(c, p, priv)
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(d)
	q, err := loadPub(c, p, pub)
	if err != nil {
		return nil, err
	}
	s := c.NewPoint()
	if err := c.MulPoint(s, q, d); err != nil {
		return nil, stb.ErrBadSharedKey
	}
	buf := make([]byte, 2*nb)
	c.Bytes(buf, s)
	out := append([]byte(nil), buf[:size]...)
	stb.Wipe(buf)
	return out, nil
}
