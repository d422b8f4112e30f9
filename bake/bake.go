// Package bake runs the BAUTH key establishment protocol between a
// client and a terminal. The client transports a fresh secret to the
// terminal under the terminal's long-term key and later proves knowledge
// of its own long-term key through a Schnorr-style equation. Both sides
// derive the transport key K0 from the exchanged secrets and the hello
// strings.
package bake

import (
	"crypto/subtle"
	"encoding/binary"
	"io"

	stb "stb34101.dev"
	"stb34101.dev/belt"
	"stb34101.dev/bign"
	"stb34101.dev/ec"
	"stb34101.dev/mp"
)

// SecretSize is the width of the client secret, the terminal nonce and
// each derived key.
const SecretSize = 32

// deriveKeys expands the session secret y into K0, K1, K2 by key
// repacking at depths 0, 1, 2.
func deriveKeys(y []byte) (k [3][]byte, err error) {
	var depth [belt.KRPDepthSize]byte
	var header [belt.KRPHeaderSize]byte
	for i := range k {
		k[i] = make([]byte, SecretSize)
		binary.LittleEndian.PutUint32(depth[:4], uint32(i))
		if err := belt.KRP(k[i], y, depth[:], header[:]); err != nil {
			return k, err
		}
	}
	return k, nil
}

// sessionY hashes the shared secrets and both hello strings.
func sessionY(rct, rt, helloA, helloB []byte) []byte {
	h := belt.NewHash()
	h.Write(rct)
	h.Write(rt)
	h.Write(helloA)
	h.Write(helloB)
	return h.Sum(nil)
}

// confirm is the key confirmation value MAC(K1, 0^128).
func confirm(k1 []byte) ([belt.MACSize]byte, error) {
	var zero [16]byte
	return belt.MAC(zero[:], k1)
}

// xBytes serialises the abscissa of a point and truncates it to a belt
// key.
func xBytes(c *ec.Curve, nb int, pt *ec.Point) []byte {
	buf := make([]byte, nb)
	t := c.F.New()
	c.F.To(t, pt.X)
	mp.Bytes(buf, t)
	stb.WipeWords(t)
	theta := append([]byte(nil), buf[:SecretSize]...)
	stb.Wipe(buf)
	return theta
}

// schnorrE loads the l-bit challenge of the client ephemeral and the
// terminal nonce and sets the 2^l tag bit.
func schnorrE(c *ec.Curve, l int, vct, rt []byte) []uint64 {
	h := belt.NewHash()
	h.Write(vct)
	h.Write(rt)
	t := h.Sum(nil)[:l/8]
	e := mp.New(len(c.Order))
	mp.SetBytes(e, t)
	e[l/64] |= 1 << uint(l%64)
	return e
}

// Client is the CT side. A value runs a single protocol instance.
type Client struct {
	p       *bign.Params
	c       *ec.Curve
	nb      int
	priv    []byte
	termPub []byte
	helloA  []byte
	helloB  []byte
	rnd     io.Reader

	u   []uint64
	rct []byte
	vct []byte
	k   [3][]byte
	ok  bool
}

// NewClient prepares a client instance. termPub is the terminal's
// long-term public key; helloA and helloB are the agreed hello strings.
func NewClient(p *bign.Params, priv, termPub, helloA, helloB []byte, rnd io.Reader) (*Client, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	if p.L < 128 {
		return nil, stb.ErrNotImplemented
	}
	if err := bign.PrivKeyVal(p, priv); err != nil {
		return nil, err
	}
	if err := bign.PubKeyVal(p, termPub); err != nil {
		return nil, err
	}
	return &Client{
		p:       p,
		c:       c,
		nb:      stb.Level(p.L).FieldBytes(),
		priv:    append([]byte(nil), priv...),
		termPub: append([]byte(nil), termPub...),
		helloA:  append([]byte(nil), helloA...),
		helloB:  append([]byte(nil), helloB...),
		rnd:     rnd,
	}, nil
}

// Step2 draws the client secret and ephemeral and produces the opening
// message V_ct || wrap(R_ct).
func (cl *Client) Step2() ([]byte, error) {
	cl.u = mp.New(len(cl.c.Order))
	if err := mp.RandNZMod(cl.u, cl.c.Order, cl.rnd); err != nil {
		return nil, err
	}
	cl.rct = make([]byte, SecretSize)
	if _, err := io.ReadFull(cl.rnd, cl.rct); err != nil {
		return nil, err
	}

	v := cl.c.NewPoint()
	if err := cl.c.MulG(v, cl.u); err != nil {
		return nil, err
	}
	cl.vct = make([]byte, 2*cl.nb)
	cl.c.Bytes(cl.vct, v)

	qt := cl.c.NewPoint()
	if err := cl.c.SetBytes(qt, cl.termPub); err != nil {
		return nil, stb.ErrBadPubKey
	}
	w := cl.c.NewPoint()
	if err := cl.c.MulPoint(w, qt, cl.u); err != nil {
		return nil, err
	}
	theta := xBytes(cl.c, cl.nb, w)
	defer stb.Wipe(theta)
	stb.WipeWords(w.X)
	stb.WipeWords(w.Y)

	var header [belt.KWPHeaderSize]byte
	token, err := belt.KWPWrap(cl.rct, header[:], theta)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), cl.vct...), token...), nil
}

// Step4 checks the terminal's confirmation against the derived keys.
// When withCert, the returned message carries the client certificate
// encrypted under K2 and authenticated under K1; otherwise it is nil.
func (cl *Client) Step4(msg []byte, withCert bool) ([]byte, error) {
	if len(msg) != belt.MACSize+SecretSize {
		return nil, stb.ErrBadInput
	}
	rt := msg[belt.MACSize:]

	y := sessionY(cl.rct, rt, cl.helloA, cl.helloB)
	k, err := deriveKeys(y)
	stb.Wipe(y)
	if err != nil {
		return nil, err
	}
	cl.k = k

	want, err := confirm(cl.k[1])
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(want[:], msg[:belt.MACSize]) != 1 {
		return nil, stb.ErrAuth
	}
	cl.ok = true
	if !withCert {
		return nil, nil
	}
	return cl.certMessage(rt)
}

// certMessage builds Q_ct || s_ct with s_ct = u - (2^l + t) d mod q,
// encrypted under K2 and tagged under K1.
func (cl *Client) certMessage(rt []byte) ([]byte, error) {
	pub, err := bign.PubKeyCalc(cl.p, cl.priv)
	if err != nil {
		return nil, err
	}

	qf := cl.c.QF
	d := mp.New(len(cl.c.Order))
	mp.SetBytes(d, cl.priv)
	eM := qf.New()
	dM := qf.New()
	uM := qf.New()
	e := schnorrE(cl.c, cl.p.L, cl.vct, rt)
	qf.From(eM, e)
	qf.From(dM, d)
	qf.Mul(eM, eM, dM)
	qf.From(uM, cl.u)
	qf.Sub(uM, uM, eM)
	s := mp.New(len(cl.c.Order))
	qf.To(s, uM)
	stb.WipeWords(d)
	stb.WipeWords(dM)
	stb.WipeWords(eM)
	stb.WipeWords(uM)

	plain := make([]byte, 3*cl.nb)
	copy(plain, pub)
	mp.Bytes(plain[2*cl.nb:], s)
	stb.WipeWords(s)

	var iv [belt.BlockSize]byte
	out := make([]byte, len(plain)+belt.MACSize)
	if err := belt.CTR(out[:len(plain)], plain, cl.k[2], iv[:]); err != nil {
		return nil, err
	}
	stb.Wipe(plain)
	tag, err := belt.MAC(out[:len(plain)], cl.k[1])
	if err != nil {
		return nil, err
	}
	copy(out[len(plain):], tag[:])
	return out, nil
}

// Key returns K0 once the run has completed, nil before that.
func (cl *Client) Key() []byte {
	if !cl.ok {
		return nil
	}
	return cl.k[0]
}

// Wipe clears the client's session secrets.
func (cl *Client) Wipe() {
	stb.Wipe(cl.priv)
	stb.Wipe(cl.rct)
	if cl.u != nil {
		stb.WipeWords(cl.u)
	}
	for i := range cl.k {
		stb.Wipe(cl.k[i])
	}
	cl.ok = false
}

// Terminal is the T side. A value runs a single protocol instance.
type Terminal struct {
	p      *bign.Params
	c      *ec.Curve
	nb     int
	priv   []byte
	helloA []byte
	helloB []byte
	rnd    io.Reader

	vct []byte
	rt  []byte
	k   [3][]byte
	ok  bool
}

// NewTerminal prepares a terminal instance around the terminal's
// long-term private key.
func NewTerminal(p *bign.Params, priv, helloA, helloB []byte, rnd io.Reader) (*Terminal, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	if p.L < 128 {
		return nil, stb.ErrNotImplemented
	}
	if err := bign.PrivKeyVal(p, priv); err != nil {
		return nil, err
	}
	return &Terminal{
		p:      p,
		c:      c,
		nb:     stb.Level(p.L).FieldBytes(),
		priv:   append([]byte(nil), priv...),
		helloA: append([]byte(nil), helloA...),
		helloB: append([]byte(nil), helloB...),
		rnd:    rnd,
	}, nil
}

// Step3 recovers the client secret from the opening message, draws the
// terminal nonce and returns the confirmation MAC(K1, 0^128) || R_t.
func (t *Terminal) Step3(msg []byte) ([]byte, error) {
	if len(msg) != 2*t.nb+SecretSize+belt.KWPHeaderSize {
		return nil, stb.ErrBadInput
	}
	t.vct = append([]byte(nil), msg[:2*t.nb]...)

	v := t.c.NewPoint()
	if err := t.c.SetBytes(v, t.vct); err != nil {
		return nil, stb.ErrBadInput
	}
	d := mp.New(len(t.c.Order))
	mp.SetBytes(d, t.priv)
	w := t.c.NewPoint()
	err := t.c.MulPoint(w, v, d)
	stb.WipeWords(d)
	if err != nil {
		return nil, err
	}
	theta := xBytes(t.c, t.nb, w)
	stb.WipeWords(w.X)
	stb.WipeWords(w.Y)

	var header [belt.KWPHeaderSize]byte
	rct, err := belt.KWPUnwrap(msg[2*t.nb:], header[:], theta)
	stb.Wipe(theta)
	if err != nil {
		return nil, err
	}

	t.rt = make([]byte, SecretSize)
	if _, err := io.ReadFull(t.rnd, t.rt); err != nil {
		stb.Wipe(rct)
		return nil, err
	}
	y := sessionY(rct, t.rt, t.helloA, t.helloB)
	stb.Wipe(rct)
	k, err := deriveKeys(y)
	stb.Wipe(y)
	if err != nil {
		return nil, err
	}
	t.k = k
	t.ok = true

	tag, err := confirm(t.k[1])
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, belt.MACSize+SecretSize)
	out = append(out, tag[:]...)
	return append(out, t.rt...), nil
}

// Step5 checks the client certificate: the tag under K1, then the
// equation s_ct G + (2^l + t) Q_ct = V_ct. On success it returns the
// client public key carried by the certificate.
func (t *Terminal) Step5(msg []byte) ([]byte, error) {
	if !t.ok {
		return nil, stb.ErrBadInput
	}
	if len(msg) != 3*t.nb+belt.MACSize {
		return nil, stb.ErrBadInput
	}
	ct := msg[:3*t.nb]
	tag, err := belt.MAC(ct, t.k[1])
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(tag[:], msg[3*t.nb:]) != 1 {
		return nil, stb.ErrAuth
	}

	var iv [belt.BlockSize]byte
	plain := make([]byte, len(ct))
	if err := belt.CTR(plain, ct, t.k[2], iv[:]); err != nil {
		return nil, err
	}
	pub := plain[:2*t.nb]

	q := t.c.NewPoint()
	if err := t.c.SetBytes(q, pub); err != nil {
		return nil, stb.ErrBadCert
	}
	s := mp.New(len(t.c.Order))
	mp.SetBytes(s, plain[2*t.nb:])
	if mp.Cmp(s, t.c.Order) >= 0 {
		return nil, stb.ErrBadCert
	}

	e := schnorrE(t.c, t.p.L, t.vct, t.rt)
	r := t.c.NewPoint()
	if !t.c.MulAddVartime(r, &t.c.G, s, q, e) {
		return nil, stb.ErrBadCert
	}
	got := make([]byte, 2*t.nb)
	t.c.Bytes(got, r)
	if subtle.ConstantTimeCompare(got, t.vct) != 1 {
		return nil, stb.ErrBadCert
	}
	return append([]byte(nil), pub...), nil
}

// Key returns K0 once the run has completed, nil before that.
func (t *Terminal) Key() []byte {
	if !t.ok {
		return nil
	}
	return t.k[0]
}

// Wipe clears the terminal's session secrets.
func (t *Terminal) Wipe() {
	stb.Wipe(t.priv)
	for i := range t.k {
		stb.Wipe(t.k[i])
	}
	t.ok = false
}
