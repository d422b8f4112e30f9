package bign

import (
	"bytes"
	"crypto/subtle"
	"hash"
	"io"

	stb "stb34101.dev"
	"stb34101.dev/bash"
	"stb34101.dev/belt"
	"stb34101.dev/ec"
	"stb34101.dev/mp"
)

// hashForOID resolves a DER-encoded algorithm identifier to the hash
// constructor it names.
func hashForOID(oidDER []byte) (func() hash.Hash, error) {
	for _, c := range hashAlgs {
		der, err := ParseOID(c.oid)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(der, oidDER) {
			return c.ctor, nil
		}
	}
	return nil, stb.ErrBadOID
}

var hashAlgs = []struct {
	oid  string
	ctor func() hash.Hash
}{
	{OIDBeltHash, belt.NewHash},
	{OIDBash256, func() hash.Hash { return bash.New256() }},
	{OIDBash384, func() hash.Hash { return bash.New384() }},
	{OIDBash512, func() hash.Hash { return bash.New512() }},
}

// challenge computes the first nb/2 bytes of H(oid || fragments...).
func challenge(newHash func() hash.Hash, oidDER []byte, nb int, fragments ...[]byte) []byte {
	h := newHash()
	h.Write(oidDER)
	for _, f := range fragments {
		h.Write(f)
	}
	return h.Sum(nil)[:nb/2]
}

// scalarPlus2l loads the challenge bytes and sets the 2^l tag bit.
func scalarPlus2l(c *ec.Curve, s0 []byte, l int) []uint64 {
	u := mp.New(len(c.Order))
	mp.SetBytes(u, s0)
	u[l/64] |= 1 << uint(l%64)
	return u
}

// modOrder reduces an nb-byte value into [0, q). A single subtraction
// suffices because q exceeds 2^(2l-1).
func modOrder(c *ec.Curve, b []byte) []uint64 {
	h := mp.New(len(c.Order))
	mp.SetBytes(h, b)
	if mp.Cmp(h, c.Order) >= 0 {
		mp.Sub(h, h, c.Order)
	}
	return h
}

// genK derives the deterministic per-signature key: the hash value is
// wrapped repeatedly under a key bound to the private key and optional
// extra entropy, until the result lands in [1, q-1].
func genK(c *ec.Curve, oidDER, hashVal, priv, t []byte) ([]uint64, error) {
	th := belt.NewHash()
	th.Write(oidDER)
	th.Write(priv)
	th.Write(t)
	theta := th.Sum(nil)
	cipher, err := belt.NewCipher(theta)
	stb.Wipe(theta)
	if err != nil {
		return nil, err
	}
	defer cipher.Wipe()

	buf := append([]byte(nil), hashVal...)
	defer stb.Wipe(buf)
	k := mp.New(len(c.Order))
	for {
		if err := belt.WBLEncrypt(cipher, buf); err != nil {
			return nil, err
		}
		mp.SetBytes(k, buf)
		if !mp.IsZero(k) && mp.Cmp(k, c.Order) < 0 {
			return k, nil
		}
	}
}

// signWithK finishes a signature once the per-signature key is fixed.
func signWithK(c *ec.Curve, p *Params, newHash func() hash.Hash, oidDER, hashVal []byte, d, k []uint64) ([]byte, error) {
	nb := p.fieldBytes()
	r := c.NewPoint()
	if err := c.MulG(r, k); err != nil {
		return nil, stb.ErrBadInput
	}
	rx := make([]byte, nb)
	fieldToBytes(c, rx, r.X)

	s0 := challenge(newHash, oidDER, nb, rx, hashVal)

	qf := c.QF
	dM := qf.New()
	uM := qf.New()
	kM := qf.New()
	hM := qf.New()
	qf.From(dM, d)
	qf.From(uM, scalarPlus2l(c, s0, p.L))
	qf.Mul(uM, uM, dM)
	qf.From(kM, k)
	qf.From(hM, modOrder(c, hashVal))
	qf.Sub(kM, kM, uM)
	qf.Sub(kM, kM, hM)
	s1 := mp.New(len(c.Order))
	qf.To(s1, kM)
	stb.WipeWords(dM)
	stb.WipeWords(uM)
	stb.WipeWords(kM)

	sig := make([]byte, stb.Level(p.L).SigBytes())
	copy(sig, s0)
	mp.Bytes(sig[nb/2:], s1)
	return sig, nil
}

// Sign produces a randomised signature over hashVal with the hash
// algorithm named by oidDER.
func Sign(p *Params, oidDER, hashVal, priv []byte, rnd io.Reader) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	newHash, err := hashForOID(oidDER)
	if err != nil {
		return nil, err
	}
	if len(hashVal) != p.fieldBytes() {
		return nil, stb.ErrBadInput
	}
	d, err := loadPriv(c, p, priv)
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(d)
	k := mp.New(len(c.Order))
	if err := mp.RandNZMod(k, c.Order, rnd); err != nil {
		return nil, stb.ErrBadRNG
	}
	defer stb.WipeWords(k)
	return signWithK(c, p, newHash, oidDER, hashVal, d, k)
}

// Sign2 produces a deterministic signature; t carries optional extra
// entropy folded into the per-signature key derivation and may be nil.
func Sign2(p *Params, oidDER, hashVal, priv, t []byte) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	newHash, err := hashForOID(oidDER)
	if err != nil {
		return nil, err
	}
	if len(hashVal) != p.fieldBytes() {
		return nil, stb.ErrBadInput
	}
	d, err := loadPriv(c, p, priv)
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(d)
	k, err := genK(c, oidDER, hashVal, priv, t)
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(k)
	return signWithK(c, p, newHash, oidDER, hashVal, d, k)
}

// Verify checks sig over hashVal against the public key.
func Verify(p *Params, oidDER, hashVal, sig, pub []byte) error {
	c, err := p.Curve()
	if err != nil {
		return err
	}
	newHash, err := hashForOID(oidDER)
	if err != nil {
		return err
	}
	nb := p.fieldBytes()
	if len(hashVal) != nb {
		return stb.ErrBadInput
	}
	if len(sig) != stb.Level(p.L).SigBytes() {
		return stb.ErrBadSig
	}
	q, err := loadPub(c, p, pub)
	if err != nil {
		return err
	}

	s0 := sig[:nb/2]
	s1 := mp.New(len(c.Order))
	mp.SetBytes(s1, sig[nb/2:])
	if mp.Cmp(s1, c.Order) >= 0 {
		return stb.ErrBadSig
	}

	t := mp.New(len(c.Order))
	mp.AddMod(t, s1, modOrder(c, hashVal), c.Order)
	u := scalarPlus2l(c, s0, p.L)

	r := c.NewPoint()
	if !c.MulAddVartime(r, &c.G, t, q, u) {
		return stb.ErrBadSig
	}
	rx := make([]byte, nb)
	fieldToBytes(c, rx, r.X)
	want := challenge(newHash, oidDER, nb, rx, hashVal)
	if subtle.ConstantTimeCompare(want, s0) != 1 {
		return stb.ErrBadSig
	}
	return nil
}

// fieldToBytes serialises an in-domain field element.
func fieldToBytes(c *ec.Curve, out []byte, a []uint64) {
	t := c.F.New()
	c.F.To(t, a)
	mp.Bytes(out, t)
}
