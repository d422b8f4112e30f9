package bign

import (
	"hash"
	"io"

	stb "stb34101.dev"
	"stb34101.dev/ec"
	"stb34101.dev/mp"
)

// Identity-based signing. The authority holds (d, Q); IdExtract issues
// an identity key for the hashed identifier idHash. The identity secret
// is a Schnorr response to a challenge over the commitment point, so a
// verifier can reconstruct the identity public point from Q and the
// commitment carried in every signature.

// IdExtract issues the identity key for idHash. The result is the
// secret response followed by the commitment point: s_e || R_e.
func IdExtract(p *Params, oidDER, idHash, priv []byte, rnd io.Reader) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	newHash, err := hashForOID(oidDER)
	if err != nil {
		return nil, err
	}
	nb := p.fieldBytes()
	if len(idHash) != nb {
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
	re := c.NewPoint()
	if err := c.MulG(re, k); err != nil {
		return nil, stb.ErrBadInput
	}
	rex := make([]byte, nb)
	fieldToBytes(c, rex, re.X)
	c1 := challenge(newHash, oidDER, nb, rex, idHash)

	// s_e = k - (c1 + 2^l) d mod q
	qf := c.QF
	eM := qf.New()
	dM := qf.New()
	kM := qf.New()
	qf.From(eM, scalarPlus2l(c, c1, p.L))
	qf.From(dM, d)
	qf.Mul(eM, eM, dM)
	qf.From(kM, k)
	qf.Sub(kM, kM, eM)
	se := mp.New(len(c.Order))
	qf.To(se, kM)
	stb.WipeWords(dM)
	stb.WipeWords(eM)
	stb.WipeWords(kM)

	out := make([]byte, nb+2*nb)
	mp.Bytes(out[:nb], se)
	c.Bytes(out[nb:], re)
	stb.WipeWords(se)
	return out, nil
}

// idPub reconstructs the identity public point s_e*G = R_e - (c1+2^l)Q.
func idPub(c *ec.Curve, p *Params, newHash func() hash.Hash, oidDER, idHash []byte, re *ec.Point, q *ec.Point) (*ec.Point, bool) {
	nb := p.fieldBytes()
	rex := make([]byte, nb)
	fieldToBytes(c, rex, re.X)
	c1 := challenge(newHash, oidDER, nb, rex, idHash)
	e := scalarPlus2l(c, c1, p.L)
	one := mp.New(len(c.Order))
	mp.SetW(one, 1)
	qNeg := c.NewPoint()
	c.NegAffine(qNeg, q)
	x := c.NewPoint()
	if !c.MulAddVartime(x, re, one, qNeg, e) {
		return nil, false
	}
	return x, true
}

// IdSign signs msgHash with an identity key issued by IdExtract.
// The signature is R_e || R' || s.
func IdSign(p *Params, oidDER, idHash, msgHash, idKey []byte, rnd io.Reader) ([]byte, error) {
	c, err := p.Curve()
	if err != nil {
		return nil, err
	}
	newHash, err := hashForOID(oidDER)
	if err != nil {
		return nil, err
	}
	nb := p.fieldBytes()
	if len(idHash) != nb || len(msgHash) != nb {
		return nil, stb.ErrBadInput
	}
	if len(idKey) != 3*nb {
		return nil, stb.ErrBadPrivKey
	}
	se, err := loadPriv(c, p, idKey[:nb])
	if err != nil {
		return nil, err
	}
	defer stb.WipeWords(se)
	re := c.NewPoint()
	if err := c.SetBytes(re, idKey[nb:]); err != nil {
		return nil, stb.ErrBadPrivKey
	}

	k := mp.New(len(c.Order))
	if err := mp.RandNZMod(k, c.Order, rnd); err != nil {
		return nil, stb.ErrBadRNG
	}
	defer stb.WipeWords(k)
	rp := c.NewPoint()
	if err := c.MulG(rp, k); err != nil {
		return nil, stb.ErrBadInput
	}

	rex := make([]byte, nb)
	rpx := make([]byte, nb)
	fieldToBytes(c, rex, re.X)
	fieldToBytes(c, rpx, rp.X)
	c2 := challenge(newHash, oidDER, nb, rpx, rex, idHash, msgHash)

	// s = k - (c2 + 2^l) s_e mod q
	qf := c.QF
	eM := qf.New()
	sM := qf.New()
	kM := qf.New()
	qf.From(eM, scalarPlus2l(c, c2, p.L))
	qf.From(sM, se)
	qf.Mul(eM, eM, sM)
	qf.From(kM, k)
	qf.Sub(kM, kM, eM)
	s := mp.New(len(c.Order))
	qf.To(s, kM)
	stb.WipeWords(sM)
	stb.WipeWords(eM)
	stb.WipeWords(kM)

	sig := make([]byte, 2*nb+2*nb+nb)
	c.Bytes(sig[:2*nb], re)
	c.Bytes(sig[2*nb:4*nb], rp)
	mp.Bytes(sig[4*nb:], s)
	return sig, nil
}

// IdVerify checks an identity-based signature against the authority
// public key.
func IdVerify(p *Params, oidDER, idHash, msgHash, sig, pub []byte) error {
	c, err := p.Curve()
	if err != nil {
		return err
	}
	newHash, err := hashForOID(oidDER)
	if err != nil {
		return err
	}
	nb := p.fieldBytes()
	if len(idHash) != nb || len(msgHash) != nb {
		return stb.ErrBadInput
	}
	if len(sig) != 5*nb {
		return stb.ErrBadSig
	}
	q, err := loadPub(c, p, pub)
	if err != nil {
		return err
	}
	re := c.NewPoint()
	if err := c.SetBytes(re, sig[:2*nb]); err != nil {
		return stb.ErrBadSig
	}
	rp := c.NewPoint()
	if err := c.SetBytes(rp, sig[2*nb:4*nb]); err != nil {
		return stb.ErrBadSig
	}
	s := mp.New(len(c.Order))
	mp.SetBytes(s, sig[4*nb:])
	if mp.Cmp(s, c.Order) >= 0 {
		return stb.ErrBadSig
	}

	x, ok := idPub(c, p, newHash, oidDER, idHash, re, q)
	if !ok {
		return stb.ErrBadSig
	}

	rex := make([]byte, nb)
	rpx := make([]byte, nb)
	fieldToBytes(c, rex, re.X)
	fieldToBytes(c, rpx, rp.X)
	c2 := challenge(newHash, oidDER, nb, rpx, rex, idHash, msgHash)

	// s*G + (c2+2^l)*X must reproduce R'
	w := c.NewPoint()
	if !c.MulAddVartime(w, &c.G, s, x, scalarPlus2l(c, c2, p.L)) {
		return stb.ErrBadSig
	}
	if !mp.Eq(w.X, rp.X) || !mp.Eq(w.Y, rp.Y) {
		return stb.ErrBadSig
	}
	return nil
}
