package bake

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stb "stb34101.dev"
	"stb34101.dev/belt"
	"stb34101.dev/bign"
)

var testData = mustHexBytes("" +
	"B194BAC80A08F53B366D008E584A5DE4" +
	"8504FA9D1BB6C7AC252E72C202FDCE0D" +
	"5BE3D61217B96181FE6786AD716B890B" +
	"5CB0C0FF33C356B835C405AED8E07F99" +
	"E12BDC1AE28257EC703FCCF095EE8DF1" +
	"C1AB76389FE678CAF7C6F860D5BB9C4F" +
	"F33C657B637C306ADD4EA7799EB23D31" +
	"3E98B56E27D3BCCF591E181F4C5AB793")

func mustHexBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// fixedReader replays a byte string, so rejection samplers that accept
// the first draw become deterministic.
type fixedReader struct {
	data []byte
	pos  int
}

func (r *fixedReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.data[(r.pos+i)%len(r.data)]
	}
	r.pos += len(p)
	return len(p), nil
}

func testParams(t *testing.T) *bign.Params {
	t.Helper()
	p, err := bign.StdParams(bign.OIDCurve256v1)
	require.NoError(t, err)
	return p
}

// newPair builds a client and terminal instance with deterministic
// randomness. The client private key is testData[:32], the terminal's
// is testData[32:64].
func newPair(t *testing.T) (*Client, *Terminal) {
	t.Helper()
	p := testParams(t)
	termPriv := testData[32:64]
	termPub, err := bign.PubKeyCalc(p, termPriv)
	require.NoError(t, err)

	cl, err := NewClient(p, testData[:32], termPub,
		[]byte("client hello"), []byte("terminal hello"),
		&fixedReader{data: testData[32:96]})
	require.NoError(t, err)
	tr, err := NewTerminal(p, termPriv,
		[]byte("client hello"), []byte("terminal hello"),
		&fixedReader{data: testData[96:128]})
	require.NoError(t, err)
	return cl, tr
}

func TestHandshake(t *testing.T) {
	cl, tr := newPair(t)

	assert.Nil(t, cl.Key())
	assert.Nil(t, tr.Key())

	m2, err := cl.Step2()
	require.NoError(t, err)
	assert.Len(t, m2, 112)

	m3, err := tr.Step3(m2)
	require.NoError(t, err)
	assert.Len(t, m3, belt.MACSize+SecretSize)

	m4, err := cl.Step4(m3, false)
	require.NoError(t, err)
	assert.Nil(t, m4)

	require.NotNil(t, cl.Key())
	assert.Equal(t, tr.Key(), cl.Key())
	assert.Len(t, cl.Key(), SecretSize)
}

func TestHandshakeWithCert(t *testing.T) {
	cl, tr := newPair(t)
	p := testParams(t)

	m2, err := cl.Step2()
	require.NoError(t, err)
	m3, err := tr.Step3(m2)
	require.NoError(t, err)
	m4, err := cl.Step4(m3, true)
	require.NoError(t, err)
	require.Len(t, m4, 96+belt.MACSize)

	pub, err := tr.Step5(m4)
	require.NoError(t, err)
	want, err := bign.PubKeyCalc(p, testData[:32])
	require.NoError(t, err)
	assert.Equal(t, want, pub)
	assert.Equal(t, tr.Key(), cl.Key())
}

func TestConfirmationMismatch(t *testing.T) {
	cl, tr := newPair(t)

	m2, err := cl.Step2()
	require.NoError(t, err)
	m3, err := tr.Step3(m2)
	require.NoError(t, err)

	bad := append([]byte(nil), m3...)
	bad[0] ^= 1
	_, err = cl.Step4(bad, false)
	assert.ErrorIs(t, err, stb.ErrAuth)
	assert.Nil(t, cl.Key())
}

func TestStep3Rejects(t *testing.T) {
	cl, tr := newPair(t)

	m2, err := cl.Step2()
	require.NoError(t, err)

	_, err = tr.Step3(m2[:64])
	assert.ErrorIs(t, err, stb.ErrBadInput)

	// corrupt the wrapped secret
	bad := append([]byte(nil), m2...)
	bad[70] ^= 1
	_, err = tr.Step3(bad)
	assert.ErrorIs(t, err, stb.ErrBadKeyToken)

	// ephemeral off the curve
	bad = append([]byte(nil), m2...)
	for i := range bad[:64] {
		bad[i] = 0
	}
	_, err = tr.Step3(bad)
	assert.ErrorIs(t, err, stb.ErrBadInput)
}

func TestStep5Rejects(t *testing.T) {
	cl, tr := newPair(t)

	_, err := tr.Step5(make([]byte, 104))
	assert.ErrorIs(t, err, stb.ErrBadInput)

	m2, err := cl.Step2()
	require.NoError(t, err)
	m3, err := tr.Step3(m2)
	require.NoError(t, err)
	m4, err := cl.Step4(m3, true)
	require.NoError(t, err)

	_, err = tr.Step5(m4[:40])
	assert.ErrorIs(t, err, stb.ErrBadInput)

	// broken tag
	bad := append([]byte(nil), m4...)
	bad[len(bad)-1] ^= 1
	_, err = tr.Step5(bad)
	assert.ErrorIs(t, err, stb.ErrAuth)

	// consistent tag over a ciphertext that decrypts to a wrong proof
	bad = append([]byte(nil), m4...)
	bad[80] ^= 1
	tag, err := belt.MAC(bad[:96], tr.k[1])
	require.NoError(t, err)
	copy(bad[96:], tag[:])
	_, err = tr.Step5(bad)
	assert.ErrorIs(t, err, stb.ErrBadCert)

	// the untampered certificate still verifies
	pub, err := tr.Step5(m4)
	require.NoError(t, err)
	assert.Len(t, pub, 64)
}

func TestWipe(t *testing.T) {
	cl, tr := newPair(t)

	m2, err := cl.Step2()
	require.NoError(t, err)
	m3, err := tr.Step3(m2)
	require.NoError(t, err)
	_, err = cl.Step4(m3, false)
	require.NoError(t, err)

	cl.Wipe()
	tr.Wipe()
	assert.Nil(t, cl.Key())
	assert.Nil(t, tr.Key())
	assert.True(t, stb.IsZero(cl.priv))
}
