package rng

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stb "stb34101.dev"
	"stb34101.dev/belt"
)

// fakeSource yields a deterministic belt keystream, so whether it
// passes the health check is fixed by its key and iv.
func fakeSource(name string, hw bool, key, iv []byte) source {
	pos := 0
	return source{name: name, hw: hw, read: func(buf []byte) error {
		c, err := belt.NewCipher(key)
		if err != nil {
			return err
		}
		st, err := belt.NewCTR(c, iv)
		if err != nil {
			return err
		}
		skip := make([]byte, pos)
		st.XORKeyStream(skip, skip)
		for i := range buf {
			buf[i] = 0
		}
		st.XORKeyStream(buf, buf)
		pos += len(buf)
		return nil
	}}
}

// flatSource always returns zero bytes and therefore fails the tests.
func flatSource(name string, hw bool) source {
	return source{name: name, hw: hw, read: func(buf []byte) error {
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}}
}

// deadSource fails to read at all.
func deadSource(name string, hw bool) source {
	return source{name: name, hw: hw, read: func(buf []byte) error {
		return stb.ErrBadEntropy
	}}
}

func TestHealthRequiresTwoSoftSources(t *testing.T) {
	_, err := newDRBG([]source{
		deadSource("trng", true),
		deadSource("trng2", true),
		fakeSource("sys", false, testKey, testIV),
		flatSource("sys2", false),
		deadSource("timer", false),
	})
	assert.Equal(t, stb.ErrNotEnoughEntropy, err)

	d, err := newDRBG([]source{
		deadSource("trng", true),
		fakeSource("sys", false, testKey, testIV),
		fakeSource("timer", false, testKey2, testIV2),
	})
	require.NoError(t, err)
	assert.Len(t, d.srcs, 2)
}

func TestHealthReportsStatTestFailure(t *testing.T) {
	// every readable source flunks the tests
	_, err := newDRBG([]source{
		flatSource("trng", true),
		flatSource("sys", false),
		deadSource("timer", false),
	})
	assert.Equal(t, stb.ErrStatTest, err)

	// no source yields a sample at all
	_, err = newDRBG([]source{
		deadSource("trng", true),
		deadSource("sys", false),
	})
	assert.Equal(t, stb.ErrNotEnoughEntropy, err)
}

func TestHealthAcceptsOneHardwareSource(t *testing.T) {
	d, err := newDRBG([]source{
		fakeSource("trng", true, testKey, testIV),
		deadSource("sys", false),
		flatSource("timer", false),
	})
	require.NoError(t, err)
	assert.Len(t, d.srcs, 1)
}

func TestStepProducesOutput(t *testing.T) {
	d, err := newDRBG([]source{
		fakeSource("sys", false, testKey, testIV),
		fakeSource("sys2", false, testKey2, testIV2),
	})
	require.NoError(t, err)

	a := make([]byte, 64)
	b := make([]byte, 64)
	d.step(a)
	d.step(b)
	assert.False(t, bytes.Equal(a, b), "keystream repeated")
	assert.False(t, stb.IsZero(a) && stb.IsZero(b))

	require.NoError(t, d.rekey())
	c := make([]byte, 64)
	d.step(c)
	assert.False(t, bytes.Equal(b, c))
}

func TestCreateCloseRefcount(t *testing.T) {
	require.NoError(t, Create())
	require.NoError(t, Create())

	buf := make([]byte, 32)
	n, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.False(t, stb.IsZero(buf))

	require.NoError(t, Rekey())
	require.NoError(t, StepR(buf))

	Close()
	_, err = Read(buf)
	require.NoError(t, err, "generator closed while referenced")
	Close()
	_, err = Read(buf)
	assert.Equal(t, stb.ErrBadRNG, err)
	assert.Equal(t, stb.ErrBadRNG, StepR(buf))
	assert.Equal(t, stb.ErrBadRNG, Rekey())
}

func TestReaderFeedsRejectionSampler(t *testing.T) {
	require.NoError(t, Create())
	defer Close()

	var r Reader
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}
