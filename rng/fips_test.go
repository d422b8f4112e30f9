package rng

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stb34101.dev/belt"
)

// ctrSample derives a deterministic 2500-byte sample from the belt
// keystream so the statistical tests have a fixed verdict.
func ctrSample(t *testing.T, key, iv []byte) []byte {
	t.Helper()
	sample := make([]byte, SampleSize)
	require.NoError(t, belt.CTR(sample, sample, key, iv))
	return sample
}

var (
	testKey  = mustHex("E9DEE72C8F0C0FA62DDB49F46F73964706075316ED247A3739CBA38303A98BF6")
	testKey2 = mustHex("92BD9B1CE5D141015445FBC95E4D0EF2682080AA227D642F2687F93490405511")
	testIV   = mustHex("BE32971343FC9A48A02A885F194B09A1")
	testIV2  = mustHex("7ECDA4D01544AF8CA58450BF66D2E88A")
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestSamplePasses(t *testing.T) {
	sample := ctrSample(t, testKey, testIV)
	assert.True(t, MonobitOK(sample))
	assert.True(t, PokerOK(sample))
	assert.True(t, RunsOK(sample))
	assert.True(t, LongRunsOK(sample))
	assert.True(t, SampleOK(sample))
}

func TestMonobitRejects(t *testing.T) {
	assert.False(t, MonobitOK(make([]byte, SampleSize)))
	assert.False(t, MonobitOK(make([]byte, SampleSize-1)))
}

func TestPokerRejects(t *testing.T) {
	sample := make([]byte, SampleSize)
	for i := range sample {
		sample[i] = 0x55
	}
	// balanced bits, single half-byte value
	assert.True(t, MonobitOK(sample))
	assert.False(t, PokerOK(sample))
}

func TestRunsRejects(t *testing.T) {
	sample := make([]byte, SampleSize)
	for i := range sample {
		sample[i] = 0x55
	}
	assert.False(t, RunsOK(sample))
}

func TestLongRunsRejects(t *testing.T) {
	sample := ctrSample(t, testKey, testIV)
	require.True(t, LongRunsOK(sample))
	for i := 100; i < 104; i++ {
		sample[i] = 0xFF
	}
	assert.False(t, LongRunsOK(sample))
	assert.False(t, SampleOK(sample))
}
