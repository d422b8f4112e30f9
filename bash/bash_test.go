package bash

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// 192 bytes of the conventional test text from the sibling standards.
var testData, _ = hex.DecodeString(
	"B194BAC80A08F53B366D008E584A5DE48504FA9D1BB6C7AC252E72C202FDCE0D" +
		"5BE3D61217B96181FE6786AD716B890B5CB0C0FF33C356B835C405AED8E07F99" +
		"E12BDC1AE28257EC703FCCF095EE8DF1C1AB76389FE678CAF7C6F860D5BB9C4F" +
		"F33C657B637C306ADD4EA7799EB23D313E98B56E27D3BCCF591E181F4C5AB793" +
		"E9DEE72C8F0C0FA62DDB49F46F73964706075316ED247A3739CBA38303A98BF6" +
		"92571F54BDB6FEE476152049FBE7874845B22BD09121CE9FD565FE4A23FF0746")

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return b
}

func TestHashEmpty(t *testing.T) {
	d := Sum256(nil)
	want := mustHex(t, "114C3DFAE373D9BCBC3602D6386F2D6A2059BA1BF9048DBAA5146A6CB775709D")
	if !bytes.Equal(d[:], want) {
		t.Fatalf("Sum256(\"\") = %X", d)
	}
}

func TestHashVectors(t *testing.T) {
	cases := []struct {
		l, n   int
		digest string
	}{
		{128, 192, "7FAB0807A00F811D25CC734244C9A55665954032F9E0F38CABB759ED3E0546B1"},
		{192, 96, "5AF41A7F1533B97E21244635113D5FFAFAEC6DD7A7C635A16660678066CCA72028CF4C467E678BFCFD16C6D2605D6F63"},
		{256, 48, "C24458D1F536462B59A53A6E1CC4EA50181C405A1176A75E3E8E764063BCDE6539995F8C56F956C90728B5FDD39F145F837D5C55AB68D6D754072DE3308E8467"},
		{128, 127, "3D7F4EFA00E9BA33FEED259986567DCF5C6D12D51057A968F14F06CC0F905961"},
		{128, 128, "972F36A72ABDDEA9D089C74B5B2372B0BCF9A797F1330F6AFA67AA4E34FC6254"},
	}
	for _, tc := range cases {
		h, err := New(tc.l)
		if err != nil {
			t.Fatalf("New(%d): %v", tc.l, err)
		}
		h.Write(testData[:tc.n])
		if got := h.Sum(nil); !bytes.Equal(got, mustHex(t, tc.digest)) {
			t.Errorf("hash(l=%d, %dB) = %X", tc.l, tc.n, got)
		}
	}
}

func TestHashIncremental(t *testing.T) {
	h := New256()
	for _, part := range [][]byte{testData[:1], testData[1:77], testData[77:150], testData[150:]} {
		h.Write(part)
	}
	want := Sum256(testData)
	if got := h.Sum(nil); !bytes.Equal(got, want[:]) {
		t.Fatal("chunked write diverges from one-shot digest")
	}
}

func TestHashSumIsReadOnly(t *testing.T) {
	h := New384()
	h.Write(testData[:30])
	d1 := h.Sum(nil)
	d2 := h.Sum(nil)
	if !bytes.Equal(d1, d2) {
		t.Fatal("Sum disturbed the running state")
	}
	h.Write(testData[30:60])
	want := Sum384(testData[:60])
	if got := h.Sum(nil); !bytes.Equal(got, want[:]) {
		t.Fatal("writing after Sum diverges")
	}
	if h.Size() != 48 || h.BlockSize() != 96 {
		t.Fatalf("Size/BlockSize = %d/%d", h.Size(), h.BlockSize())
	}
}

func TestHashBadLevel(t *testing.T) {
	for _, l := range []int{0, -16, 100, 257, 272} {
		if _, err := New(l); err == nil {
			t.Errorf("New(%d) accepted", l)
		}
	}
}

func TestPRGKeyedVectors(t *testing.T) {
	ann := mustHex(t, "B194BAC80A08F53B")
	key := mustHex(t, "E9DEE72C8F0C0FA62DDB49F46F7396470607531621D2497A3739CBA38303A98B")

	p, err := NewPRG(256, 2, ann, key)
	if err != nil {
		t.Fatalf("NewPRG: %v", err)
	}
	p.Absorb(testData[:23])

	out := make([]byte, 16)
	p.Squeeze(out)
	if !bytes.Equal(out, mustHex(t, "39ED4FECCD99E094E36582F231277A05")) {
		t.Fatalf("squeeze = %X", out)
	}

	ct := append([]byte(nil), testData[:40]...)
	if err := p.Encr(ct); err != nil {
		t.Fatalf("Encr: %v", err)
	}
	want := mustHex(t, "CC831EE61EA78CF576D03EDE86BE00AF0A95F61D114E6393E262143614D607EF1A65F95BE5E37AC5")
	if !bytes.Equal(ct, want) {
		t.Fatalf("encr = %X", ct)
	}

	p.Ratchet()
	out = out[:8]
	p.Squeeze(out)
	if !bytes.Equal(out, mustHex(t, "B3FE45D6BE804A65")) {
		t.Fatalf("post-ratchet squeeze = %X", out)
	}
}

func TestPRGDecr(t *testing.T) {
	ann := mustHex(t, "B194BAC80A08F53B")
	key := mustHex(t, "E9DEE72C8F0C0FA62DDB49F46F7396470607531621D2497A3739CBA38303A98B")

	enc, _ := NewPRG(256, 2, ann, key)
	dec, _ := NewPRG(256, 2, ann, key)
	enc.Absorb(testData[:23])
	dec.Absorb(testData[:23])
	tmp := make([]byte, 16)
	enc.Squeeze(tmp)
	dec.Squeeze(tmp)

	buf := append([]byte(nil), testData[:40]...)
	if err := enc.Encr(buf); err != nil {
		t.Fatalf("Encr: %v", err)
	}
	if err := dec.Decr(buf); err != nil {
		t.Fatalf("Decr: %v", err)
	}
	if !bytes.Equal(buf, testData[:40]) {
		t.Fatal("decrypt did not invert encrypt")
	}

	// The two states stay synchronised after the transform.
	a, b := make([]byte, 24), make([]byte, 24)
	enc.Squeeze(a)
	dec.Squeeze(b)
	if !bytes.Equal(a, b) {
		t.Fatal("states diverged after encrypt/decrypt")
	}
}

func TestPRGKeyless(t *testing.T) {
	p, err := NewPRG(128, 1, nil, nil)
	if err != nil {
		t.Fatalf("NewPRG: %v", err)
	}
	p.Absorb(testData[:100])
	out := make([]byte, 32)
	p.Squeeze(out)
	if !bytes.Equal(out, mustHex(t, "0C58887274C109C1E0489FBE4BD5685B092C6D2A50C0A54BC91372DC0B8E1CCB")) {
		t.Fatalf("keyless squeeze = %X", out)
	}
	if err := p.Encr(out); err == nil {
		t.Fatal("keyless state agreed to encrypt")
	}
	if err := p.Decr(out); err == nil {
		t.Fatal("keyless state agreed to decrypt")
	}
}

func TestPRGChunkedMatchesOneShot(t *testing.T) {
	one, _ := NewPRG(192, 2, nil, nil)
	one.Absorb(testData)
	a := make([]byte, 64)
	one.Squeeze(a)

	many, _ := NewPRG(192, 2, nil, nil)
	many.AbsorbStart()
	many.AbsorbStep(testData[:5])
	many.AbsorbStep(testData[5:180])
	many.AbsorbStep(testData[180:])
	b := make([]byte, 64)
	many.SqueezeStart()
	many.SqueezeStep(b[:1])
	many.SqueezeStep(b[1:])
	if !bytes.Equal(a, b) {
		t.Fatal("chunked command diverges from one-shot")
	}
}

func TestPRGRestart(t *testing.T) {
	key := mustHex(t, "E9DEE72C8F0C0FA62DDB49F46F7396470607531621D2497A3739CBA38303A98B")

	p, _ := NewPRG(256, 1, nil, nil)
	p.Absorb(testData[:10])
	if err := p.Restart(nil, key); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	buf := make([]byte, 16)
	if err := p.Encr(buf); err != nil {
		t.Fatalf("Encr after keyed restart: %v", err)
	}

	// History matters: a restarted state differs from a fresh one.
	q, _ := NewPRG(256, 1, nil, key)
	a, b := make([]byte, 16), make([]byte, 16)
	p.Squeeze(a)
	q.Squeeze(b)
	if bytes.Equal(a, b) {
		t.Fatal("restart lost the accumulated history")
	}
}

func TestPRGParamChecks(t *testing.T) {
	key := make([]byte, 32)
	if _, err := NewPRG(160, 1, nil, key); err == nil {
		t.Error("accepted level 160")
	}
	if _, err := NewPRG(128, 3, nil, key); err == nil {
		t.Error("accepted capacity factor 3")
	}
	if _, err := NewPRG(128, 1, make([]byte, 3), key); err == nil {
		t.Error("accepted annotation of 3 bytes")
	}
	if _, err := NewPRG(128, 1, make([]byte, 64), key); err == nil {
		t.Error("accepted annotation of 64 bytes")
	}
	if _, err := NewPRG(256, 1, nil, make([]byte, 16)); err == nil {
		t.Error("accepted a 16-byte key at level 256")
	}
	if _, err := NewPRG(128, 1, nil, make([]byte, 18)); err == nil {
		t.Error("accepted a key of 18 bytes")
	}
}
