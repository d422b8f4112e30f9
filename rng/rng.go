package rng

import (
	"crypto/cipher"
	"hash"
	"sync"

	"github.com/minio/sha256-simd"
	"go.uber.org/zap"

	stb "stb34101.dev"
	"stb34101.dev/belt"
)

var (
	logger = zap.NewNop()

	mu   sync.Mutex
	std  *drbg
	refs int
)

// SetLogger routes source availability diagnostics. Must be called
// before Create.
func SetLogger(l *zap.Logger) { logger = l }

// drbg is the generator state: an entropy accumulator keying a belt
// counter-mode keystream. All access goes through the package mutex.
type drbg struct {
	acc  hash.Hash
	c    *belt.Cipher
	st   cipher.Stream
	srcs []source
}

// newDRBG health-checks the candidate sources and seeds the generator
// from those that pass. Start-up requires one hardware source or two
// others.
func newDRBG(cands []source) (*drbg, error) {
	d := &drbg{acc: sha256.New()}
	hw, sw, failed := 0, 0, 0
	sample := make([]byte, SampleSize)
	for _, s := range cands {
		if err := s.read(sample); err != nil {
			logger.Debug("entropy source unavailable",
				zap.String("source", s.name), zap.Error(err))
			continue
		}
		if !SampleOK(sample) {
			failed++
			logger.Warn("entropy source failed statistical tests",
				zap.String("source", s.name))
			continue
		}
		d.acc.Write(sample)
		d.srcs = append(d.srcs, s)
		if s.hw {
			hw++
		} else {
			sw++
		}
		logger.Debug("entropy source accepted",
			zap.String("source", s.name), zap.Bool("hardware", s.hw))
	}
	stb.Wipe(sample)
	if hw == 0 && sw < 2 {
		if hw+sw == 0 && failed > 0 {
			return nil, stb.ErrStatTest
		}
		return nil, stb.ErrNotEnoughEntropy
	}
	if err := d.rekey(); err != nil {
		return nil, err
	}
	return d, nil
}

// rekey squeezes a fresh key from the accumulator and restarts the
// counter stream. The accumulator keeps absorbing afterwards.
func (d *drbg) rekey() error {
	key := d.acc.Sum(nil)
	c, err := belt.NewCipher(key)
	stb.Wipe(key)
	if err != nil {
		return err
	}
	if d.c != nil {
		d.c.Wipe()
	}
	d.c = c
	var iv [belt.BlockSize]byte
	st, err := belt.NewCTR(c, iv[:])
	if err != nil {
		return err
	}
	d.st = st
	return nil
}

// step absorbs fresh entropy and XORs keystream into buf.
func (d *drbg) step(buf []byte) {
	var fresh [32]byte
	n := len(buf)
	if n > len(fresh) {
		n = len(fresh)
	}
	if n == 0 {
		return
	}
	for _, s := range d.srcs {
		if err := s.read(fresh[:n]); err != nil {
			logger.Debug("entropy source read failed",
				zap.String("source", s.name), zap.Error(err))
			continue
		}
		d.acc.Write(fresh[:n])
	}
	stb.Wipe(fresh[:])
	d.st.XORKeyStream(buf, buf)
}

func (d *drbg) wipe() {
	if d.c != nil {
		d.c.Wipe()
	}
	d.acc.Reset()
	d.st = nil
	d.srcs = nil
}

// Create opens a reference to the process-wide generator, initializing
// it on first use. Initialization polls every entropy source for a
// statistical sample and may block for a noticeable time.
func Create() error {
	mu.Lock()
	defer mu.Unlock()
	if std != nil {
		refs++
		return nil
	}
	d, err := newDRBG(defaultSources())
	if err != nil {
		return err
	}
	std = d
	refs = 1
	return nil
}

// Close releases a reference. The state is zeroised when the last
// reference goes away.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if std == nil {
		return
	}
	refs--
	if refs > 0 {
		return
	}
	std.wipe()
	std = nil
	timerStop()
}

// StepR XORs generator output into buf, absorbing fresh entropy first.
func StepR(buf []byte) error {
	mu.Lock()
	defer mu.Unlock()
	if std == nil {
		return stb.ErrBadRNG
	}
	std.step(buf)
	return nil
}

// Rekey derives a fresh keystream key from the accumulated entropy.
func Rekey() error {
	mu.Lock()
	defer mu.Unlock()
	if std == nil {
		return stb.ErrBadRNG
	}
	return std.rekey()
}

// Read fills p with generator output. The signature matches io.Reader
// so Reader values can feed rejection samplers directly.
func Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	if err := StepR(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Reader adapts the process-wide generator to io.Reader.
type Reader struct{}

func (Reader) Read(p []byte) (int, error) { return Read(p) }
