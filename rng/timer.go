package rng

import (
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	stb "stb34101.dev"
)

// The jitter source extracts one bit per scheduler yield from the
// parity of consecutive clock differences. On platforms whose clock is
// coarser than a nanosecond a spinning counter goroutine stands in for
// the clock.

var (
	timerOnce sync.Once
	timerFine bool

	surMu      sync.Mutex
	surRunning bool
	surStop    chan struct{}
	surCtr     atomic.Uint64
)

// fineClock measures the granularity of the monotonic clock. The clock
// qualifies when a nonzero reading difference below a microsecond is
// observed.
func fineClock() bool {
	start := time.Now()
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		t := int64(time.Since(start))
		if d := t - prev; d > 0 && d < 1000 {
			return true
		}
		prev = t
	}
	return false
}

// surStart launches the counter goroutine and verifies it advances at
// no less than 10^8 increments per second.
func surStart() error {
	surMu.Lock()
	defer surMu.Unlock()
	if !surRunning {
		surStop = make(chan struct{})
		go func(stop chan struct{}) {
			for {
				select {
				case <-stop:
					return
				default:
					surCtr.Add(1)
				}
			}
		}(surStop)
		surRunning = true
	}
	before := surCtr.Load()
	time.Sleep(time.Millisecond)
	if surCtr.Load()-before < 100000 {
		return stb.ErrBadEntropy
	}
	return nil
}

// timerStop halts the surrogate counter. Called when the last generator
// reference is released.
func timerStop() {
	surMu.Lock()
	defer surMu.Unlock()
	if surRunning {
		close(surStop)
		surRunning = false
	}
}

func timerRead(buf []byte) error {
	timerOnce.Do(func() { timerFine = fineClock() })
	var tick func() uint64
	if timerFine {
		start := time.Now()
		tick = func() uint64 { return uint64(time.Since(start)) }
	} else {
		if err := surStart(); err != nil {
			return err
		}
		tick = surCtr.Load
	}
	prev := tick()
	for i := range buf {
		var b byte
		for j := 0; j < 8; j++ {
			runtime.Gosched()
			t := tick()
			b |= byte(bits.OnesCount64(t-prev)&1) << uint(j)
			prev = t
		}
		buf[i] = b
	}
	return nil
}
