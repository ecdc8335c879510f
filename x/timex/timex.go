package timex

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic millisecond source. Wrap-around at 2^32 ms is
// tolerated by callers that only subtract timestamps.
type Clock interface {
	NowMs() uint32
}

// Monotonic counts milliseconds since it was created.
type Monotonic struct {
	start time.Time
}

func NewMonotonic() *Monotonic { return &Monotonic{start: time.Now()} }

func (m *Monotonic) NowMs() uint32 {
	return uint32(time.Since(m.start) / time.Millisecond)
}

// Manual is a hand-driven clock for tests and the simulator.
type Manual struct {
	ms atomic.Uint32
}

func (m *Manual) NowMs() uint32     { return m.ms.Load() }
func (m *Manual) Set(ms uint32)     { m.ms.Store(ms) }
func (m *Manual) Advance(ms uint32) { m.ms.Add(ms) }

// Since returns now-then with wrap-around handled by unsigned arithmetic.
func Since(c Clock, then uint32) uint32 { return c.NowMs() - then }

// PeriodFromHz returns a period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Second / time.Duration(freqHz)
}
