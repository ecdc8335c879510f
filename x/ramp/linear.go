package ramp

import "stickhal/x/mathx"

// Linear is a caller-driven integer ramp from one level to another in a
// fixed number of equal steps. It never blocks; the owner polls Level with
// the current time from its own loop.
type Linear struct {
	from, to  int32
	steps     int32
	stepMs    uint32
	startMs   uint32
	lastLevel int32
}

// NewLinear prepares a ramp that starts at startMs. steps==0 or
// durationMs==0 produce a ramp that is already at 'to'.
func NewLinear(from, to int, durationMs uint32, steps uint16, startMs uint32) *Linear {
	r := &Linear{from: int32(from), to: int32(to), steps: int32(steps), startMs: startMs, lastLevel: int32(from)}
	if steps == 0 || durationMs == 0 {
		r.steps = 0
		r.lastLevel = r.to
		return r
	}
	r.stepMs = mathx.Max(durationMs/uint32(steps), 1)
	return r
}

// Level returns the level at nowMs and whether the ramp has reached 'to'.
// changed reports a level different from the previous call.
func (r *Linear) Level(nowMs uint32) (level int, changed, done bool) {
	prev := r.lastLevel
	if r.steps == 0 {
		return int(r.to), prev != r.to, true
	}
	i := int32((nowMs - r.startMs) / r.stepMs)
	if i >= r.steps {
		r.lastLevel = r.to
		return int(r.to), prev != r.to, true
	}
	lvl := r.from + (r.to-r.from)*i/r.steps
	r.lastLevel = mathx.Clamp(lvl, mathx.Min(r.from, r.to), mathx.Max(r.from, r.to))
	return int(r.lastLevel), prev != r.lastLevel, false
}
