// Package button turns a raw GPIO level into a debounced press/release
// state with edge timestamps. It is polled from the control loop and never
// blocks.
package button

import (
	"stickhal/hal/halcore"
	"stickhal/x/timex"
)

// Button is one debounced input. All times are clock milliseconds.
type Button struct {
	pin      halcore.GPIOPin
	clk      timex.Clock
	invert   bool   // true: a low level means pressed
	debounce uint32 // minimum ms between accepted transitions

	state      bool
	lastState  bool
	changed    bool
	time       uint32 // time of the latest poll
	lastTime   uint32 // time of the poll before that
	lastChange uint32
	pressTime  uint32
}

// New samples the pin once to seed the accepted state.
func New(pin halcore.GPIOPin, invert bool, debounceMs uint32, clk timex.Clock) *Button {
	now := clk.NowMs()
	b := &Button{
		pin:        pin,
		clk:        clk,
		invert:     invert,
		debounce:   debounceMs,
		time:       now,
		lastTime:   now,
		lastChange: now,
		pressTime:  now,
	}
	b.state = b.sample()
	b.lastState = b.state
	return b
}

func (b *Button) sample() bool { return b.pin.Get() != b.invert }

// Read polls the pin and returns the accepted state. Samples taken within
// the debounce window of the last accepted transition are ignored.
func (b *Button) Read() bool {
	now := b.clk.NowMs()
	b.lastTime, b.time = b.time, now

	if now-b.lastChange < b.debounce {
		b.changed = false
		return b.state
	}
	b.lastState = b.state
	b.state = b.sample()
	b.changed = b.state != b.lastState
	if b.changed {
		b.lastChange = now
		if b.state {
			b.pressTime = now
		}
	}
	return b.state
}

func (b *Button) IsPressed() bool  { return b.state }
func (b *Button) IsReleased() bool { return !b.state }

// Changed reports whether the last Read accepted a transition.
func (b *Button) Changed() bool { return b.changed }

// WasPressed reports a release→press transition on the last Read.
func (b *Button) WasPressed() bool { return b.state && b.changed }

// WasReleased reports a press→release transition on the last Read.
func (b *Button) WasReleased() bool { return !b.state && b.changed }

// PressedFor reports the button held for at least ms as of the last Read.
func (b *Button) PressedFor(ms uint32) bool { return b.state && b.time-b.lastChange >= ms }

// ReleasedFor reports the button released for at least ms as of the last Read.
func (b *Button) ReleasedFor(ms uint32) bool { return !b.state && b.time-b.lastChange >= ms }

func (b *Button) LastChange() uint32 { return b.lastChange }
func (b *Button) PressTime() uint32  { return b.pressTime }

// PollInterval is the gap between the last two Reads.
func (b *Button) PollInterval() uint32 { return b.time - b.lastTime }

func (b *Button) Pin() halcore.GPIOPin { return b.pin }
