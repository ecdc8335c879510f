package simwindow

import "stickhal/hal/platform"

// Key is a stick control bound to the keyboard.
type Key uint8

const (
	KeyA Key = iota
	KeyB
	KeyPowerShort
	KeyPowerLong
	KeyQuit
)

// KeyState is the edge view of the keyboard for one frame.
type KeyState interface {
	JustPressed(Key) bool
	JustReleased(Key) bool
}

// PowerKey latches power-key presses; *stick.SimBoard implements it.
type PowerKey interface {
	PressPower(long bool)
}

// Controls routes key edges to the simulated inputs. Buttons are active
// low. Pins only change on edges so the console can drive them too.
type Controls struct {
	A, B  *platform.FakePin
	Power PowerKey
}

// Apply handles one frame of input and reports whether quit was asked for.
func (c *Controls) Apply(ks KeyState) (quit bool) {
	button := func(k Key, p *platform.FakePin) {
		if p == nil {
			return
		}
		if ks.JustPressed(k) {
			p.Set(false)
		}
		if ks.JustReleased(k) {
			p.Set(true)
		}
	}
	button(KeyA, c.A)
	button(KeyB, c.B)
	if c.Power != nil {
		if ks.JustPressed(KeyPowerShort) {
			c.Power.PressPower(false)
		}
		if ks.JustPressed(KeyPowerLong) {
			c.Power.PressPower(true)
		}
	}
	return ks.JustPressed(KeyQuit)
}
