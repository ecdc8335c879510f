//go:build tinygo && esp32

package platform

import (
	"machine"

	"stickhal/hal/halcore"

	"tinygo.org/x/drivers"
)

// Internal bus of the M5StickC family: AXP192 + MPU6886 on G21/G22.
const (
	I2C0SDA = machine.Pin(21)
	I2C0SCL = machine.Pin(22)
)

// DefaultI2CFactory configures i2c0 on the internal pins at freqHz.
func DefaultI2CFactory(freqHz uint32) halcore.I2CBusFactory {
	f := &mcuI2CFactory{buses: make(map[halcore.BusID]drivers.I2C)}
	b0 := machine.I2C0
	_ = b0.Configure(machine.I2CConfig{
		Frequency: freqHz,
		SDA:       I2C0SDA,
		SCL:       I2C0SCL,
	})
	f.buses["i2c0"] = b0
	return f
}

// DefaultPinFactory maps logical numbers directly to machine.Pin(n) (ESP32 GPIO numbering).
func DefaultPinFactory() halcore.PinFactory { return mcuPinFactory{} }

type mcuI2CFactory struct {
	buses map[halcore.BusID]drivers.I2C
}

func (f *mcuI2CFactory) ByID(id halcore.BusID) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

type mcuPinFactory struct{}

func (mcuPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 || n > 39 {
		return nil, false
	}
	return &mcuPin{p: machine.Pin(n), n: n}, true
}

type mcuPin struct {
	p machine.Pin
	n int
}

func (r *mcuPin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *mcuPin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *mcuPin) Set(level bool) { r.p.Set(level) }
func (r *mcuPin) Get() bool      { return r.p.Get() }

func (r *mcuPin) Toggle() { r.p.Set(!r.p.Get()) }

func (r *mcuPin) Number() int { return r.n }

// Raw exposes the machine pin for display drivers that take machine.Pin.
func (r *mcuPin) Raw() machine.Pin { return r.p }
