//go:build !tinygo

package platform

import (
	"stickhal/hal/halcore"

	"tinygo.org/x/drivers"
)

type hostI2CFactory struct {
	buses map[halcore.BusID]drivers.I2C
}

func (f *hostI2CFactory) ByID(id halcore.BusID) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// NewI2CFactory serves the given transports by id.
func NewI2CFactory(buses map[halcore.BusID]drivers.I2C) halcore.I2CBusFactory {
	return &hostI2CFactory{buses: buses}
}

// DefaultI2CFactory creates an empty simulated bus "i2c0". The frequency
// is accepted for signature parity with the board build and ignored.
func DefaultI2CFactory(_ uint32) halcore.I2CBusFactory {
	return NewI2CFactory(map[halcore.BusID]drivers.I2C{"i2c0": NewSimI2C()})
}

// DefaultPinFactory provides a host GPIO factory.
func DefaultPinFactory() halcore.PinFactory { return &HostPinFactory{} }
