// Package halcore holds the small set of hardware-facing interfaces the
// stick HAL is written against. Concrete implementations live in
// hal/platform (host simulator, serial bridge) and the TinyGo board files.
package halcore

import "tinygo.org/x/drivers"

// BusID names one physical bus, e.g. "i2c0".
type BusID string

// ---- Buses ----

// I2CBusFactory injects configured I²C instances by id.
// Uses the TinyGo drivers.I2C interface to remain compatible on MCU builds.
type I2CBusFactory interface {
	ByID(id BusID) (drivers.I2C, bool)
}

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// PinFactory supplies GPIO pins by the board's number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}
