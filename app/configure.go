package app

import (
	"stickhal/hal/halcore"
	"stickhal/hal/panel"
	"stickhal/hal/stick"
	"stickhal/services/config"
)

// DeviceOptions maps a validated config onto stick.Options. Transports,
// clock and tracing are left for the caller to fill in.
func DeviceOptions(c config.Config) (stick.Options, error) {
	b, err := stick.LookupBoard(c.Board)
	if err != nil {
		return stick.Options{}, err
	}
	if c.Panel != "" && c.Panel != b.Panel.Name {
		v, err := panel.Lookup(c.Panel)
		if err != nil {
			return stick.Options{}, err
		}
		b.Panel = v
	}
	return stick.Options{
		Board:            b,
		BusID:            halcore.BusID(c.I2C.ID),
		I2CFrequency:     c.I2C.FrequencyHz,
		DebounceMs:       c.Buttons.DebounceMs,
		KeepButtonLevels: !c.Buttons.Invert,
	}, nil
}

// LoopConfig is the part of c the control loop reads. The backlight is
// left to the ramp, so the device opens at the chip default.
func LoopConfig(c config.Config) Config {
	return Config{
		PeriodMs:   c.Loop.PeriodMs,
		Brightness: c.Brightness,
		RampMs:     c.Ramp.DurationMs,
		RampSteps:  c.Ramp.Steps,
	}
}
