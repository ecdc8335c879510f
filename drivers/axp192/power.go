package axp192

import (
	"stickhal/errcode"
	"stickhal/x/mathx"
)

// Backlight voltage range covered by brightness 0..100.
const (
	BacklightMinMV = 2500
	BacklightMaxMV = 3200

	ldoFloorMV = 1800
	ldoStepMV  = 100
)

// BacklightMillivolts maps brightness 0..100 onto the LDO2 voltage range.
// The level is not validated here.
func BacklightMillivolts(level int) int32 {
	return mathx.Map(int32(level), 0, 100, BacklightMinMV, BacklightMaxMV)
}

// LDOField encodes a voltage as the 4-bit LDO2/LDO3 field: 100mV steps
// from 1.8V, with anything below 1.8V clamped to 0.
func LDOField(mv int32) byte {
	if mv < ldoFloorMV {
		return 0
	}
	return byte(mathx.Min((mv-ldoFloorMV)/ldoStepMV, 0x0F))
}

// SetScreenBrightness sets the backlight (LDO2) for level in [0,100].
// Out-of-range levels fail with errcode.InvalidParams before any bus
// traffic. The LDO3 nibble of the shared voltage register is preserved.
func (d *Device) SetScreenBrightness(level int) error {
	if !mathx.Between(level, 0, 100) {
		return errcode.New(errcode.InvalidParams, "axp192.SetScreenBrightness", "level must be 0..100")
	}
	field := LDOField(BacklightMillivolts(level))
	return d.port.Update8(regLDO23Voltage, 0xF0, field<<4)
}

// Sleep arms wake-on-short-press, floats GPIO0, stops the ADCs and turns
// off every rail except DC-DC1. The first failing step aborts the rest.
func (d *Device) Sleep() error {
	p := d.port
	if err := p.Update8(regVOffSetting, 0, vOffWakeShortPress); err != nil {
		return err
	}
	if err := p.Update8(regGPIO0Ctl, 0, 0x07); err != nil {
		return err
	}
	if err := p.Write8(regADCEnable1, 0x00); err != nil {
		return err
	}
	return p.Update8(regPowerOutCtl, ^byte(0xA1), 0)
}

// PEK latch bits in the value returned by ButtonState.
const (
	PEKLongPress  = 0x01
	PEKShortPress = 0x02
)

// ButtonState returns the power-key latch and clears it when set. It never
// fails: a read error reads as "no press" and a failed clear is ignored.
func (d *Device) ButtonState() uint8 {
	v, _ := d.ButtonStateErr()
	return v
}

// ButtonStateErr is ButtonState with the read error exposed.
func (d *Device) ButtonStateErr() (uint8, error) {
	v, err := d.port.Read8(regIRQStatus3)
	if err != nil {
		return 0, err
	}
	if v != 0 {
		_ = d.port.Write8(regIRQStatus3, pekClear)
	}
	return v, nil
}
