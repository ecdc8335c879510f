package axp192

import "stickhal/drivers/regio"

// BatteryVoltage in volts.
func (d *Device) BatteryVoltage() (float32, error) {
	raw, err := d.port.Read12(regBattVoltage)
	if err != nil {
		return 0, err
	}
	return regio.Scale(float32(raw), battVoltLSB, 0), nil
}

// BatteryCurrent in mA; negative while discharging.
func (d *Device) BatteryCurrent() (float32, error) {
	in, err := d.port.Read13(regBattCharge)
	if err != nil {
		return 0, err
	}
	out, err := d.port.Read13(regBattDisch)
	if err != nil {
		return 0, err
	}
	return NetCurrent(in, out), nil
}

// NetCurrent converts charge/discharge ADC words to net battery current (mA).
func NetCurrent(in, out uint16) float32 {
	return (float32(in) - float32(out)) * battCurLSB
}

// BusVoltage is the VBUS (USB) voltage in volts.
func (d *Device) BusVoltage() (float32, error) {
	raw, err := d.port.Read12(regVBUSVoltage)
	if err != nil {
		return 0, err
	}
	return regio.Scale(float32(raw), vbusVoltLSB, 0), nil
}

// BusCurrent is the VBUS current in mA.
func (d *Device) BusCurrent() (float32, error) {
	raw, err := d.port.Read12(regVBUSCurrent)
	if err != nil {
		return 0, err
	}
	return regio.Scale(float32(raw), vbusCurLSB, 0), nil
}

// DieTemperature of the AXP192 in °C.
func (d *Device) DieTemperature() (float32, error) {
	raw, err := d.port.Read12(regDieTemp)
	if err != nil {
		return 0, err
	}
	return regio.Scale(float32(raw), dieTempLSB, dieTempOffset), nil
}

// PowerSnapshot is one pass over every monitored channel.
type PowerSnapshot struct {
	BatteryV  float32
	BatteryMA float32
	BusV      float32
	BusMA     float32
	TempC     float32
}

// Rails reads every channel, stopping at the first error.
func (d *Device) Rails() (PowerSnapshot, error) {
	var s PowerSnapshot
	var err error
	if s.BatteryV, err = d.BatteryVoltage(); err != nil {
		return s, err
	}
	if s.BatteryMA, err = d.BatteryCurrent(); err != nil {
		return s, err
	}
	if s.BusV, err = d.BusVoltage(); err != nil {
		return s, err
	}
	if s.BusMA, err = d.BusCurrent(); err != nil {
		return s, err
	}
	s.TempC, err = d.DieTemperature()
	return s, err
}
