package axp192

import (
	"stickhal/drivers/regio"

	"tinygo.org/x/drivers"
)

// Config selects which rails stay off after Configure. The zero value
// enables everything, which is what the stick needs to boot its display.
type Config struct {
	Address      uint16
	DisableLDO2  bool // backlight
	DisableLDO3  bool // display logic
	DisableDCDC1 bool
	DisableDCDC3 bool
	DisableRTC   bool // RTC backup battery charging
	DisableLDO0  bool // microphone rail on GPIO0
}

func DefaultConfig() Config { return Config{Address: AddressDefault} }

// Device is not internally synchronised; one control loop owns it.
type Device struct {
	port *regio.Port
	cfg  Config
}

// New binds the driver to a bus without touching the chip.
func New(i2c drivers.I2C, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = AddressDefault
	}
	return &Device{port: regio.NewPort(i2c, cfg.Address), cfg: cfg}
}

// NewConfigured is New followed by Configure.
func NewConfigured(i2c drivers.I2C, cfg Config) (*Device, error) {
	d := New(i2c, cfg)
	if err := d.Configure(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) Config() Config { return d.cfg }

// RailMask clears the rail-enable bits the config disables, leaving every
// other bit of seed untouched.
func RailMask(seed byte, cfg Config) byte {
	var clear byte
	if cfg.DisableLDO3 {
		clear |= railLDO3
	}
	if cfg.DisableLDO2 {
		clear |= railLDO2
	}
	if cfg.DisableDCDC3 {
		clear |= railDCDC3
	}
	if cfg.DisableDCDC1 {
		clear |= railDCDC1
	}
	return seed &^ clear
}

// Configure runs the power-up sequence. The first failing transaction
// aborts the rest and is returned as is.
func (d *Device) Configure() error {
	p := d.port
	steps := []func() error{
		func() error { return p.Write8(regLDO23Voltage, 0xCC) }, // LDO2/3 3.0V
		func() error { return p.Write8(regADCRate, 0xF2) },      // 200Hz
		func() error { return p.Write8(regADCEnable1, 0xFF) },
		func() error { return p.Write8(regChargeCtl1, 0xC0) }, // 4.2V, 100mA
		d.enableRails,
		func() error { return p.Write8(regPEKSetting, 0x0C) },
		d.configureLDO0,
		func() error { return p.Write8(regVBUSIPSOut, 0x80) }, // no hold limit
		func() error { return p.Write8(regTempProtect, 0xFC) },
		func() error {
			v := byte(0xA2)
			if d.cfg.DisableRTC {
				v &= 0x7F
			}
			return p.Write8(regBackupCharge, v)
		},
		func() error { return p.Write8(regBattDetect, 0x46) },
		func() error { return p.Update8(regVOffSetting, 0x07, 0x04) }, // power-off at 3.0V
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) enableRails() error {
	v, err := d.port.Read8(regPowerOutCtl)
	if err != nil {
		return err
	}
	v = v&0xEF | 0x4D
	return d.port.Write8(regPowerOutCtl, RailMask(v, d.cfg))
}

func (d *Device) configureLDO0() error {
	if d.cfg.DisableLDO0 {
		return d.port.Write8(regGPIO0Ctl, 0x07) // floating
	}
	if err := d.port.Write8(regGPIO0LDO, 0xA0); err != nil { // 2.8V
		return err
	}
	return d.port.Write8(regGPIO0Ctl, 0x02) // LDO mode
}
