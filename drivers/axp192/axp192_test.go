package axp192

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickhal/errcode"
	"stickhal/hal/platform"
)

type regWrite struct{ reg, val byte }

func writes(sim *platform.SimI2C) []regWrite {
	var out []regWrite
	for _, tx := range sim.Writes(AddressDefault) {
		if tx.Err == nil {
			out = append(out, regWrite{tx.W[0], tx.W[1]})
		}
	}
	return out
}

func newSim() *platform.SimI2C {
	sim := platform.NewSimI2C()
	sim.AddDevice(AddressDefault)
	return sim
}

func TestConfigureSequence(t *testing.T) {
	sim := newSim()
	sim.SetReg(AddressDefault, regVOffSetting, 0x03)

	_, err := NewConfigured(sim, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []regWrite{
		{0x28, 0xCC},
		{0x84, 0xF2},
		{0x82, 0xFF},
		{0x33, 0xC0},
		{0x12, 0x4D},
		{0x36, 0x0C},
		{0x91, 0xA0},
		{0x90, 0x02},
		{0x30, 0x80},
		{0x39, 0xFC},
		{0x35, 0xA2},
		{0x32, 0x46},
		{0x31, 0x04},
	}, writes(sim))
}

func TestConfigureDisabledRails(t *testing.T) {
	sim := newSim()
	sim.SetReg(AddressDefault, regPowerOutCtl, 0xFF)

	cfg := Config{
		DisableLDO2: true, DisableLDO3: true, DisableDCDC1: true, DisableDCDC3: true,
		DisableRTC: true, DisableLDO0: true,
	}
	_, err := NewConfigured(sim, cfg)
	require.NoError(t, err)

	assert.Equal(t, byte(0xE0), sim.Reg(AddressDefault, regPowerOutCtl))
	assert.Equal(t, byte(0x07), sim.Reg(AddressDefault, regGPIO0Ctl))
	assert.Equal(t, byte(0x00), sim.Reg(AddressDefault, regGPIO0LDO), "LDO0 voltage untouched")
	assert.Equal(t, byte(0x22), sim.Reg(AddressDefault, regBackupCharge))
}

func TestRailMaskClearsOnlyRailBits(t *testing.T) {
	all := Config{DisableLDO2: true, DisableLDO3: true, DisableDCDC1: true, DisableDCDC3: true}
	assert.Equal(t, byte(0xF0), RailMask(0xFF, all))
	assert.Equal(t, byte(0xFF), RailMask(0xFF, Config{}))
	assert.Equal(t, byte(0xFB), RailMask(0xFF, Config{DisableLDO2: true}))
	assert.Equal(t, byte(0xA0), RailMask(0xA5, all))
}

func TestConfigureAbortsOnFirstError(t *testing.T) {
	sim := newSim()
	boom := errors.New("nack")
	sim.SetFault(func(_ uint16, w []byte) error {
		if len(w) > 1 && w[0] == regChargeCtl1 {
			return boom
		}
		return nil
	})

	_, err := NewConfigured(sim, DefaultConfig())
	assert.Equal(t, boom, err)
	assert.Equal(t, []regWrite{{0x28, 0xCC}, {0x84, 0xF2}, {0x82, 0xFF}}, writes(sim))
}

func TestBrightnessMapping(t *testing.T) {
	assert.Equal(t, int32(2500), BacklightMillivolts(0))
	assert.Equal(t, int32(3200), BacklightMillivolts(100))
	assert.Equal(t, byte(0), LDOField(1700))
	assert.Equal(t, byte(0), LDOField(1800))
	assert.Equal(t, byte(7), LDOField(2500))
	assert.Equal(t, byte(14), LDOField(3200))
	assert.Equal(t, byte(15), LDOField(5000))
}

func TestSetScreenBrightnessRejectsRange(t *testing.T) {
	sim := newSim()
	d := New(sim, DefaultConfig())

	for _, lvl := range []int{-1, 101, 1000} {
		err := d.SetScreenBrightness(lvl)
		require.Error(t, err)
		assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
	}
	assert.Empty(t, sim.Log(), "no bus traffic for rejected levels")
}

func TestSetScreenBrightnessKeepsLDO3(t *testing.T) {
	sim := newSim()
	sim.SetReg(AddressDefault, regLDO23Voltage, 0xCC)
	d := New(sim, DefaultConfig())

	require.NoError(t, d.SetScreenBrightness(0))
	assert.Equal(t, byte(0x7C), sim.Reg(AddressDefault, regLDO23Voltage))

	require.NoError(t, d.SetScreenBrightness(100))
	assert.Equal(t, byte(0xEC), sim.Reg(AddressDefault, regLDO23Voltage))
}

func TestTelemetry(t *testing.T) {
	sim := newSim()
	set := func(reg byte, b0, b1 byte) {
		sim.SetReg(AddressDefault, reg, b0)
		sim.SetReg(AddressDefault, reg+1, b1)
	}
	set(regBattVoltage, 0x0A, 0x05) // 165
	set(regBattCharge, 3, 4)        // 100
	set(regBattDisch, 1, 8)         // 40
	set(regVBUSVoltage, 0xBB, 0x08) // 3000
	set(regVBUSCurrent, 0x10, 0x00) // 256
	set(regDieTemp, 106, 1)         // 1697

	d := New(sim, DefaultConfig())
	s, err := d.Rails()
	require.NoError(t, err)
	assert.InDelta(t, 0.1815, s.BatteryV, 1e-4)
	assert.InDelta(t, 30.0, s.BatteryMA, 1e-4)
	assert.InDelta(t, 5.1, s.BusV, 1e-3)
	assert.InDelta(t, 96.0, s.BusMA, 1e-3)
	assert.InDelta(t, 25.0, s.TempC, 1e-3)
}

func TestNetCurrentSigned(t *testing.T) {
	assert.InDelta(t, 30.0, NetCurrent(100, 40), 1e-6)
	assert.InDelta(t, -30.0, NetCurrent(40, 100), 1e-6)
}

func TestTelemetryPropagatesError(t *testing.T) {
	sim := newSim()
	boom := errors.New("bus fault")
	sim.SetFault(func(_ uint16, w []byte) error {
		if w[0] == regBattDisch {
			return boom
		}
		return nil
	})
	d := New(sim, DefaultConfig())
	_, err := d.BatteryCurrent()
	assert.Equal(t, boom, err)
}

func TestSleepSequence(t *testing.T) {
	sim := newSim()
	sim.SetReg(AddressDefault, regVOffSetting, 0x04)
	sim.SetReg(AddressDefault, regGPIO0Ctl, 0x02)
	sim.SetReg(AddressDefault, regADCEnable1, 0xFF)
	sim.SetReg(AddressDefault, regPowerOutCtl, 0x4F)
	d := New(sim, DefaultConfig())

	require.NoError(t, d.Sleep())
	assert.Equal(t, byte(0x0C), sim.Reg(AddressDefault, regVOffSetting))
	assert.Equal(t, byte(0x07), sim.Reg(AddressDefault, regGPIO0Ctl))
	assert.Equal(t, byte(0x00), sim.Reg(AddressDefault, regADCEnable1))
	assert.Equal(t, byte(0x01), sim.Reg(AddressDefault, regPowerOutCtl))
}

func TestSleepAbortsOnError(t *testing.T) {
	sim := newSim()
	sim.SetReg(AddressDefault, regADCEnable1, 0xFF)
	boom := errors.New("nack")
	sim.SetFault(func(_ uint16, w []byte) error {
		if len(w) > 1 && w[0] == regGPIO0Ctl {
			return boom
		}
		return nil
	})
	d := New(sim, DefaultConfig())

	assert.Equal(t, boom, d.Sleep())
	assert.Equal(t, byte(0xFF), sim.Reg(AddressDefault, regADCEnable1), "ADC left running")
}

func TestButtonStateClearsLatch(t *testing.T) {
	sim := newSim()
	dev := sim.Device(AddressDefault)
	dev.Regs[regIRQStatus3] = PEKShortPress
	dev.OnWrite = func(d *platform.SimDevice, reg, val byte) bool {
		if reg != regIRQStatus3 {
			return false
		}
		d.Regs[reg] &^= val
		return true
	}
	d := New(sim, DefaultConfig())

	assert.Equal(t, uint8(PEKShortPress), d.ButtonState())
	assert.Equal(t, uint8(0), d.ButtonState())
	assert.Len(t, sim.Writes(AddressDefault), 1, "clear written once")
}

func TestButtonStateNeverFails(t *testing.T) {
	sim := newSim()
	sim.SetReg(AddressDefault, regIRQStatus3, PEKLongPress)
	sim.SetFault(func(_ uint16, w []byte) error {
		if len(w) > 1 {
			return errors.New("clear failed")
		}
		return nil
	})
	d := New(sim, DefaultConfig())
	assert.Equal(t, uint8(PEKLongPress), d.ButtonState())

	sim.SetFault(func(uint16, []byte) error { return errors.New("read failed") })
	assert.Equal(t, uint8(0), d.ButtonState())
	_, err := d.ButtonStateErr()
	assert.Error(t, err)
}
