package mpu6886

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickhal/errcode"
	"stickhal/hal/platform"
)

type sleeper struct{ total time.Duration }

func (s *sleeper) Sleep(d time.Duration) { s.total += d }

func newSim(id byte) *platform.SimI2C {
	sim := platform.NewSimI2C()
	sim.AddDevice(AddressDefault)
	sim.SetReg(AddressDefault, regWhoAmI, id)
	return sim
}

func newDevice(sim *platform.SimI2C) (*Device, *sleeper) {
	s := &sleeper{}
	cfg := DefaultConfig()
	cfg.Sleep = s.Sleep
	return New(sim, cfg), s
}

func TestConfigureSequence(t *testing.T) {
	sim := newSim(deviceID)
	d, sl := newDevice(sim)
	assert.Equal(t, Uninitialized, d.State())

	require.NoError(t, d.Configure())
	assert.Equal(t, Ready, d.State())

	var got [][2]byte
	for _, tx := range sim.Writes(AddressDefault) {
		got = append(got, [2]byte{tx.W[0], tx.W[1]})
	}
	assert.Equal(t, [][2]byte{
		{0x6B, 0x00}, {0x6B, 0x80}, {0x6B, 0x01},
		{0x1C, 0x10}, {0x1B, 0x18}, {0x1A, 0x01}, {0x19, 0x05},
		{0x38, 0x00}, {0x1D, 0x00}, {0x6A, 0x00}, {0x23, 0x00},
		{0x37, 0x22}, {0x38, 0x01},
		{0x1B, 0x18}, // ±2000°/s
		{0x1C, 0x10}, // ±8g
	}, got)

	// 1 + 3×10 + 9×1 + 100 + 10 ms of settle time
	assert.Equal(t, 150*time.Millisecond, sl.total)
}

func TestConfigureIdentityMismatch(t *testing.T) {
	sim := newSim(0x00)
	d, _ := newDevice(sim)

	err := d.Configure()
	require.Error(t, err)
	assert.Equal(t, errcode.Protocol, errcode.Of(err))
	assert.Empty(t, sim.Writes(AddressDefault), "no configuration writes after mismatch")
	assert.Equal(t, Uninitialized, d.State())
}

func TestConfigureTransportError(t *testing.T) {
	sim := newSim(deviceID)
	boom := errors.New("nack")
	sim.SetFault(func(_ uint16, w []byte) error {
		if len(w) > 1 && w[0] == regSmplrtDiv {
			return boom
		}
		return nil
	})
	d, _ := newDevice(sim)

	assert.Equal(t, boom, d.Configure())
	assert.Equal(t, Uninitialized, d.State())
}

func TestReadsRequireReady(t *testing.T) {
	d, _ := newDevice(newSim(deviceID))
	_, err := d.Rotation()
	assert.Equal(t, errcode.NotReady, errcode.Of(err))
	_, err = d.Acceleration()
	assert.Equal(t, errcode.NotReady, errcode.Of(err))
}

func TestReadingsScale(t *testing.T) {
	sim := newSim(deviceID)
	d, _ := newDevice(sim)
	require.NoError(t, d.Configure())

	// gyro: +16384, -16384, 0 at ±2000°/s
	for i, b := range []byte{0x40, 0x00, 0xC0, 0x00, 0x00, 0x00} {
		sim.SetReg(AddressDefault, regGyroXoutH+byte(i), b)
	}
	// accel: +4096 (0.5 of ±8g half-range → 1g), -8192, +32767
	for i, b := range []byte{0x10, 0x00, 0xE0, 0x00, 0x7F, 0xFF} {
		sim.SetReg(AddressDefault, regAccelXoutH+byte(i), b)
	}

	g, err := d.Rotation()
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, g.X, 1e-3)
	assert.InDelta(t, -1000.0, g.Y, 1e-3)
	assert.InDelta(t, 0.0, g.Z, 1e-6)

	a, err := d.Acceleration()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, a.X, 1e-4)
	assert.InDelta(t, -2.0, a.Y, 1e-4)
	assert.InDelta(t, 8.0, a.Z, 1e-3)

	// Switching range changes the resolution of the next read.
	require.NoError(t, d.SetGyroRange(Gyro250DPS))
	assert.Equal(t, byte(0x00), sim.Reg(AddressDefault, regGyroConfig))
	g, err = d.Rotation()
	require.NoError(t, err)
	assert.InDelta(t, 125.0, g.X, 1e-3)
}

func TestRangeResolutions(t *testing.T) {
	assert.InDelta(t, 250.0/32768, Gyro250DPS.Resolution(), 1e-9)
	assert.InDelta(t, 2000.0/32768, Gyro2000DPS.Resolution(), 1e-9)
	assert.InDelta(t, 2.0/32768, Accel2G.Resolution(), 1e-9)
	assert.InDelta(t, 16.0/32768, Accel16G.Resolution(), 1e-9)
}

func TestSetRangeKeepsResolutionOnError(t *testing.T) {
	sim := newSim(deviceID)
	d, _ := newDevice(sim)
	require.NoError(t, d.Configure())

	sim.SetFault(func(uint16, []byte) error { return errors.New("nack") })
	require.Error(t, d.SetAccelRange(Accel2G))
	assert.Equal(t, Accel8G, d.AccelRange())

	err := d.SetGyroRange(GyroRange(9))
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}
