// Package mpu6886 drives the MPU6886 6-axis IMU on the M5StickC.
//
// The driver keeps the configured full-scale resolutions and applies them
// to every read. It is not internally synchronised: a range change racing
// a read from another goroutine yields an undefined mix, so the control
// loop that owns the Device is the only caller.
package mpu6886

import (
	"fmt"
	"time"

	"stickhal/drivers/regio"
	"stickhal/errcode"

	"tinygo.org/x/drivers"
)

// State is the driver lifecycle.
type State uint8

const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// GyroRange selects the gyroscope full scale.
type GyroRange uint8

const (
	Gyro250DPS GyroRange = iota
	Gyro500DPS
	Gyro1000DPS
	Gyro2000DPS
)

// Resolution in °/s per LSB.
func (g GyroRange) Resolution() float32 {
	return float32(int(250)<<g) / 32768
}

// AccelRange selects the accelerometer full scale.
type AccelRange uint8

const (
	Accel2G AccelRange = iota
	Accel4G
	Accel8G
	Accel16G
)

// Resolution in g per LSB.
func (a AccelRange) Resolution() float32 {
	return float32(int(2)<<a) / 32768
}

// Vector is one three-axis reading in physical units.
type Vector struct {
	X, Y, Z float32
}

type Config struct {
	Address uint16
	Gyro    GyroRange  // applied at the end of Configure
	Accel   AccelRange // applied at the end of Configure
	// Sleep waits out settle times; nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultConfig matches the stick firmware: ±2000°/s, ±8g.
func DefaultConfig() Config {
	return Config{Address: AddressDefault, Gyro: Gyro2000DPS, Accel: Accel8G}
}

type Device struct {
	port  *regio.Port
	cfg   Config
	state State
	gRes  float32 // °/s per LSB
	aRes  float32 // g per LSB
}

// New binds the driver to a bus without touching the chip.
func New(i2c drivers.I2C, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = AddressDefault
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Device{port: regio.NewPort(i2c, cfg.Address), cfg: cfg}
}

func (d *Device) State() State { return d.state }

type initStep struct {
	reg, val byte
	settle   time.Duration
}

var initSequence = [...]initStep{
	{regPwrMgmt1, 0x00, 10 * time.Millisecond},
	{regPwrMgmt1, pwrReset, 10 * time.Millisecond},
	{regPwrMgmt1, pwrClkAuto, 10 * time.Millisecond},
	{regAccelConfig, 0x10, time.Millisecond},
	{regGyroConfig, 0x18, time.Millisecond},
	{regConfig, 0x01, time.Millisecond},
	{regSmplrtDiv, 0x05, time.Millisecond},
	{regIntEnable, 0x00, time.Millisecond},
	{regAccelConfig2, 0x00, time.Millisecond},
	{regUserCtrl, 0x00, time.Millisecond},
	{regFIFOEn, 0x00, time.Millisecond},
	{regIntPinCfg, 0x22, time.Millisecond},
	{regIntEnable, 0x01, 100 * time.Millisecond},
}

// Configure verifies the part identity, runs the register bring-up and
// applies the configured ranges. An identity mismatch fails with
// errcode.Protocol before any configuration write; transport errors are
// returned unchanged. On failure the device drops back to Uninitialized.
func (d *Device) Configure() (err error) {
	d.state = Initializing
	defer func() {
		if err != nil {
			d.state = Uninitialized
		}
	}()

	id, err := d.port.Read8(regWhoAmI)
	if err != nil {
		return err
	}
	if id != deviceID {
		return &errcode.E{C: errcode.Protocol, Op: "mpu6886.Configure",
			Msg: fmt.Sprintf("who_am_i=0x%02x, want 0x%02x", id, deviceID)}
	}
	d.cfg.Sleep(time.Millisecond)

	for _, s := range initSequence {
		if err := d.port.Write8(s.reg, s.val); err != nil {
			return err
		}
		d.cfg.Sleep(s.settle)
	}
	if err := d.SetGyroRange(d.cfg.Gyro); err != nil {
		return err
	}
	d.cfg.Sleep(10 * time.Millisecond)
	if err := d.SetAccelRange(d.cfg.Accel); err != nil {
		return err
	}
	d.state = Ready
	return nil
}

// SetGyroRange writes the scale selector and switches the resolution used
// by Rotation. The stored resolution only changes once the write succeeds.
func (d *Device) SetGyroRange(r GyroRange) error {
	if r > Gyro2000DPS {
		return errcode.New(errcode.InvalidParams, "mpu6886.SetGyroRange", "unknown range")
	}
	if err := d.port.Write8(regGyroConfig, byte(r)<<fsSelShift); err != nil {
		return err
	}
	d.cfg.Gyro, d.gRes = r, r.Resolution()
	return nil
}

// SetAccelRange is SetGyroRange for the accelerometer.
func (d *Device) SetAccelRange(r AccelRange) error {
	if r > Accel16G {
		return errcode.New(errcode.InvalidParams, "mpu6886.SetAccelRange", "unknown range")
	}
	if err := d.port.Write8(regAccelConfig, byte(r)<<fsSelShift); err != nil {
		return err
	}
	d.cfg.Accel, d.aRes = r, r.Resolution()
	return nil
}

func (d *Device) GyroRange() GyroRange   { return d.cfg.Gyro }
func (d *Device) AccelRange() AccelRange { return d.cfg.Accel }

// Rotation returns angular rate in °/s.
func (d *Device) Rotation() (Vector, error) {
	return d.read(regGyroXoutH, d.gRes, "mpu6886.Rotation")
}

// Acceleration returns linear acceleration in g.
func (d *Device) Acceleration() (Vector, error) {
	return d.read(regAccelXoutH, d.aRes, "mpu6886.Acceleration")
}

func (d *Device) read(reg byte, res float32, op string) (Vector, error) {
	if d.state != Ready {
		return Vector{}, errcode.New(errcode.NotReady, op, d.state.String())
	}
	raw, err := d.port.ReadTriple(reg)
	if err != nil {
		return Vector{}, err
	}
	return Vector{
		X: regio.Scale(float32(raw[0]), res, 0),
		Y: regio.Scale(float32(raw[1]), res, 0),
		Z: regio.Scale(float32(raw[2]), res, 0),
	}, nil
}
