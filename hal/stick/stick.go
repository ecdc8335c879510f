// Package stick assembles the M5StickC-class hardware into one Device: the
// shared internal I²C bus with its power and motion chips, the LCD, both
// keys and the status LED. Open is the single setup step; the Device it
// returns owns every handle and is driven from one control loop.
package stick

import (
	"log/slog"

	"stickhal/drivers/axp192"
	"stickhal/drivers/mpu6886"
	"stickhal/errcode"
	"stickhal/hal/button"
	"stickhal/hal/framebuffer"
	"stickhal/hal/halcore"
	"stickhal/hal/i2cbus"
	"stickhal/hal/panel"
	"stickhal/hal/platform"
	"stickhal/hal/trace"
	"stickhal/x/timex"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	DefaultI2CFrequency = 400_000
	DefaultDebounceMs   = 10
)

// Options selects the board and, for hosts and tests, substitutes any of
// the transports. Zero fields take the board defaults.
type Options struct {
	Board Board

	// BusID overrides Board.Bus, mainly so tests can own distinct buses.
	BusID        halcore.BusID
	I2CFrequency uint32
	Transport    drivers.I2C
	Pins         halcore.PinFactory
	Display      panel.Panel
	Clock        timex.Clock

	DebounceMs uint32
	// KeepButtonLevels disables the active-low inversion of the keys.
	KeepButtonLevels bool

	Power axp192.Config
	// IMU nil means mpu6886.DefaultConfig.
	IMU *mpu6886.Config

	// Brightness in percent applied after power-up; 0 leaves the chip default.
	Brightness int

	Trace   trace.Logger
	Session string
	Logger  *slog.Logger
}

// Device is the assembled stick. Fields are the component drivers; callers
// use them directly.
type Device struct {
	Power   *axp192.Device
	IMU     *mpu6886.Device
	ButtonA *button.Button
	ButtonB *button.Button
	LCD     *panel.Adapter
	LED     halcore.GPIOPin

	board Board
	bus   *i2cbus.Owner
	clock timex.Clock
	log   *slog.Logger
}

// Open acquires the internal bus, brings up both chips, the keys, the LED
// and the LCD. On any failure the bus owner is closed; its identity stays spent.
func Open(o Options) (_ *Device, err error) {
	const op = "stick.Open"
	if o.Board.Name == "" {
		o.Board = StickC
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "hal", "board", o.Board.Name)

	busID := o.BusID
	if busID == "" {
		busID = o.Board.Bus
	}
	if o.I2CFrequency == 0 {
		o.I2CFrequency = DefaultI2CFrequency
	}
	if o.Clock == nil {
		o.Clock = timex.NewMonotonic()
	}
	if o.Pins == nil {
		o.Pins = platform.DefaultPinFactory()
	}
	if o.DebounceMs == 0 {
		o.DebounceMs = DefaultDebounceMs
	}

	tx := o.Transport
	if tx == nil {
		var ok bool
		tx, ok = platform.DefaultI2CFactory(o.I2CFrequency).ByID(busID)
		if !ok {
			return nil, errcode.New(errcode.Unsupported, op, "no bus "+string(busID))
		}
	}
	owner, err := i2cbus.Acquire(busID, tx, i2cbus.WithTrace(o.Trace), i2cbus.WithSession(o.Session))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = owner.Close()
		}
	}()

	d := &Device{board: o.Board, bus: owner, clock: o.Clock, log: log}

	if d.Power, err = axp192.NewConfigured(owner.Proxy(), o.Power); err != nil {
		log.Error("power init failed", "err", err)
		return nil, err
	}
	if o.Brightness > 0 {
		if err = d.Power.SetScreenBrightness(o.Brightness); err != nil {
			return nil, err
		}
	}

	imuCfg := mpu6886.DefaultConfig()
	if o.IMU != nil {
		imuCfg = *o.IMU
	}
	d.IMU = mpu6886.New(owner.Proxy(), imuCfg)
	if err = d.IMU.Configure(); err != nil {
		log.Error("imu init failed", "err", err)
		return nil, err
	}

	invert := !o.KeepButtonLevels
	if d.ButtonA, err = d.openButton(o, o.Board.ButtonA, invert); err != nil {
		return nil, err
	}
	if d.ButtonB, err = d.openButton(o, o.Board.ButtonB, invert); err != nil {
		return nil, err
	}

	led, ok := o.Pins.ByNumber(o.Board.LED)
	if !ok {
		return nil, errcode.New(errcode.InvalidParams, op, "led pin unavailable")
	}
	if err = led.ConfigureOutput(o.Board.LEDActiveLow); err != nil {
		return nil, err
	}
	d.LED = led

	disp := o.Display
	if disp == nil {
		if disp, err = platform.DefaultPanel(o.Board.Panel); err != nil {
			return nil, err
		}
	}
	if d.LCD, err = panel.New(disp, o.Board.Panel); err != nil {
		return nil, err
	}

	log.Info("stick ready", "bus", string(busID), "panel", o.Board.Panel.Name)
	return d, nil
}

func (d *Device) openButton(o Options, n int, invert bool) (*button.Button, error) {
	pin, ok := o.Pins.ByNumber(n)
	if !ok {
		return nil, errcode.New(errcode.InvalidParams, "stick.Open", "button pin unavailable")
	}
	if err := pin.ConfigureInput(halcore.PullUp); err != nil {
		return nil, err
	}
	return button.New(pin, invert, o.DebounceMs, o.Clock), nil
}

func (d *Device) Board() Board         { return d.board }
func (d *Device) Clock() timex.Clock   { return d.clock }
func (d *Device) Bus() *i2cbus.Owner   { return d.bus }
func (d *Device) Logger() *slog.Logger { return d.log }

// Update polls both keys. Call it once per loop iteration.
func (d *Device) Update() {
	d.ButtonA.Read()
	d.ButtonB.Read()
}

// SetLED drives the status LED, hiding its polarity.
func (d *Device) SetLED(on bool) { d.LED.Set(on != d.board.LEDActiveLow) }

// Size is the visible LCD area.
func (d *Device) Size() (w, h int) { return d.LCD.Size() }

// Draw flushes buf to the LCD.
func (d *Device) Draw(buf *framebuffer.Buffer) error { return d.LCD.Flush(buf) }

// DefaultFont is the monospace font the stick renders text with.
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// NewFramebuffer returns a canvas sized to the LCD: white text on black.
func (d *Device) NewFramebuffer() *framebuffer.Buffer {
	w, h := d.Size()
	return framebuffer.New(framebuffer.Black, framebuffer.White, w, h, DefaultFont)
}

// Close retires the bus owner. The drivers fail with errcode.BusClosed after,
// and the bus identity cannot be opened again in this process.
func (d *Device) Close() error { return d.bus.Close() }
