// Package app is the stick's control loop: poll the keys, fade the
// backlight in, read the motion sensor, render the readings and flush the
// canvas, once per period.
package app

import (
	"context"
	"log/slog"
	"time"

	"stickhal/bus"
	"stickhal/drivers/axp192"
	"stickhal/hal/framebuffer"
	"stickhal/hal/stick"
	"stickhal/services/telemetry"
	"stickhal/x/fmtx"
	"stickhal/x/ramp"
)

// Screen selects what the loop renders.
type Screen uint8

const (
	ScreenMotion Screen = iota
	ScreenPower
)

// TopicBrightness carries backlight requests to the loop. The payload is
// the level in percent as an int. Requests are applied on the loop's own
// goroutine at the start of the next Step and cancel any fade in progress.
var TopicBrightness = bus.T("app", "brightness")

type Config struct {
	PeriodMs uint32
	// Brightness is the backlight target in percent; the ramp fades to it.
	Brightness int
	RampMs     uint32
	RampSteps  uint16
	// SleepOnLongPress puts the stick to sleep on a long power-key press.
	SleepOnLongPress bool

	Telemetry *telemetry.Service
	// Conn, when set, subscribes the loop to TopicBrightness. Other
	// goroutines reach the hardware only through it.
	Conn   *bus.Connection
	Logger *slog.Logger
}

type Loop struct {
	dev    *stick.Device
	canvas *framebuffer.Buffer
	cfg    Config
	log    *slog.Logger

	ramp     *ramp.Linear
	rampDone bool
	rampInit bool
	requests *bus.Subscription

	screen Screen
	prevMs uint32
	primed bool
	fps    float32
	frames uint64

	lastSnap telemetry.Snapshot
}

func New(dev *stick.Device, cfg Config) *Loop {
	if cfg.PeriodMs == 0 {
		cfg.PeriodMs = 100
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	l := &Loop{
		dev:    dev,
		canvas: dev.NewFramebuffer(),
		cfg:    cfg,
		log:    log.With("component", "app"),
	}
	if cfg.Brightness > 0 {
		l.ramp = ramp.NewLinear(0, cfg.Brightness, cfg.RampMs, cfg.RampSteps, dev.Clock().NowMs())
	}
	if cfg.Conn != nil {
		l.requests = cfg.Conn.Subscribe(TopicBrightness)
	}
	return l
}

func (l *Loop) Canvas() *framebuffer.Buffer { return l.canvas }
func (l *Loop) Screen() Screen              { return l.screen }
func (l *Loop) Frames() uint64              { return l.frames }
func (l *Loop) FPS() float32                { return l.fps }

// LastSnapshot is the most recent telemetry sample, if telemetry is on.
func (l *Loop) LastSnapshot() telemetry.Snapshot { return l.lastSnap }

// Step runs one iteration. Sensor failures are rendered, not returned;
// the error is the flush failure, if any.
func (l *Loop) Step() error {
	now := l.dev.Clock().NowMs()
	l.dev.Update()
	l.stepBacklight(now)
	l.applyRequests()
	l.handleKeys()

	if l.primed && now != l.prevMs {
		l.fps = 1000 / float32(now-l.prevMs)
	}
	l.prevMs, l.primed = now, true

	if l.cfg.Telemetry != nil {
		if s, ok := l.cfg.Telemetry.Tick(l.dev.Clock()); ok {
			l.lastSnap = s
		}
	}

	l.canvas.ClearDefault()
	l.canvas.SetCursor(framebuffer.Point{})
	fmtx.Fprintf(l.canvas, "fps: %.2f\n", l.fps)
	switch l.screen {
	case ScreenPower:
		l.renderPower()
	default:
		l.renderMotion()
	}

	if err := l.dev.Draw(l.canvas); err != nil {
		return err
	}
	l.frames++
	return nil
}

func (l *Loop) renderMotion() {
	g, gerr := l.dev.IMU.Rotation()
	a, aerr := l.dev.IMU.Acceleration()
	if gerr != nil || aerr != nil {
		l.canvas.WriteText("Sensor read error")
		return
	}
	l.canvas.WriteText("  X       Y       Z\n")
	fmtx.Fprintf(l.canvas, "%.2f   %.2f   %.2f      o/s\n", g.X, g.Y, g.Z)
	fmtx.Fprintf(l.canvas, "%.2f   %.2f   %.2f\n", a.X, a.Y, a.Z)
}

func (l *Loop) renderPower() {
	p, err := l.dev.Power.Rails()
	if err != nil {
		l.canvas.WriteText("Sensor read error")
		return
	}
	fmtx.Fprintf(l.canvas, "bat %.2fV %.1fmA\n", p.BatteryV, p.BatteryMA)
	fmtx.Fprintf(l.canvas, "usb %.2fV %.1fmA\n", p.BusV, p.BusMA)
	fmtx.Fprintf(l.canvas, "temp %.1fC\n", p.TempC)
}

func (l *Loop) stepBacklight(now uint32) {
	if l.ramp == nil || l.rampDone {
		return
	}
	level, changed, done := l.ramp.Level(now)
	if changed || !l.rampInit {
		if err := l.dev.Power.SetScreenBrightness(level); err != nil {
			l.log.Warn("brightness", "level", level, "err", err)
		}
		l.rampInit = true
	}
	l.rampDone = done
}

// applyRequests drains pending brightness requests without blocking. Only
// the newest one matters.
func (l *Loop) applyRequests() {
	if l.requests == nil {
		return
	}
	level, ok := 0, false
drain:
	for {
		select {
		case m, open := <-l.requests.Channel():
			if !open {
				l.requests = nil
				break drain
			}
			n, isInt := m.Payload.(int)
			if !isInt {
				l.log.Warn("brightness request", "payload", m.Payload)
				continue
			}
			level, ok = n, true
		default:
			break drain
		}
	}
	if !ok {
		return
	}
	l.rampDone = true
	if err := l.dev.Power.SetScreenBrightness(level); err != nil {
		l.log.Warn("brightness", "level", level, "err", err)
	}
}

func (l *Loop) handleKeys() {
	if l.dev.ButtonA.WasPressed() {
		l.screen = (l.screen + 1) % 2
		l.log.Debug("screen", "screen", l.screen)
	}
	switch l.dev.Power.ButtonState() {
	case axp192.PEKShortPress:
		l.screen = (l.screen + 1) % 2
	case axp192.PEKLongPress:
		if l.cfg.SleepOnLongPress {
			l.log.Info("sleeping")
			if err := l.dev.Power.Sleep(); err != nil {
				l.log.Error("sleep", "err", err)
			}
		}
	}
}

// Run steps every period until ctx is done. Flush failures are logged and
// the loop carries on with the next frame.
func (l *Loop) Run(ctx context.Context) error {
	tick := time.NewTicker(time.Duration(l.cfg.PeriodMs) * time.Millisecond)
	defer tick.Stop()
	for {
		if err := l.Step(); err != nil {
			l.log.Error("flush failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
