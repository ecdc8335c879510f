package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"stickhal/app"
	"stickhal/bus"
	"stickhal/hal/platform"
	"stickhal/hal/stick"
	"stickhal/services/heartbeat"
	"stickhal/x/mathx"
)

// tapHold is how long "tap" holds a key down; longer than any sane
// debounce window.
const tapHold = 150 * time.Millisecond

var errNeedSim = errors.New("only available on the simulated board")

// console drives the simulated stick from a prompt. It runs beside the
// control loop, so it never calls the chip drivers itself: reads go
// through the simulator and writes are posted to the loop over conn.
type console struct {
	out  io.Writer
	conn *bus.Connection
	dev  *stick.Device
	sim  *stick.SimBoard // nil over a serial bridge
	pins *platform.HostPinFactory
	lcd  *platform.MemPanel
	beat *heartbeat.Service
}

func (c *console) run(ctx context.Context, rl *readline.Instance, cancel context.CancelFunc) {
	c.help()
	for ctx.Err() == nil {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			cancel()
			return
		}
		quit, err := c.exec(line)
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
		}
		if quit {
			cancel()
			return
		}
	}
}

func (c *console) help() {
	fmt.Fprintln(c.out, `commands:
  press a|b / release a|b / tap a|b
  pek short|long
  battery <volts> [charge_ma] [discharge_ma]
  vbus <volts> <ma>
  temp <celsius>
  motion <gx> <gy> <gz> <ax> <ay> <az>   raw sensor counts
  brightness <0..100>
  stats
  quit`)
}

// exec runs one command line.
func (c *console) exec(line string) (quit bool, err error) {
	f := strings.Fields(strings.TrimSpace(line))
	if len(f) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(f[0]), f[1:]
	switch cmd {
	case "help", "?":
		c.help()
	case "quit", "exit", "q":
		return true, nil
	case "press", "release", "tap":
		pin, err := c.key(args)
		if err != nil {
			return false, err
		}
		switch cmd {
		case "press":
			pin.Set(false)
		case "release":
			pin.Set(true)
		default:
			pin.Set(false)
			time.AfterFunc(tapHold, func() { pin.Set(true) })
		}
	case "pek":
		if c.sim == nil {
			return false, errNeedSim
		}
		if len(args) != 1 || (args[0] != "short" && args[0] != "long") {
			return false, errors.New("usage: pek short|long")
		}
		c.sim.PressPower(args[0] == "long")
	case "battery":
		v, err := floats(args, 1, 3)
		if err != nil {
			return false, err
		}
		if c.sim == nil {
			return false, errNeedSim
		}
		v = append(v, 0, 0)
		c.sim.SetBattery(v[0], v[1], v[2])
	case "vbus":
		v, err := floats(args, 2, 2)
		if err != nil {
			return false, err
		}
		if c.sim == nil {
			return false, errNeedSim
		}
		c.sim.SetVBUS(v[0], v[1])
	case "temp":
		v, err := floats(args, 1, 1)
		if err != nil {
			return false, err
		}
		if c.sim == nil {
			return false, errNeedSim
		}
		c.sim.SetTemperature(v[0])
	case "motion":
		if c.sim == nil {
			return false, errNeedSim
		}
		var raw [6]int16
		if len(args) != 6 {
			return false, errors.New("usage: motion gx gy gz ax ay az")
		}
		for i, a := range args {
			n, err := strconv.ParseInt(a, 0, 16)
			if err != nil {
				return false, fmt.Errorf("motion: %w", err)
			}
			raw[i] = int16(n)
		}
		c.sim.SetMotion([3]int16{raw[0], raw[1], raw[2]}, [3]int16{raw[3], raw[4], raw[5]})
	case "brightness":
		if len(args) != 1 {
			return false, errors.New("usage: brightness <0..100>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("brightness: %w", err)
		}
		if !mathx.Between(n, 0, 100) {
			return false, fmt.Errorf("brightness %d out of range 0..100", n)
		}
		c.conn.Publish(c.conn.NewMessage(app.TopicBrightness, n, false))
	case "stats":
		c.stats()
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

func (c *console) key(args []string) (*platform.FakePin, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: press|release|tap a|b")
	}
	b := c.dev.Board()
	switch strings.ToLower(args[0]) {
	case "a":
		return c.pins.Fake(b.ButtonA), nil
	case "b":
		return c.pins.Fake(b.ButtonB), nil
	}
	return nil, fmt.Errorf("no button %q", args[0])
}

func (c *console) stats() {
	bs := c.dev.Bus().Stats()
	fmt.Fprintf(c.out, "bus %s: %d tx, %d errors\n", c.dev.Bus().ID(), bs.Tx, bs.Errors)
	if c.lcd != nil {
		fmt.Fprintf(c.out, "frames: %d\n", c.lcd.Frames())
	}
	if c.beat != nil {
		fmt.Fprintf(c.out, "heartbeats: %d\n", c.beat.Beats())
	}
	if c.sim != nil {
		fmt.Fprintf(c.out, "backlight reg: 0x%02X\n", c.sim.Brightness())
	}
}

// floats parses between lo and hi float arguments.
func floats(args []string, lo, hi int) ([]float32, error) {
	if len(args) < lo || len(args) > hi {
		return nil, fmt.Errorf("want %d to %d numbers, got %d", lo, hi, len(args))
	}
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
