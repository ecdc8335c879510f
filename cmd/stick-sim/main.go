//go:build !tinygo

// Command stick-sim runs the stick firmware on the desktop: the control
// loop against simulated chips (or real ones behind a serial I²C bridge),
// the LCD in a window, and a console for poking the inputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"stickhal/app"
	"stickhal/bus"
	"stickhal/hal/platform"
	"stickhal/hal/stick"
	"stickhal/hal/trace"
	"stickhal/hal/trace/tracefile"
	"stickhal/internal/simwindow"
	"stickhal/services/config"
	"stickhal/services/heartbeat"
	"stickhal/services/telemetry"
	"stickhal/x/timex"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "stick-sim:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath  = flag.String("config", "", "YAML config overlay (default: embedded m5stickc)")
		tty      = flag.String("serial", "", "serial I²C bridge device; empty simulates the chips")
		baud     = flag.Int("baud", 115200, "bridge baud rate")
		scale    = flag.Int("scale", 3, "window scale")
		headless = flag.Bool("headless", false, "console only, no window")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "stick> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	log := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts, err := app.DeviceOptions(cfg)
	if err != nil {
		return err
	}
	pins := &platform.HostPinFactory{}
	lcd := platform.NewMemPanel(opts.Board.Panel.RAMSize())
	opts.Pins = pins
	opts.Display = lcd
	opts.Clock = timex.NewMonotonic()
	opts.Session = tracefile.NewSessionID()
	opts.Logger = log

	var sim *stick.SimBoard
	if *tty != "" {
		br, err := platform.OpenSerialBridge(platform.SerialConfig{Device: *tty, Baud: *baud, ReadTimeout: time.Second})
		if err != nil {
			return err
		}
		defer br.Close()
		opts.Transport = br
	} else {
		sim = stick.NewSimBoard()
		sim.SetLogging(false)
		opts.Transport = sim
	}

	var tracers []trace.Logger
	if cfg.Trace.Path != "" {
		fl, err := tracefile.NewFileLogger(cfg.Trace.Path)
		if err != nil {
			return err
		}
		defer fl.Close()
		tracers = append(tracers, fl)
	}
	if cfg.SlogLevel() < slog.LevelInfo {
		tracers = append(tracers, trace.NewSlogAdapter(log))
	}
	if len(tracers) > 0 {
		opts.Trace = trace.NewMulti(tracers...)
	}

	dev, err := stick.Open(opts)
	if err != nil {
		return err
	}
	defer dev.Close()

	b := bus.NewBus(16)
	if err := config.NewConfigService(&cfg).Start(ctx, b.NewConnection("config")); err != nil {
		return err
	}
	beat := heartbeat.New(dev.LED, time.Duration(cfg.Heartbeat.IntervalMs)*time.Millisecond, log)
	if err := beat.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		return err
	}

	lc := app.LoopConfig(cfg)
	lc.Logger = log
	lc.Conn = b.NewConnection("app")
	if cfg.Telemetry.IntervalMs > 0 {
		topts := []telemetry.Option{telemetry.WithSession(opts.Session), telemetry.WithLogger(log)}
		if cfg.Telemetry.Record != "" {
			f, err := os.Create(cfg.Telemetry.Record)
			if err != nil {
				return err
			}
			defer f.Close()
			topts = append(topts, telemetry.WithRecorder(telemetry.NewRecorder(f)))
		}
		lc.Telemetry = telemetry.New(dev, b.NewConnection("telemetry"), cfg.Telemetry.IntervalMs, topts...)
	}
	loop := app.New(dev, lc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = loop.Run(ctx)
	}()

	con := &console{out: rl.Stdout(), conn: b.NewConnection("console"), dev: dev, sim: sim, pins: pins, lcd: lcd, beat: beat}
	go con.run(ctx, rl, cancel)

	log.Info("stick-sim up", "board", cfg.Board, "panel", opts.Board.Panel.Name, "session", opts.Session)

	if *headless {
		<-ctx.Done()
	} else {
		werr := simwindow.Run(simwindow.Options{
			Scale:        *scale,
			Panel:        lcd,
			Variant:      opts.Board.Panel,
			Controls:     simwindow.Controls{A: pins.Fake(opts.Board.ButtonA), B: pins.Fake(opts.Board.ButtonB), Power: powerKey(sim)},
			LED:          pins.Fake(opts.Board.LED),
			LEDActiveLow: opts.Board.LEDActiveLow,
		})
		cancel()
		if werr != nil {
			log.Error("window", "err", werr)
		}
	}
	wg.Wait()
	return nil
}

// powerKey keeps a nil *SimBoard from becoming a non-nil interface.
func powerKey(sim *stick.SimBoard) simwindow.PowerKey {
	if sim == nil {
		return nil
	}
	return sim
}
