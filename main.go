//go:build tinygo && esp32

// Firmware entry point: bring up the stick with its embedded board config
// and run the control loop forever.
package main

import (
	"context"
	"log/slog"
	"time"

	"stickhal/app"
	"stickhal/bus"
	"stickhal/hal/stick"
	"stickhal/services/config"
	"stickhal/services/heartbeat"
	"stickhal/services/telemetry"
)

func main() {
	// Allow USB serial to settle before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg, err := config.Default(config.DefaultBoard)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		halt("config", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(machineConsole{}, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	opts, err := app.DeviceOptions(cfg)
	if err != nil {
		halt("options", err)
	}
	dev, err := stick.Open(opts)
	if err != nil {
		halt("open", err)
	}

	ctx := context.Background()
	b := bus.NewBus(8)
	if err := config.NewConfigService(&cfg).Start(ctx, b.NewConnection("config")); err != nil {
		halt("config service", err)
	}
	beat := heartbeat.New(dev.LED, time.Duration(cfg.Heartbeat.IntervalMs)*time.Millisecond, nil)
	_ = beat.Start(ctx, b.NewConnection("heartbeat"))

	lc := app.LoopConfig(cfg)
	if cfg.Telemetry.IntervalMs > 0 {
		lc.Telemetry = telemetry.New(dev, b.NewConnection("telemetry"), cfg.Telemetry.IntervalMs)
	}
	_ = app.New(dev, lc).Run(ctx)
}

// halt reports a fatal boot error on the console and parks.
func halt(stage string, err error) {
	for {
		println("boot failed:", stage, err.Error())
		time.Sleep(5 * time.Second)
	}
}

// machineConsole writes log records to the TinyGo console.
type machineConsole struct{}

func (machineConsole) Write(p []byte) (int, error) {
	print(string(p))
	return len(p), nil
}
