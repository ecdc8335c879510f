package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stickhal/bus"
	"stickhal/errcode"
)

func TestDefaultsValidate(t *testing.T) {
	for board := range embeddedConfigs {
		c, err := Default(board)
		if err != nil {
			t.Fatalf("%s: %v", board, err)
		}
		if c.Board != board {
			t.Fatalf("%s: board field = %q", board, c.Board)
		}
		if err := c.Validate(); err != nil {
			t.Fatalf("%s: %v", board, err)
		}
	}
}

func TestParseOverlaysBoardDefaults(t *testing.T) {
	c, err := Parse([]byte(`
board: m5stickc-plus
brightness: 40
loop:
  period_ms: 50
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Panel != "st7789-plus" {
		t.Fatalf("panel = %q, want board default", c.Panel)
	}
	if c.Brightness != 40 || c.Loop.PeriodMs != 50 {
		t.Fatalf("overlay not applied: %+v", c)
	}
	if c.I2C.FrequencyHz != 400000 {
		t.Fatalf("i2c default lost: %+v", c.I2C)
	}
}

func TestParseEmptyUsesDefaultBoard(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Board != DefaultBoard {
		t.Fatalf("board = %q", c.Board)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"brightness": "brightness: 101",
		"panel":      "panel: ili9341",
		"period":     "loop: {period_ms: 0}",
		"level":      "log_level: chatty",
		"syntax":     "brightness: [",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%s: code = %v (%v)", name, errcode.Of(err), err)
		}
	}
	if _, err := Parse([]byte("board: cardputer")); errcode.Of(err) != errcode.UnknownBoard {
		t.Fatalf("unknown board: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "stick.yaml")
	if err := os.WriteFile(p, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if c.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", c.SlogLevel())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if c, err := Load(""); err != nil || c.Board != DefaultBoard {
		t.Fatalf("Load(\"\") = %+v, %v", c, err)
	}
}

func TestConfig_PublishRetainedPerSection(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "m5stickc")
	if err := NewConfigService(nil).Start(ctx, conn); err != nil {
		t.Fatal(err)
	}

	// Retained messages arrive on subscribe.
	sub := conn.Subscribe(Topic("heartbeat"))
	select {
	case m := <-sub.Channel():
		hb, ok := m.Payload.(Heartbeat)
		if !ok {
			t.Fatalf("payload type %T, want Heartbeat", m.Payload)
		}
		if hb.IntervalMs != 1000 {
			t.Fatalf("interval = %d", hb.IntervalMs)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("no retained heartbeat config")
	}

	all := conn.Subscribe(bus.T(configPrefix, "#"))
	got := 0
	deadline := time.After(500 * time.Millisecond)
	for got < 11 {
		select {
		case <-all.Channel():
			got++
		case <-deadline:
			t.Fatalf("got %d retained sections, want 11", got)
		}
	}
}

func TestConfig_PublishExplicitConfig(t *testing.T) {
	c, err := Default("m5stickc-plus")
	if err != nil {
		t.Fatal(err)
	}
	c.Brightness = 55
	b := bus.NewBus(4)
	conn := b.NewConnection("explicit")
	if err := NewConfigService(&c).Start(context.Background(), conn); err != nil {
		t.Fatal(err)
	}
	sub := conn.Subscribe(Topic("brightness"))
	select {
	case m := <-sub.Channel():
		if m.Payload != 55 {
			t.Fatalf("brightness = %#v", m.Payload)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("no retained brightness")
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	if err := NewConfigService(nil).publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing board id, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := NewConfigService(nil).publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}
