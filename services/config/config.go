// Package config holds the stick's board configuration: YAML with embedded
// per-board defaults, overlaid by an optional file, validated, and
// published retained on the local bus under config/<section>.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stickhal/bus"
	"stickhal/errcode"
	"stickhal/hal/panel"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for the board id

	DefaultBoard = "m5stickc"
)

// EmbeddedConfigLookup allows overriding how defaults are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

type I2C struct {
	ID          string `yaml:"id"`
	FrequencyHz uint32 `yaml:"frequency_hz"`
}

type Buttons struct {
	DebounceMs uint32 `yaml:"debounce_ms"`
	Invert     bool   `yaml:"invert"`
}

type Loop struct {
	PeriodMs uint32 `yaml:"period_ms"`
}

// Ramp fades the backlight from 0 to Config.Brightness at boot.
type Ramp struct {
	DurationMs uint32 `yaml:"duration_ms"`
	Steps      uint16 `yaml:"steps"`
}

type Trace struct {
	Path string `yaml:"path"`
}

type Telemetry struct {
	IntervalMs uint32 `yaml:"interval_ms"`
	Record     string `yaml:"record"`
}

type Heartbeat struct {
	IntervalMs uint32 `yaml:"interval_ms"`
}

type Config struct {
	Board      string    `yaml:"board"`
	Panel      string    `yaml:"panel"`
	I2C        I2C       `yaml:"i2c"`
	Buttons    Buttons   `yaml:"buttons"`
	Loop       Loop      `yaml:"loop"`
	Brightness int       `yaml:"brightness"`
	Ramp       Ramp      `yaml:"ramp"`
	Trace      Trace     `yaml:"trace"`
	Telemetry  Telemetry `yaml:"telemetry"`
	LogLevel   string    `yaml:"log_level"`
	Heartbeat  Heartbeat `yaml:"heartbeat"`
}

// Default returns the embedded configuration for board.
func Default(board string) (Config, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Config{}, errcode.New(errcode.UnknownBoard, "config.Default", "no embedded config for board: "+board)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("embedded config %s: %w", board, err)
	}
	return c, nil
}

// Parse overlays data onto the defaults of the board it names (or
// DefaultBoard) and validates the result.
func Parse(data []byte) (Config, error) {
	var head struct {
		Board string `yaml:"board"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, errcode.Wrap(errcode.InvalidParams, "config.Parse", err)
	}
	if head.Board == "" {
		head.Board = DefaultBoard
	}
	c, err := Default(head.Board)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errcode.Wrap(errcode.InvalidParams, "config.Parse", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses path. An empty path yields the default board.
func Load(path string) (Config, error) {
	if path == "" {
		c, err := Default(DefaultBoard)
		if err != nil {
			return Config{}, err
		}
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Validate checks ranges and names; every problem is reported.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, errcode.New(errcode.InvalidParams, "config.Validate", fmt.Sprintf(format, args...)))
	}
	if _, ok := EmbeddedConfigLookup(c.Board); !ok {
		bad("unknown board %q", c.Board)
	}
	if _, err := panel.Lookup(c.Panel); err != nil {
		bad("unknown panel %q", c.Panel)
	}
	if c.I2C.ID == "" {
		bad("i2c.id is empty")
	}
	if c.I2C.FrequencyHz == 0 || c.I2C.FrequencyHz > 1_000_000 {
		bad("i2c.frequency_hz %d out of range", c.I2C.FrequencyHz)
	}
	if c.Buttons.DebounceMs > 1000 {
		bad("buttons.debounce_ms %d too long", c.Buttons.DebounceMs)
	}
	if c.Loop.PeriodMs == 0 {
		bad("loop.period_ms must be positive")
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		bad("brightness %d outside 0..100", c.Brightness)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		bad("log_level %q", c.LogLevel)
	}
	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	err := l.UnmarshalText([]byte(strings.ToUpper(s)))
	return l, err
}

// SlogLevel is LogLevel as a slog.Level, Info when unset or invalid.
func (c Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// sections maps each top-level key to its value for publishing.
func (c Config) sections() map[string]any {
	return map[string]any{
		"board":      c.Board,
		"panel":      c.Panel,
		"i2c":        c.I2C,
		"buttons":    c.Buttons,
		"loop":       c.Loop,
		"brightness": c.Brightness,
		"ramp":       c.Ramp,
		"trace":      c.Trace,
		"telemetry":  c.Telemetry,
		"log_level":  c.LogLevel,
		"heartbeat":  c.Heartbeat,
	}
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

// ConfigService publishes a Config retained, one message per section.
type ConfigService struct {
	Name string
	cfg  *Config
}

// NewConfigService publishes cfg, or when nil the embedded config of the
// board named in the context under CtxDeviceKey.
func NewConfigService(cfg *Config) *ConfigService {
	return &ConfigService{Name: serviceName, cfg: cfg}
}

func (s *ConfigService) resolve(ctx context.Context) (Config, error) {
	if s.cfg != nil {
		return *s.cfg, nil
	}
	board, _ := ctx.Value(CtxDeviceKey).(string)
	if board == "" {
		return Config{}, errors.New("missing board id in context")
	}
	return Default(board)
}

func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	c, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	for k, v := range c.sections() {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}

// Start publishes synchronously; retained messages reach later
// subscribers, so nothing needs to wait on it.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	return s.publishConfig(ctx, conn)
}

// Topic is the retained topic carrying one section.
func Topic(section string) bus.Topic { return bus.T(configPrefix, section) }
