package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board id (same value placed in ctx under CtxDeviceKey)
// Val: raw YAML for that board
// -----------------------------------------------------------------------------

const cfgStickC = `
board: m5stickc
panel: st7735-mini
i2c:
  id: i2c0
  frequency_hz: 400000
buttons:
  debounce_ms: 10
  invert: true
loop:
  period_ms: 20
brightness: 80
ramp:
  duration_ms: 600
  steps: 20
telemetry:
  interval_ms: 1000
log_level: info
heartbeat:
  interval_ms: 1000
`

const cfgStickCPlus = `
board: m5stickc-plus
panel: st7789-plus
i2c:
  id: i2c0
  frequency_hz: 400000
buttons:
  debounce_ms: 10
  invert: true
loop:
  period_ms: 20
brightness: 80
ramp:
  duration_ms: 600
  steps: 20
telemetry:
  interval_ms: 1000
log_level: info
heartbeat:
  interval_ms: 1000
`

var embeddedConfigs = map[string][]byte{
	"m5stickc":      []byte(cfgStickC),
	"m5stickc-plus": []byte(cfgStickCPlus),
}
