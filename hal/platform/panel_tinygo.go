//go:build tinygo && esp32

package platform

import (
	"machine"

	"stickhal/errcode"
	"stickhal/hal/panel"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7735"
	"tinygo.org/x/drivers/st7789"
)

// LCD wiring shared by the StickC and StickC Plus. The backlight is the
// AXP192 LDO2 rail, so the drivers get no backlight pin.
const (
	LCDSCK = machine.Pin(13)
	LCDSDO = machine.Pin(15)
	LCDCS  = machine.Pin(5)
	LCDDC  = machine.Pin(23)
	LCDRST = machine.Pin(18)
)

// DefaultPanel brings up the controller for v and returns a transport the
// panel adapter can drive. The driver is sized to the full RAM window with
// zero offsets so the adapter's offsets are the only ones applied.
func DefaultPanel(v panel.Variant) (panel.Panel, error) {
	spi := machine.SPI2
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 27_000_000,
		SCK:       LCDSCK,
		SDO:       LCDSDO,
		SDI:       machine.NoPin,
		Mode:      0,
	}); err != nil {
		return nil, err
	}
	ramW, ramH := v.RAMSize()

	switch v.Name {
	case panel.ST7735Mini.Name:
		d := st7735.New(spi, LCDRST, LCDDC, LCDCS, machine.NoPin)
		// Native portrait; rotate so Size reports the landscape window.
		d.Configure(st7735.Config{
			Model:    st7735.MINI80x160,
			Width:    int16(ramH),
			Height:   int16(ramW),
			Rotation: drivers.Rotation90,
		})
		return &d, nil
	case panel.ST7789Plus.Name:
		d := st7789.New(spi, LCDRST, LCDDC, LCDCS, machine.NoPin)
		d.Configure(st7789.Config{
			Width:    int16(ramH),
			Height:   int16(ramW),
			Rotation: drivers.Rotation90,
		})
		// v0.33 st7789 only streams bytes.
		return panel.NewWordSink(&d), nil
	}
	return nil, errcode.New(errcode.Unsupported, "platform.DefaultPanel", "no driver for "+v.Name)
}
