package stick

import (
	"stickhal/errcode"
	"stickhal/hal/halcore"
	"stickhal/hal/panel"
)

// Board is the fixed wiring of one stick model.
type Board struct {
	Name    string
	Panel   panel.Variant
	Bus     halcore.BusID
	ButtonA int // front (M5) key
	ButtonB int // side key
	LED     int
	// LEDActiveLow: the red LED is sunk by the GPIO.
	LEDActiveLow bool
}

var (
	StickC = Board{
		Name:         "m5stickc",
		Panel:        panel.ST7735Mini,
		Bus:          "i2c0",
		ButtonA:      37,
		ButtonB:      39,
		LED:          10,
		LEDActiveLow: true,
	}
	StickCPlus = Board{
		Name:         "m5stickc-plus",
		Panel:        panel.ST7789Plus,
		Bus:          "i2c0",
		ButtonA:      37,
		ButtonB:      39,
		LED:          10,
		LEDActiveLow: true,
	}
)

// Boards lists the supported models by name.
var Boards = map[string]Board{
	StickC.Name:     StickC,
	StickCPlus.Name: StickCPlus,
}

func LookupBoard(name string) (Board, error) {
	b, ok := Boards[name]
	if !ok {
		return Board{}, errcode.New(errcode.UnknownBoard, "stick.LookupBoard", name)
	}
	return b, nil
}
