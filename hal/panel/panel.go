// Package panel pushes a framebuffer to an RGB565 SPI panel in the panel's
// native pixel encoding, shifting into the visible window of controllers
// whose RAM is larger than the glass.
package panel

import (
	"stickhal/errcode"
	"stickhal/hal/framebuffer"
)

// Panel is the byte-stream transport, the shape of the TinyGo st7735 and
// st7789 drivers. Coordinates are controller RAM coordinates.
type Panel interface {
	DrawRGBBitmap8(x, y int16, data []uint8, w, h int16) error
}

// WordPanel additionally accepts one uint16 per pixel.
type WordPanel interface {
	Panel
	DrawRGBBitmap(x, y int16, data []uint16, w, h int16) error
}

// Encoding is how a controller wants pixel data delivered.
type Encoding uint8

const (
	Bytes Encoding = iota // two big-endian bytes per pixel
	Words                 // one RGB565 word per pixel
)

func (e Encoding) String() string {
	switch e {
	case Bytes:
		return "bytes"
	case Words:
		return "words"
	}
	return "unknown"
}

// Variant describes one panel fitting: visible size in landscape and where
// that window sits in controller RAM.
type Variant struct {
	Name     string
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	Encoding Encoding
}

var (
	ST7735Mini = Variant{Name: "st7735-mini", Width: 160, Height: 80, XOffset: 1, YOffset: 26, Encoding: Bytes}
	ST7789Plus = Variant{Name: "st7789-plus", Width: 240, Height: 135, XOffset: 40, YOffset: 53, Encoding: Words}
)

// Variants lists the known fittings by name.
var Variants = map[string]Variant{
	ST7735Mini.Name: ST7735Mini,
	ST7789Plus.Name: ST7789Plus,
}

// Lookup finds a variant by name.
func Lookup(name string) (Variant, error) {
	v, ok := Variants[name]
	if !ok {
		return Variant{}, errcode.New(errcode.InvalidParams, "panel.Lookup", "unknown panel "+name)
	}
	return v, nil
}

// RAMSize is the controller window the driver must be sized to so the
// offset visible area is addressable.
func (v Variant) RAMSize() (w, h int) {
	return v.Width + v.XOffset, v.Height + v.YOffset
}

// Adapter flushes whole framebuffers to one panel.
type Adapter struct {
	v     Variant
	p     Panel
	words WordPanel
	n     uint64
}

// New pairs a transport with its variant. A word variant needs a
// WordPanel.
func New(p Panel, v Variant) (*Adapter, error) {
	const op = "panel.New"
	if p == nil {
		return nil, errcode.New(errcode.InvalidParams, op, "nil panel")
	}
	a := &Adapter{v: v, p: p}
	if v.Encoding == Words {
		wp, ok := p.(WordPanel)
		if !ok {
			return nil, errcode.New(errcode.InvalidParams, op, v.Name+" needs a word transport")
		}
		a.words = wp
	}
	return a, nil
}

func (a *Adapter) Variant() Variant { return a.v }

// Size is the visible area.
func (a *Adapter) Size() (w, h int) { return a.v.Width, a.v.Height }

// Flushes counts successful flushes.
func (a *Adapter) Flushes() uint64 { return a.n }

// Flush writes buf in one bulk transfer covering the whole visible window.
// Raw transport failures come back as errcode.Transport, while an error
// that already carries a code keeps it. Nothing is retried.
func (a *Adapter) Flush(buf *framebuffer.Buffer) error {
	const op = "panel.Flush"
	w, h := buf.Size()
	if w != a.v.Width || h != a.v.Height {
		return errcode.New(errcode.InvalidParams, op, "buffer size does not match "+a.v.Name)
	}
	x, y := int16(a.v.XOffset), int16(a.v.YOffset)

	var err error
	switch a.v.Encoding {
	case Words:
		err = a.words.DrawRGBBitmap(x, y, buf.Words(), int16(w), int16(h))
	default:
		err = a.p.DrawRGBBitmap8(x, y, buf.Bytes(), int16(w), int16(h))
	}
	if err != nil {
		return errcode.Wrap(errcode.MapDriverErr(err), op, err)
	}
	a.n++
	return nil
}
