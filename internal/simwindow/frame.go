// Package simwindow shows the simulated stick on the desktop: the visible
// part of the in-memory panel, scaled, with the keyboard standing in for
// the two buttons and the power key.
package simwindow

import (
	"stickhal/hal/panel"
	"stickhal/hal/platform"
)

// Frame converts the visible window of a MemPanel to RGBA pixels.
type Frame struct {
	src   *platform.MemPanel
	v     panel.Variant
	words []uint16
	pix   []byte
}

func NewFrame(src *platform.MemPanel, v panel.Variant) *Frame {
	return &Frame{src: src, v: v, pix: make([]byte, 4*v.Width*v.Height)}
}

func (f *Frame) Size() (w, h int) { return f.v.Width, f.v.Height }

// Refresh re-reads the panel and returns the RGBA pixels. The slice is
// reused across calls.
func (f *Frame) Refresh() []byte {
	f.words = f.src.Window(f.words, f.v.XOffset, f.v.YOffset, f.v.Width, f.v.Height)
	for i, w := range f.words {
		r, g, b := Expand565(w)
		j := 4 * i
		f.pix[j], f.pix[j+1], f.pix[j+2], f.pix[j+3] = r, g, b, 0xFF
	}
	return f.pix
}

// Expand565 widens an RGB565 word to 8 bits per channel, replicating the
// high bits so full scale maps to 0xFF.
func Expand565(w uint16) (r, g, b byte) {
	r5 := byte(w >> 11 & 0x1F)
	g6 := byte(w >> 5 & 0x3F)
	b5 := byte(w & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}
