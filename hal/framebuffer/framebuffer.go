// Package framebuffer is the off-screen RGB565 canvas the control loop draws
// into between flushes. It owns a pixel.Image, a text cursor and a fixed
// monospace font. Text goes through tinyfont via a drivers.Displayer view of
// the buffer, so glyphs share the same clipping path as Set.
package framebuffer

import (
	"image/color"
	"math/bits"
	"strings"

	"tinygo.org/x/drivers/pixel"
	"tinygo.org/x/tinyfont"
)

// Color is one RGB565 pixel in panel (big-endian) byte order.
type Color = pixel.RGB565BE

// RGB packs an 8-bit-per-channel colour.
func RGB(r, g, b uint8) Color { return pixel.NewRGB565BE(r, g, b) }

// FromWord converts a logical RGB565 word (red in the top bits) to a Color.
func FromWord(w uint16) Color { return Color(bits.ReverseBytes16(w)) }

// Word is the logical RGB565 value of c.
func Word(c Color) uint16 { return bits.ReverseBytes16(uint16(c)) }

var (
	Black = FromWord(0x0000)
	White = FromWord(0xFFFF)
	Red   = FromWord(0xF800)
	Green = FromWord(0x07E0)
	Blue  = FromWord(0x001F)
)

// Point is a pixel coordinate. Negative values are valid and simply clip.
type Point struct{ X, Y int }

// Buffer is a width×height canvas. It is not safe for concurrent use; the
// owner hands it to a flush for the duration of one call.
type Buffer struct {
	img    pixel.Image[Color]
	w, h   int
	bg, fg Color
	font   tinyfont.Fonter
	ascent int16
	cursor Point
	words  []uint16
}

// New allocates a buffer cleared to bg.
func New(bg, fg Color, w, h int, font tinyfont.Fonter) *Buffer {
	b := &Buffer{
		img:    pixel.NewImage[Color](w, h),
		w:      w,
		h:      h,
		bg:     bg,
		fg:     fg,
		font:   font,
		ascent: fontAscent(font),
	}
	b.img.FillSolidColor(bg)
	return b
}

// fontAscent is the tallest rise above the baseline over printable ASCII.
// tinyfont positions glyphs by baseline; the cursor addresses the top edge.
func fontAscent(f tinyfont.Fonter) int16 {
	if f == nil {
		return 0
	}
	var a int16
	for r := rune(0x20); r < 0x7F; r++ {
		if up := -int16(f.GetGlyph(r).Info().YOffset); up > a {
			a = up
		}
	}
	return a
}

// Size reports the canvas dimensions.
func (b *Buffer) Size() (w, h int) { return b.w, b.h }

func (b *Buffer) Background() Color { return b.bg }
func (b *Buffer) Foreground() Color { return b.fg }

func (b *Buffer) in(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.w && p.Y < b.h
}

// Set colours one pixel. Writes outside the canvas are dropped.
func (b *Buffer) Set(p Point, c Color) {
	if !b.in(p) {
		return
	}
	b.img.Set(p.X, p.Y, c)
}

// ColorAt returns the pixel at p. It panics when p is outside the canvas.
func (b *Buffer) ColorAt(p Point) Color {
	return b.img.Get(p.X, p.Y)
}

// Clear fills the whole canvas with c. The cursor stays where it was.
func (b *Buffer) Clear(c Color) {
	b.img.FillSolidColor(c)
}

// ClearDefault clears to the background colour.
func (b *Buffer) ClearDefault() { b.Clear(b.bg) }

func (b *Buffer) Cursor() Point     { return b.cursor }
func (b *Buffer) SetCursor(p Point) { b.cursor = p }

// LineHeight is the font's vertical advance in pixels.
func (b *Buffer) LineHeight() int { return int(b.lineHeight()) }

func (b *Buffer) lineHeight() int16 {
	if b.font == nil {
		return 0
	}
	return int16(b.font.GetYAdvance())
}

// WriteText renders s in the foreground colour at the cursor. A newline
// moves to column 0 of the next line. The cursor ends just past the last
// glyph drawn.
func (b *Buffer) WriteText(s string) {
	if b.font == nil {
		return
	}
	lines := strings.Split(s, "\n")
	fg := b.fg.RGBA()
	x, y := int16(b.cursor.X), int16(b.cursor.Y)
	for i, line := range lines {
		if i > 0 {
			x = 0
			y += b.lineHeight()
		}
		b.writeLine(x, y, line, fg)
		_, outbox := tinyfont.LineWidth(b.font, line)
		b.cursor = Point{X: int(x) + int(outbox), Y: int(y)}
	}
}

func (b *Buffer) writeLine(x, y int16, line string, c color.RGBA) {
	if line == "" {
		return
	}
	tinyfont.WriteLine(displayer{b}, b.font, x, y+b.ascent, line, c)
}

// Write implements io.Writer for fmt-style callers. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.WriteText(string(p))
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (b *Buffer) WriteString(s string) (int, error) {
	b.WriteText(s)
	return len(s), nil
}

// Bytes is the canvas as big-endian RGB565, two bytes per pixel, row-major.
// The slice aliases the buffer.
func (b *Buffer) Bytes() []uint8 { return b.img.RawBuffer() }

// Words returns the canvas as logical RGB565 words, row-major. The slice is
// reused by the next call.
func (b *Buffer) Words() []uint16 {
	raw := b.img.RawBuffer()
	if cap(b.words) < len(raw)/2 {
		b.words = make([]uint16, len(raw)/2)
	}
	b.words = b.words[:len(raw)/2]
	for i := range b.words {
		b.words[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return b.words
}

// ---- drivers.Displayer ----

// displayer is the view of a Buffer handed to tinyfont. drivers.Displayer
// sizes are int16; Buffer.Size stays int for everyone else.
type displayer struct{ *Buffer }

func (d displayer) Size() (x, y int16) { return int16(d.w), int16(d.h) }

// SetPixel clips like Set; tinyfont glyphs partly off-canvas stay safe.
func (b *Buffer) SetPixel(x, y int16, c color.RGBA) {
	b.Set(Point{int(x), int(y)}, pixel.NewColor[Color](c.R, c.G, c.B))
}

// Display is a no-op; flushing is the panel adapter's job.
func (b *Buffer) Display() error { return nil }
