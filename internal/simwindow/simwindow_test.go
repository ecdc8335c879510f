package simwindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickhal/hal/panel"
	"stickhal/hal/platform"
)

func TestExpand565(t *testing.T) {
	for _, c := range []struct {
		w       uint16
		r, g, b byte
	}{
		{0x0000, 0, 0, 0},
		{0xFFFF, 0xFF, 0xFF, 0xFF},
		{0xF800, 0xFF, 0, 0},
		{0x07E0, 0, 0xFF, 0},
		{0x001F, 0, 0, 0xFF},
		{0x8410, 0x84, 0x82, 0x84},
	} {
		r, g, b := Expand565(c.w)
		assert.Equal(t, [3]byte{c.r, c.g, c.b}, [3]byte{r, g, b}, "%#04x", c.w)
	}
}

func TestFrameReadsVisibleWindow(t *testing.T) {
	v := panel.ST7735Mini
	mem := platform.NewMemPanel(v.RAMSize())
	// One red pixel at the visible origin, one blue outside the window.
	require.NoError(t, mem.DrawRGBBitmap(int16(v.XOffset), int16(v.YOffset), []uint16{0xF800}, 1, 1))
	require.NoError(t, mem.DrawRGBBitmap(0, 0, []uint16{0x001F}, 1, 1))

	f := NewFrame(mem, v)
	pix := f.Refresh()
	require.Len(t, pix, 4*v.Width*v.Height)
	assert.Equal(t, []byte{0xFF, 0, 0, 0xFF}, pix[:4])
	assert.Equal(t, []byte{0, 0, 0, 0xFF}, pix[4:8])
	for i := 0; i < len(pix); i += 4 {
		if pix[i+2] != 0 {
			t.Fatalf("blue leaked in at pixel %d", i/4)
		}
	}
}

type keys struct{ down, up map[Key]bool }

func (k keys) JustPressed(x Key) bool  { return k.down[x] }
func (k keys) JustReleased(x Key) bool { return k.up[x] }

type power struct{ short, long int }

func (p *power) PressPower(long bool) {
	if long {
		p.long++
	} else {
		p.short++
	}
}

func TestControls(t *testing.T) {
	a, b := platform.NewFakePin(37), platform.NewFakePin(39)
	a.Set(true)
	b.Set(true)
	pw := &power{}
	c := Controls{A: a, B: b, Power: pw}

	quit := c.Apply(keys{down: map[Key]bool{KeyA: true, KeyPowerShort: true}})
	assert.False(t, quit)
	assert.False(t, a.Get(), "A pulled low while held")
	assert.True(t, b.Get())
	assert.Equal(t, 1, pw.short)

	// No edges: pins hold.
	c.Apply(keys{})
	assert.False(t, a.Get())

	c.Apply(keys{up: map[Key]bool{KeyA: true}, down: map[Key]bool{KeyPowerLong: true}})
	assert.True(t, a.Get())
	assert.Equal(t, 1, pw.long)

	assert.True(t, c.Apply(keys{down: map[Key]bool{KeyQuit: true}}))
}
