package platform

import (
	"errors"
	"testing"
)

func TestMemPanelByteStream(t *testing.T) {
	p := NewMemPanel(4, 3)
	if err := p.DrawRGBBitmap8(1, 1, []uint8{0xF8, 0x00, 0x07, 0xE0}, 2, 1); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got := p.Pixel(1, 1); got != 0xF800 {
		t.Fatalf("pixel(1,1) = %#04x", got)
	}
	if got := p.Pixel(2, 1); got != 0x07E0 {
		t.Fatalf("pixel(2,1) = %#04x", got)
	}
	if p.Pixel(0, 0) != 0 || p.Frames() != 1 {
		t.Fatalf("unexpected state frames=%d", p.Frames())
	}
}

func TestMemPanelWordStreamAndWindow(t *testing.T) {
	p := NewMemPanel(5, 4)
	if err := p.DrawRGBBitmap(2, 1, []uint16{1, 2, 3, 4, 5, 6}, 3, 2); err != nil {
		t.Fatalf("draw: %v", err)
	}
	got := p.Window(nil, 2, 1, 3, 2)
	want := []uint16{1, 2, 3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window = %v, want %v", got, want)
		}
	}
}

func TestMemPanelBounds(t *testing.T) {
	p := NewMemPanel(4, 4)
	cases := []struct{ x, y, w, h int16 }{
		{-1, 0, 1, 1},
		{0, 0, 5, 1},
		{3, 3, 2, 1},
		{0, 0, 0, 1},
	}
	for _, c := range cases {
		if err := p.DrawRGBBitmap(c.x, c.y, make([]uint16, 16), c.w, c.h); !errors.Is(err, ErrPanelBounds) {
			t.Fatalf("%+v: err = %v", c, err)
		}
	}
	// Short data is rejected rather than read past.
	if err := p.DrawRGBBitmap8(0, 0, make([]uint8, 3), 2, 1); !errors.Is(err, ErrPanelBounds) {
		t.Fatalf("short data err = %v", err)
	}
}

func TestMemPanelFault(t *testing.T) {
	p := NewMemPanel(2, 2)
	boom := errors.New("spi stuck")
	p.SetFault(boom)
	if err := p.DrawRGBBitmap(0, 0, make([]uint16, 4), 2, 2); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	p.SetFault(nil)
	if err := p.DrawRGBBitmap(0, 0, make([]uint16, 4), 2, 2); err != nil {
		t.Fatalf("err = %v", err)
	}
}
