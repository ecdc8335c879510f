package platform

import (
	"errors"
	"sync"
)

// ErrPanelBounds mirrors the TinyGo st77xx drivers' window check.
var ErrPanelBounds = errors.New("panel: rectangle out of bounds")

// MemPanel is controller RAM held in memory. It accepts both the byte and
// the word stream so either panel variant can be simulated, and it is safe
// to read from a render goroutine while the loop writes.
type MemPanel struct {
	mu     sync.RWMutex
	w, h   int
	ram    []uint16
	frames uint64
	fault  error
}

// NewMemPanel sizes the RAM to the controller window, offsets included.
func NewMemPanel(ramW, ramH int) *MemPanel {
	return &MemPanel{w: ramW, h: ramH, ram: make([]uint16, ramW*ramH)}
}

func (m *MemPanel) Size() (w, h int) { return m.w, m.h }

// SetFault makes every following draw fail with err (nil clears).
func (m *MemPanel) SetFault(err error) {
	m.mu.Lock()
	m.fault = err
	m.mu.Unlock()
}

func (m *MemPanel) check(x, y, w, h int16, n int) error {
	if m.fault != nil {
		return m.fault
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || int(x)+int(w) > m.w || int(y)+int(h) > m.h {
		return ErrPanelBounds
	}
	if n < int(w)*int(h) {
		return ErrPanelBounds
	}
	return nil
}

func (m *MemPanel) DrawRGBBitmap8(x, y int16, data []uint8, w, h int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(x, y, w, h, len(data)/2); err != nil {
		return err
	}
	i := 0
	for row := 0; row < int(h); row++ {
		base := (int(y)+row)*m.w + int(x)
		for col := 0; col < int(w); col++ {
			m.ram[base+col] = uint16(data[i])<<8 | uint16(data[i+1])
			i += 2
		}
	}
	m.frames++
	return nil
}

func (m *MemPanel) DrawRGBBitmap(x, y int16, data []uint16, w, h int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(x, y, w, h, len(data)); err != nil {
		return err
	}
	for row := 0; row < int(h); row++ {
		copy(m.ram[(int(y)+row)*m.w+int(x):], data[row*int(w):(row+1)*int(w)])
	}
	m.frames++
	return nil
}

// Pixel is the RGB565 word at RAM coordinate (x, y).
func (m *MemPanel) Pixel(x, y int) uint16 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ram[y*m.w+x]
}

// Window copies a w×h region starting at (x, y) into dst, row-major, and
// returns it. dst is grown when short.
func (m *MemPanel) Window(dst []uint16, x, y, w, h int) []uint16 {
	if cap(dst) < w*h {
		dst = make([]uint16, w*h)
	}
	dst = dst[:w*h]
	m.mu.RLock()
	for row := 0; row < h; row++ {
		copy(dst[row*w:(row+1)*w], m.ram[(y+row)*m.w+x:])
	}
	m.mu.RUnlock()
	return dst
}

// Frames counts successful draws.
func (m *MemPanel) Frames() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames
}
