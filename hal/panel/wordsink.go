package panel

// WordSink gives a byte-only driver the word path. Each word is sent high
// byte first, which is the order the controller clocks RGB565 in.
type WordSink struct {
	Panel
	scratch []uint8
}

func NewWordSink(p Panel) *WordSink { return &WordSink{Panel: p} }

func (s *WordSink) DrawRGBBitmap(x, y int16, data []uint16, w, h int16) error {
	n := 2 * len(data)
	if cap(s.scratch) < n {
		s.scratch = make([]uint8, n)
	}
	b := s.scratch[:n]
	for i, px := range data {
		b[2*i] = uint8(px >> 8)
		b[2*i+1] = uint8(px)
	}
	return s.Panel.DrawRGBBitmap8(x, y, b, w, h)
}
