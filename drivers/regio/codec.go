package regio

// Decode12 reassembles a 12-bit ADC word split as [b0 = bits 11..4, b1 = bits 3..0].
// The low byte is added, not masked, matching how the power chip's reference
// firmware composes the word.
func Decode12(b0, b1 byte) uint16 { return uint16(b0)<<4 + uint16(b1) }

// Decode13 is Decode12 for 13-bit words (b0 = bits 12..5).
func Decode13(b0, b1 byte) uint16 { return uint16(b0)<<5 + uint16(b1) }

// BE16 assembles a big-endian signed 16-bit sample.
func BE16(hi, lo byte) int16 { return int16(uint16(hi)<<8 | uint16(lo)) }

// Triple splits a 6-byte burst into three big-endian signed samples (X, Y, Z).
func Triple(b [6]byte) [3]int16 {
	return [3]int16{BE16(b[0], b[1]), BE16(b[2], b[3]), BE16(b[4], b[5])}
}

// Scale converts a raw count to units: raw*lsb + offset.
func Scale(raw, lsb, offset float32) float32 { return raw*lsb + offset }
