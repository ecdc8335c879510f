// Package regio holds the byte-level register codec shared by the stick's
// I²C chips, plus a small register port over a drivers.I2C transport.
//
// Every helper issues exactly one Tx, so each register access is atomic with
// respect to other clients when the transport is an arbitrated proxy.
// Update8 is a read followed by a write and is therefore two transactions.
package regio

import "tinygo.org/x/drivers"

// maxBurst bounds a single ReadN/WriteBytes payload.
const maxBurst = 16

// Port addresses one device on a bus. It holds no per-call state, so one
// Port may be shared by goroutines when the bus is arbitrated.
type Port struct {
	bus  drivers.I2C
	addr uint16
}

func NewPort(bus drivers.I2C, addr uint16) *Port {
	return &Port{bus: bus, addr: addr}
}

func (p *Port) Addr() uint16 { return p.addr }

// Read8 reads one register.
func (p *Port) Read8(reg byte) (byte, error) {
	var r [1]byte
	if err := p.bus.Tx(p.addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// ReadN fills buf starting at reg (auto-increment burst).
func (p *Port) ReadN(reg byte, buf []byte) error {
	return p.bus.Tx(p.addr, []byte{reg}, buf)
}

// Write8 writes one register.
func (p *Port) Write8(reg, val byte) error {
	return p.bus.Tx(p.addr, []byte{reg, val}, nil)
}

// WriteBytes writes data starting at reg. Payloads longer than the
// burst limit are truncated to maxBurst bytes.
func (p *Port) WriteBytes(reg byte, data []byte) error {
	var w [maxBurst + 1]byte
	w[0] = reg
	n := copy(w[1:], data)
	return p.bus.Tx(p.addr, w[:1+n], nil)
}

// Update8 rewrites reg as (old &^ clear) | set. Bits outside both masks
// keep their current value.
func (p *Port) Update8(reg, clear, set byte) error {
	old, err := p.Read8(reg)
	if err != nil {
		return err
	}
	return p.Write8(reg, old&^clear|set)
}

// Read12 reads two bytes at reg and decodes a 12-bit ADC word.
func (p *Port) Read12(reg byte) (uint16, error) {
	var b [2]byte
	if err := p.ReadN(reg, b[:]); err != nil {
		return 0, err
	}
	return Decode12(b[0], b[1]), nil
}

// Read13 reads two bytes at reg and decodes a 13-bit ADC word.
func (p *Port) Read13(reg byte) (uint16, error) {
	var b [2]byte
	if err := p.ReadN(reg, b[:]); err != nil {
		return 0, err
	}
	return Decode13(b[0], b[1]), nil
}

// ReadTriple reads a 6-byte burst of big-endian samples.
func (p *Port) ReadTriple(reg byte) ([3]int16, error) {
	var b [6]byte
	if err := p.ReadN(reg, b[:]); err != nil {
		return [3]int16{}, err
	}
	return Triple(b), nil
}
