package platform

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"tinygo.org/x/drivers"
)

// Bridge carries I²C transactions over a byte stream to a USB-serial
// adapter (or a simulator on the other end of a pty).
//
// Request:  0xA5 addrLo addrHi nW nR w[0..nW)
// Response: status r[0..nR)   (r only when status == bridgeOK)
const (
	bridgeMagic   = 0xA5
	bridgeOK      = 0x00
	bridgeNack    = 0x01
	bridgeFailure = 0x02

	bridgeMaxPayload = 255
)

var (
	ErrBridgeNack    = errors.New("bridge: address not acknowledged")
	ErrBridgeFailure = errors.New("bridge: remote transaction failed")
	ErrBridgeFrame   = errors.New("bridge: malformed frame")
)

// Bridge implements drivers.I2C over an io.ReadWriter.
type Bridge struct {
	mu  sync.Mutex
	rw  io.ReadWriter
	hdr [5]byte
}

var _ drivers.I2C = (*Bridge)(nil)

func NewBridge(rw io.ReadWriter) *Bridge { return &Bridge{rw: rw} }

func (b *Bridge) Tx(addr uint16, w, r []byte) error {
	if len(w) > bridgeMaxPayload || len(r) > bridgeMaxPayload {
		return fmt.Errorf("bridge: payload too large (w=%d r=%d)", len(w), len(r))
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hdr = [5]byte{bridgeMagic, byte(addr), byte(addr >> 8), byte(len(w)), byte(len(r))}
	if _, err := b.rw.Write(append(b.hdr[:], w...)); err != nil {
		return err
	}
	var st [1]byte
	if _, err := io.ReadFull(b.rw, st[:]); err != nil {
		return err
	}
	switch st[0] {
	case bridgeOK:
	case bridgeNack:
		return ErrBridgeNack
	default:
		return ErrBridgeFailure
	}
	if len(r) == 0 {
		return nil
	}
	_, err := io.ReadFull(b.rw, r)
	return err
}

// ServeBridge answers Bridge frames from rw against tx until rw reports
// io.EOF. Transport errors from tx are reported to the peer, not returned.
func ServeBridge(rw io.ReadWriter, tx drivers.I2C) error {
	var hdr [5]byte
	w := make([]byte, bridgeMaxPayload)
	r := make([]byte, bridgeMaxPayload)
	for {
		if _, err := io.ReadFull(rw, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if hdr[0] != bridgeMagic {
			return ErrBridgeFrame
		}
		addr := uint16(hdr[1]) | uint16(hdr[2])<<8
		nw, nr := int(hdr[3]), int(hdr[4])
		if _, err := io.ReadFull(rw, w[:nw]); err != nil {
			return err
		}
		resp := []byte{bridgeOK}
		switch err := tx.Tx(addr, w[:nw], r[:nr]); {
		case err == nil:
			resp = append(resp, r[:nr]...)
		case errors.Is(err, ErrNoDevice):
			resp[0] = bridgeNack
		default:
			resp[0] = bridgeFailure
		}
		if _, err := rw.Write(resp); err != nil {
			return err
		}
	}
}
