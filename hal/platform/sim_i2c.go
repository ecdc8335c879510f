package platform

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"
)

// ErrNoDevice is returned when nothing acknowledges the address.
var ErrNoDevice = errors.New("i2c: no device at address")

// SimTx is one recorded transaction.
type SimTx struct {
	Addr uint16
	W    []byte
	R    []byte
	Err  error
}

// SimDevice is a 256-register file with auto-incrementing access.
type SimDevice struct {
	Regs [256]byte
	// OnWrite, when set, sees every register write. Returning true means
	// the hook handled the store itself.
	OnWrite func(d *SimDevice, reg, val byte) bool
}

// SimI2C implements drivers.I2C over in-memory register files. It does not
// serialise callers beyond protecting its own state, so overlapping Tx
// calls are observable through Overlaps.
type SimI2C struct {
	mu    sync.Mutex
	devs  map[uint16]*SimDevice
	log   []SimTx
	fault func(addr uint16, w []byte) error

	// Delay is spent inside Tx outside the state lock, to widen the window
	// in which unserialised callers would overlap.
	Delay time.Duration

	inFlight atomic.Int32
	overlaps atomic.Int32
	noLog    atomic.Bool
}

var _ drivers.I2C = (*SimI2C)(nil)

func NewSimI2C() *SimI2C {
	return &SimI2C{devs: make(map[uint16]*SimDevice)}
}

// AddDevice attaches a device at addr, replacing any previous one.
func (s *SimI2C) AddDevice(addr uint16) *SimDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &SimDevice{}
	s.devs[addr] = d
	return d
}

// Device returns the device at addr, or nil.
func (s *SimI2C) Device(addr uint16) *SimDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devs[addr]
}

// Reg and SetReg access a register directly, bypassing the log.
func (s *SimI2C) Reg(addr uint16, reg byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d := s.devs[addr]; d != nil {
		return d.Regs[reg]
	}
	return 0
}

func (s *SimI2C) SetReg(addr uint16, reg, val byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d := s.devs[addr]; d != nil {
		d.Regs[reg] = val
	}
}

// SetFault installs a hook consulted before every transaction; a non-nil
// result fails the transaction without touching registers.
func (s *SimI2C) SetFault(f func(addr uint16, w []byte) error) {
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
}

func (s *SimI2C) Tx(addr uint16, w, r []byte) error {
	if s.inFlight.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	defer s.inFlight.Add(-1)
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.tx(addr, w, r)
	if s.noLog.Load() {
		return err
	}
	s.log = append(s.log, SimTx{
		Addr: addr,
		W:    append([]byte(nil), w...),
		R:    append([]byte(nil), r...),
		Err:  err,
	})
	return err
}

func (s *SimI2C) tx(addr uint16, w, r []byte) error {
	if s.fault != nil {
		if err := s.fault(addr, w); err != nil {
			return err
		}
	}
	d := s.devs[addr]
	if d == nil {
		return ErrNoDevice
	}
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	for i, v := range w[1:] {
		rr := reg + byte(i)
		if d.OnWrite == nil || !d.OnWrite(d, rr, v) {
			d.Regs[rr] = v
		}
	}
	for i := range r {
		r[i] = d.Regs[reg+byte(i)]
	}
	return nil
}

// Log returns a copy of the transaction log.
func (s *SimI2C) Log() []SimTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SimTx(nil), s.log...)
}

// Writes returns the logged register writes (w longer than the register
// byte) to addr, in order.
func (s *SimI2C) Writes(addr uint16) []SimTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SimTx
	for _, t := range s.log {
		if t.Addr == addr && len(t.W) > 1 {
			out = append(out, t)
		}
	}
	return out
}

// SetLogging turns the transaction log on or off. Long-running simulators
// switch it off so the log does not grow without bound.
func (s *SimI2C) SetLogging(on bool) { s.noLog.Store(!on) }

func (s *SimI2C) ResetLog() {
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
}

// Overlaps counts transactions that started while another was in flight.
func (s *SimI2C) Overlaps() int { return int(s.overlaps.Load()) }
