package platform

import (
	"errors"
	"testing"
)

func TestSimI2CAutoIncrement(t *testing.T) {
	s := NewSimI2C()
	s.AddDevice(0x34)

	if err := s.Tx(0x34, []byte{0x10, 0xAA, 0xBB, 0xCC}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := make([]byte, 3)
	if err := s.Tx(0x34, []byte{0x10}, r); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r[0] != 0xAA || r[1] != 0xBB || r[2] != 0xCC {
		t.Fatalf("got % X", r)
	}
	if got := s.Reg(0x34, 0x11); got != 0xBB {
		t.Fatalf("Reg = %#x", got)
	}
}

func TestSimI2CNoDevice(t *testing.T) {
	s := NewSimI2C()
	if err := s.Tx(0x50, []byte{0}, nil); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("err = %v, want ErrNoDevice", err)
	}
	log := s.Log()
	if len(log) != 1 || log[0].Err == nil {
		t.Fatalf("failed tx not logged: %+v", log)
	}
}

func TestSimI2CFaultLeavesRegisters(t *testing.T) {
	s := NewSimI2C()
	s.AddDevice(0x68)
	boom := errors.New("boom")
	s.SetFault(func(addr uint16, w []byte) error {
		if len(w) > 0 && w[0] == 0x6B {
			return boom
		}
		return nil
	})
	if err := s.Tx(0x68, []byte{0x6B, 0x80}, nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if s.Reg(0x68, 0x6B) != 0 {
		t.Fatal("faulted write reached the register file")
	}
	if err := s.Tx(0x68, []byte{0x6C, 0x01}, nil); err != nil {
		t.Fatalf("unrelated write: %v", err)
	}
	if n := len(s.Writes(0x68)); n != 2 {
		t.Fatalf("Writes = %d, want 2", n)
	}
}

func TestSimI2CWriteHook(t *testing.T) {
	s := NewSimI2C()
	d := s.AddDevice(0x34)
	d.Regs[0x46] = 0x02
	// write-1-to-clear
	d.OnWrite = func(d *SimDevice, reg, val byte) bool {
		if reg != 0x46 {
			return false
		}
		d.Regs[reg] &^= val
		return true
	}
	if err := s.Tx(0x34, []byte{0x46, 0x03}, nil); err != nil {
		t.Fatal(err)
	}
	if got := s.Reg(0x34, 0x46); got != 0 {
		t.Fatalf("latch = %#x, want 0", got)
	}
}

func TestFakePin(t *testing.T) {
	var f HostPinFactory
	p, ok := f.ByNumber(37)
	if !ok || p.Number() != 37 {
		t.Fatal("ByNumber")
	}
	_ = p.ConfigureInput(0)
	f.Fake(37).Set(true)
	if !p.Get() {
		t.Fatal("factory returned a different pin")
	}
	p.Toggle()
	if p.Get() {
		t.Fatal("Toggle")
	}
}
