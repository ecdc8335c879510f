package platform

import (
	"errors"
	"net"
	"testing"
)

func TestBridgeRoundTrip(t *testing.T) {
	sim := NewSimI2C()
	sim.AddDevice(0x34)
	sim.SetReg(0x34, 0x78, 0x5A)
	sim.SetReg(0x34, 0x79, 0x03)

	client, server := net.Pipe()
	done := make(chan error, 1)
	go func() { done <- ServeBridge(server, sim) }()

	b := NewBridge(client)

	r := make([]byte, 2)
	if err := b.Tx(0x34, []byte{0x78}, r); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r[0] != 0x5A || r[1] != 0x03 {
		t.Fatalf("got % X", r)
	}

	if err := b.Tx(0x34, []byte{0x28, 0xCC}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := sim.Reg(0x34, 0x28); got != 0xCC {
		t.Fatalf("reg 0x28 = %#x", got)
	}

	if err := b.Tx(0x11, []byte{0x00}, nil); !errors.Is(err, ErrBridgeNack) {
		t.Fatalf("absent device: %v", err)
	}

	client.Close()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}

func TestBridgeRejectsOversize(t *testing.T) {
	b := NewBridge(nil)
	if err := b.Tx(0x34, make([]byte, 300), nil); err == nil {
		t.Fatal("expected size error")
	}
}
