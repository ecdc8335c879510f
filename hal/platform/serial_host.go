//go:build !tinygo

package platform

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig selects the tty carrying bridge frames.
type SerialConfig struct {
	Device      string // e.g. "/dev/ttyUSB0", "COM3"
	Baud        int
	ReadTimeout time.Duration // 0 = blocking
}

// SerialBridge is a Bridge bound to a serial port.
type SerialBridge struct {
	*Bridge
	port io.Closer
}

// OpenSerialBridge opens the port and wraps it as an I²C transport.
func OpenSerialBridge(cfg SerialConfig) (*SerialBridge, error) {
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial bridge %s: %w", cfg.Device, err)
	}
	return &SerialBridge{Bridge: NewBridge(port), port: port}, nil
}

func (s *SerialBridge) Close() error { return s.port.Close() }
