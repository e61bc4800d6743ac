// Package serial opens the host side of the wireless serial link.
package serial

import (
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/rfcomm0", "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the wireless module's UART side
	Baud int

	// Read timeout (0 = blocking)
	ReadTimeout time.Duration
}

// DefaultBaud is the factory rate of HC-05/HC-06 style Bluetooth serial modules
const DefaultBaud = 9600

// DefaultConfig returns a default configuration for the lock's wireless module
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 50 * time.Millisecond,
	}
}
