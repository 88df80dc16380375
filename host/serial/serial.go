package serial

import (
	"io"
)

// Port is the byte stream a probe reads frames from. Implementations:
// - NativePort, a real serial device through github.com/tarm/serial
// - probe.SimPort, an in-process simulated target
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string `json:"device"`

	// Baud rate; USB CDC targets ignore it
	Baud int `json:"baud"`

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int `json:"read_timeout_ms"`
}

// DefaultConfig returns the configuration used for USB CDC targets
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
