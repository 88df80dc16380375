//go:build rp2040

package main

import (
	"machine"
)

// InitUSB configures machine.Serial, which is USB CDC on RP2040
func InitUSB() error {
	return machine.Serial.Configure(machine.UARTConfig{})
}

// drainUSB discards host input; the firmware takes no commands
func drainUSB() {
	for machine.Serial.Buffered() > 0 {
		if _, err := machine.Serial.ReadByte(); err != nil {
			return
		}
	}
}

// USBWriteBytes writes data, giving up after repeated stalls. It reports
// whether everything was written.
func USBWriteBytes(data []byte) bool {
	stalls := 0
	for len(data) > 0 {
		n, err := machine.Serial.Write(data)
		if err != nil || n == 0 {
			stalls++
			if stalls > 10 {
				return false
			}
			continue
		}
		stalls = 0
		data = data[n:]
	}
	return true
}
