//go:build rp2040

package main

import (
	"machine"

	"ticktock/freq"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildClockOutProgram toggles the SET pin every cycle, so the pin runs
// at half the state machine clock.
func buildClockOutProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 0: set pins, 1
		asm.Set(rp2pio.SetDestPins, 0).Encode(), // 1: set pins, 0
		// .wrap
	}
}

const (
	clockOutCyclesPerPeriod = 2
	clockOutPIOOrigin       = 0
)

// ClockOut is a square wave reference on a PIO state machine. A scope or
// counter on the pin checks the tick rate the host is told about.
type ClockOut struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewClockOut claims a free state machine on PIO0
func NewClockOut(pin machine.Pin) (*ClockOut, error) {
	sm, err := rp2pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	return &ClockOut{
		pio: rp2pio.PIO0,
		sm:  sm,
		pin: pin,
	}, nil
}

// Start outputs target, derived from the PIO source clock src. The 16.8
// divider truncates, so the pin may run slightly fast.
func (c *ClockOut) Start(src, target freq.Frequency) error {
	whole, frac, err := src.Prescale(target.Mul(clockOutCyclesPerPeriod))
	if err != nil {
		return err
	}

	program := buildClockOutProgram()
	offset, err := c.pio.AddProgram(program, clockOutPIOOrigin)
	if err != nil {
		return err
	}
	c.offset = offset

	c.pin.Configure(machine.PinConfig{Mode: c.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(c.pin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(whole, frac)

	c.sm.Init(offset, cfg)
	c.sm.SetPindirsConsecutive(c.pin, 1, true)
	c.sm.SetEnabled(true)
	return nil
}

func (c *ClockOut) Stop() {
	c.sm.SetEnabled(false)
}
