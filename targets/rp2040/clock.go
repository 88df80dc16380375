//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"ticktock/freq"
	"ticktock/timer"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// Clock tree as configured by the TinyGo runtime
var clocks = timer.StaticClocks{
	Core:     freq.MHz(125), // clk_sys, also the SysTick processor clock
	External: freq.MHz(1),   // 1us reference tick, drives TIMER and the SysTick external clock
}

// GetHardwareUptime reads the full 64-bit RP2040 hardware timer
func GetHardwareUptime() uint64 {
	// Must read high first, then low, then high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// TimerCounter presents the free running 64-bit TIMER as a 32-bit
// count-up Counter. The hardware timer is shared with the runtime and
// cannot be reset, so ClearCurrent captures a base and Current counts from
// it. Wraps are detected on the full 64-bit distance, so a wrap is never
// missed between two reads.
type TimerCounter struct {
	base    uint64
	reload  uint64
	frozen  uint32
	enabled bool
}

var _ timer.Counter[uint32] = (*TimerCounter)(nil)

func NewTimerCounter() *TimerCounter {
	return &TimerCounter{reload: 0xFFFF_FFFF}
}

func (c *TimerCounter) SetReload(v uint32) {
	c.reload = uint64(v)
}

func (c *TimerCounter) ClearCurrent() {
	c.base = GetHardwareUptime()
	c.frozen = 0
}

func (c *TimerCounter) Current() uint32 {
	if !c.enabled {
		return c.frozen
	}
	return uint32((GetHardwareUptime() - c.base) % (c.reload + 1))
}

func (c *TimerCounter) Enable() {
	if c.enabled {
		return
	}
	// Resume from the frozen count
	c.base = GetHardwareUptime() - uint64(c.frozen)
	c.enabled = true
}

func (c *TimerCounter) Disable() {
	if !c.enabled {
		return
	}
	c.frozen = c.Current()
	c.enabled = false
}

// SetClockSource is a no-op: TIMER always runs from the 1us reference tick.
func (c *TimerCounter) SetClockSource(timer.ClockSource) {}

// HasWrapped reports whether more than one counter period has passed since
// the base was captured. Unlike SysTick the condition persists until
// ClearCurrent.
func (c *TimerCounter) HasWrapped() bool {
	if !c.enabled {
		return false
	}
	return GetHardwareUptime()-c.base > c.reload
}
