//go:build tinygo && cortexm

// Package cortexm drives the Cortex-M SysTick timer as a timer.Counter.
package cortexm

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"ticktock/timer"
)

// SysTick memory map (ARMv6-M / ARMv7-M System Control Space)
const (
	systBase = 0xE000E010
	systCSR  = systBase + 0x00 // Control and status
	systRVR  = systBase + 0x04 // Reload value
	systCVR  = systBase + 0x08 // Current value
)

// CSR bits
const (
	csrEnable    = 1 << 0
	csrTickInt   = 1 << 1
	csrClkSource = 1 << 2 // 1 = processor clock, 0 = external reference
	csrCountFlag = 1 << 16
)


var (
	systCSRReg = (*volatile.Register32)(unsafe.Pointer(uintptr(systCSR)))
	systRVRReg = (*volatile.Register32)(unsafe.Pointer(uintptr(systRVR)))
	systCVRReg = (*volatile.Register32)(unsafe.Pointer(uintptr(systCVR)))
)

// SysTick is the 24-bit count-down system timer. Use it with
// timer.CountDown and a Max of at most MaxReload.
//
// COUNTFLAG clears whenever CSR is read, so every CSR access goes through
// csr and the flag is kept here until HasWrapped consumes it.
type SysTick struct {
	wrapped  bool
	settling bool
}

var _ timer.Counter[uint32] = (*SysTick)(nil)

// NewSysTick returns the SysTick counter with its interrupt disabled. The
// counter is a core singleton; create it once.
func NewSysTick() *SysTick {
	s := &SysTick{}
	s.modify(0, csrTickInt|csrEnable)
	return s
}

func (s *SysTick) csr() uint32 {
	v := systCSRReg.Get()
	if v&csrCountFlag != 0 {
		s.wrapped = true
	}
	return v
}

func (s *SysTick) write(v uint32) {
	systCSRReg.Set(v &^ csrCountFlag)
}

func (s *SysTick) SetReload(v uint32) {
	systRVRReg.Set(v & MaxReload)
}

// ClearCurrent zeroes CVR, which also clears COUNTFLAG. The counter
// loads the reload value on its next clock; Current reads as the reload
// value until then.
func (s *SysTick) ClearCurrent() {
	systCVRReg.Set(0)
	s.wrapped = false
	s.settling = true
}

func (s *SysTick) Current() uint32 {
	v := systCVRReg.Get() & MaxReload
	if !s.settling {
		return v
	}
	if v == 0 {
		// latch COUNTFLAG to tell a fresh clear from a full period
		s.csr()
	}
	v, s.settling = settledCurrent(v, systRVRReg.Get()&MaxReload, s.settling, s.wrapped)
	return v
}

func (s *SysTick) Enable() {
	s.modify(csrEnable, 0)
}

func (s *SysTick) Disable() {
	s.modify(0, csrEnable)
}

func (s *SysTick) SetClockSource(src timer.ClockSource) {
	if src == timer.ClockCore {
		s.modify(csrClkSource, 0)
	} else {
		s.modify(0, csrClkSource)
	}
}

// modify updates CSR with interrupts off so a handler cannot consume
// COUNTFLAG between the read and the write.
func (s *SysTick) modify(set, clear uint32) {
	state := interrupt.Disable()
	s.write(s.csr()&^clear | set)
	interrupt.Restore(state)
}

// HasWrapped reports whether the counter reached zero since the last call.
func (s *SysTick) HasWrapped() bool {
	s.csr()
	w := s.wrapped
	s.wrapped = false
	return w
}
