//go:build rp2040

package main

import (
	"machine"
	"time"

	"ticktock/freq"
	"ticktock/sampler"
	"ticktock/targets/cortexm"
	"ticktock/timer"
)

const (
	reportInterval = 100 * time.Millisecond

	// Re-send the clock every few reports so a host attaching mid-stream
	// can convert ticks
	announceEvery = 16

	clockOutPin = machine.GPIO2
)

var clockOutFreq = freq.KHz(1)

var (
	// Debug counters
	reportsSent   uint32
	writeFailures uint32
	wraps         uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	if err := InitUSB(); err != nil {
		return
	}

	// Elapsed time is measured on TIMER: 32 bits at 1MHz, about 71 minutes
	// before a wrap.
	measure := timer.New[uint32](NewTimerCounter(), clocks, timer.Config[uint32]{
		Source:    timer.ClockExternal,
		Direction: timer.CountUp,
		Max:       0xFFFF_FFFF,
	})

	// Reports are paced by SysTick at the core clock. The main loop samples
	// it far more often than its 134ms period.
	pace := timer.New[uint32](cortexm.NewSysTick(), clocks, timer.Config[uint32]{
		Source:    timer.ClockCore,
		Direction: timer.CountDown,
		Max:       cortexm.MaxReload,
	})

	// Let USB enumerate before the first frame. Busy wait: nothing
	// guarantees an interrupt within a SysTick period before the host
	// attaches.
	pace.Delay(500 * time.Millisecond)

	// The reference output is optional
	if clockOut, err := NewClockOut(clockOutPin); err == nil {
		_ = clockOut.Start(clocks.Core, clockOutFreq)
	}

	s := sampler.New[uint32](measure, measure.Frequency())
	s.Start()

	announce := func() {
		frame, err := s.Announce()
		if err == nil {
			writeFrame(frame)
		}
	}
	announce()

	for {
		func() {
			// Recover from panics in the main loop to prevent a firmware crash
			defer func() {
				if r := recover(); r != nil {
					writeFailures++
				}
			}()

			drainUSB()

			if pace.Wait(reportInterval) != nil {
				return
			}
			pace.CancelWait()

			r, frame, err := s.Sample()
			if err != nil {
				return
			}
			writeFrame(frame)
			reportsSent++

			if r.Wrapped {
				wraps++
				s.Restart()
			}
			if reportsSent%announceEvery == 0 {
				announce()
			}
		}()

		// Yield to other goroutines
		time.Sleep(10 * time.Microsecond)
	}
}

func writeFrame(frame []byte) {
	if !USBWriteBytes(frame) {
		writeFailures++
	}
}
