// Package timer measures elapsed time on a single hardware counter.
//
// A Counter is the raw peripheral (SysTick, RP2040 TIMER, a simulated counter
// on the host). A Timer drives one Counter; starting it hands the Timer over
// to an Instant, which owns it until Stop gives it back. Elapsed works for
// count-down and count-up counters alike: the direction is inferred from
// which subtraction of the limit and the current value does not underflow.
package timer

import (
	"errors"
	"time"

	"ticktock/freq"
)

var (
	// ErrWrapped reports that the counter completed a full cycle while an
	// Instant was measuring, so no elapsed duration can be trusted.
	ErrWrapped = errors.New("counter wrapped, elapsed time is unknown")

	// ErrWouldBlock is returned by Wait until the requested duration has
	// elapsed. It is not a failure; poll again.
	ErrWouldBlock = errors.New("would block")
)

// Value is the set of counter register types.
type Value interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CheckedSub returns a-b and true, or 0 and false if the subtraction would
// underflow.
func CheckedSub[U Value](a, b U) (U, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// ClockSource selects the clock feeding a counter.
type ClockSource uint8

const (
	// ClockCore is the processor clock.
	ClockCore ClockSource = iota
	// ClockExternal is the vendor specific reference clock.
	ClockExternal
)

func (s ClockSource) String() string {
	switch s {
	case ClockCore:
		return "core"
	case ClockExternal:
		return "external"
	}
	return "unknown"
}

// Direction tells a CounterTimer where to reset its counter on Start.
type Direction uint8

const (
	// CountDown counters start at the reload value and decrement to zero.
	CountDown Direction = iota
	// CountUp counters start at zero and increment to the reload value.
	CountUp
)

// Counter is the hardware capability a Timer is built on.
type Counter[U Value] interface {
	// SetReload sets the value the counter restarts from (count-down) or
	// wraps at (count-up).
	SetReload(v U)
	// ClearCurrent resets the current value and the wrap flag.
	ClearCurrent()
	Current() U
	Enable()
	Disable()
	SetClockSource(src ClockSource)
	// HasWrapped reports whether a full cycle completed since the last
	// reset or check. Reading it may clear the flag.
	HasWrapped() bool
}

// Clocks resolves the frequency a counter ticks at for a clock source.
// The clock tree is vendor specific and lives outside this package.
type Clocks interface {
	CounterFrequency(src ClockSource) freq.Frequency
}

// StaticClocks is a Clocks for targets whose counter clocks are fixed at
// build time.
type StaticClocks struct {
	Core     freq.Frequency
	External freq.Frequency
}

func (c StaticClocks) CounterFrequency(src ClockSource) freq.Frequency {
	if src == ClockExternal {
		return c.External
	}
	return c.Core
}

// Timer is the contract every counter driver implements.
type Timer[U Value] interface {
	// Delay blocks until at least d has elapsed by busy sampling the counter.
	Delay(d time.Duration)

	// DelayWithInterrupt has the same contract as Delay. Implementations
	// may sleep between samples; the fallback is a plain busy wait, so
	// callers must not assume it saves power.
	DelayWithInterrupt(d time.Duration)

	// Wait polls once. It returns ErrWouldBlock until d has elapsed since
	// the call that armed the wait, then nil on every later poll.
	Wait(d time.Duration) error

	// Start resets and enables the counter. The Timer now belongs to the
	// returned Instant until Instant.Stop.
	Start() *Instant[U]

	// Stop disables the counter.
	Stop() Timer[U]

	HasWrapped() bool

	// LimitValue is the reset bound: the reload value for a count-down
	// counter, zero (or the captured base) for a count-up counter.
	LimitValue() U

	Current() U

	// Tick is the duration of one counter step.
	Tick() time.Duration
}

// Delayer is the busy-wait half of Timer, for code that only needs to
// block.
type Delayer interface {
	Delay(d time.Duration)
}

// InterruptDelayer is implemented by delayers that can park the core
// between samples.
type InterruptDelayer interface {
	DelayWithInterrupt(d time.Duration)
}

// DelayWithInterrupt delays through d's InterruptDelayer when it has one and
// busy waits otherwise.
func DelayWithInterrupt(d Delayer, dur time.Duration) {
	if id, ok := d.(InterruptDelayer); ok {
		id.DelayWithInterrupt(dur)
		return
	}
	d.Delay(dur)
}
