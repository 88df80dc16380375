package timer

import (
	"time"

	"ticktock/freq"
)

// owner is implemented by timers that track which Instant holds them.
type owner interface {
	acquire()
	release()
}

// runner is implemented by timers that know whether their counter runs.
type runner interface {
	Running() bool
}

// Instant captures a running Timer and measures the time elapsed since its
// counter was reset.
type Instant[U Value] struct {
	timer   Timer[U]
	wrapped bool
	stopped bool
}

// Now wraps an already running timer without resetting its counter. The
// returned Instant owns t; Start implementations call it after resetting
// their counter. It panics if t reports that its counter is not running.
func Now[U Value](t Timer[U]) *Instant[U] {
	if r, ok := t.(runner); ok && !r.Running() {
		panic("timer: Now on a stopped timer")
	}
	if o, ok := t.(owner); ok {
		o.acquire()
	}
	return &Instant[U]{timer: t}
}

// Elapsed returns the time elapsed since the counter was reset.
// It panics with ErrWrapped once the counter has wrapped: the measurement
// window exceeded the counter range. Use TryElapsed to get the error instead.
func (i *Instant[U]) Elapsed() time.Duration {
	d, err := i.TryElapsed()
	if err != nil {
		panic(err)
	}
	return d
}

// TryElapsed is Elapsed returning ErrWrapped instead of panicking.
func (i *Instant[U]) TryElapsed() (time.Duration, error) {
	ticks, err := i.ElapsedTicks()
	if err != nil {
		return 0, err
	}
	return freq.TicksDuration(ticks, i.timer.Tick()), nil
}

// ElapsedTicks returns the counter steps since the reset, or ErrWrapped.
// Once a wrap has been seen the Instant keeps reporting it, even if the
// hardware flag clears on read.
func (i *Instant[U]) ElapsedTicks() (uint64, error) {
	i.mustBeRunning()
	if i.wrapped || i.timer.HasWrapped() {
		if !i.wrapped {
			debugf("timer: wrap detected")
		}
		i.wrapped = true
		return 0, ErrWrapped
	}
	return Ticks(i.timer.LimitValue(), i.timer.Current()), nil
}

// Tick returns the duration of one step of the held timer.
func (i *Instant[U]) Tick() time.Duration {
	return i.timer.Tick()
}

// Ticks returns the number of counter steps between limit and current. A
// count-down counter sits below its limit, a count-up counter above it, so
// whichever subtraction does not underflow is the elapsed count.
func Ticks[U Value](limit, current U) uint64 {
	if d, ok := CheckedSub(limit, current); ok {
		return uint64(d)
	}
	return uint64(current - limit)
}

// Stop disables the counter and hands the Timer back.
func (i *Instant[U]) Stop() Timer[U] {
	i.mustBeRunning()
	i.stopped = true
	if o, ok := i.timer.(owner); ok {
		o.release()
	}
	return i.timer.Stop()
}

func (i *Instant[U]) mustBeRunning() {
	if i.stopped {
		panic("timer: instant used after Stop")
	}
}
