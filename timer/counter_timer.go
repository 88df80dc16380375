package timer

import (
	"strconv"
	"time"

	"ticktock/freq"
)

var _ Timer[uint32] = (*CounterTimer[uint32])(nil)

// Config describes how a CounterTimer drives its counter.
type Config[U Value] struct {
	Source    ClockSource
	Direction Direction
	// Max is the reload value: where a count-down counter restarts and
	// where a count-up counter wraps.
	Max U
}

// Option configures a CounterTimer.
type Option[U Value] func(*CounterTimer[U])

// WithInterruptWaiter makes DelayWithInterrupt call wait between counter
// samples. wait should park the core until the next interrupt (wfi).
func WithInterruptWaiter[U Value](wait func()) Option[U] {
	return func(t *CounterTimer[U]) {
		t.idle = wait
	}
}

// CounterTimer implements Timer on top of any Counter.
//
// Delay and Wait accumulate ticks between samples and handle one reload
// between two samples; the counter must be sampled at least once per
// counter period for them to be accurate.
type CounterTimer[U Value] struct {
	counter Counter[U]
	clocks  Clocks
	cfg     Config[U]
	idle    func()

	enabled bool
	owned   bool

	// Wait state
	waitArmed   bool
	waitFor     time.Duration
	waitTarget  uint64
	waitElapsed uint64
	waitLast    U
}

// New selects the configured clock source on counter and returns an idle
// timer. The counter is left disabled.
func New[U Value](counter Counter[U], clocks Clocks, cfg Config[U], opts ...Option[U]) *CounterTimer[U] {
	if counter == nil {
		panic("timer: counter not configured")
	}
	if clocks == nil {
		panic("timer: clocks not configured")
	}
	t := &CounterTimer[U]{
		counter: counter,
		clocks:  clocks,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(t)
	}
	counter.Disable()
	counter.SetClockSource(cfg.Source)
	return t
}

// Frequency returns the tick frequency of the selected clock source.
func (t *CounterTimer[U]) Frequency() freq.Frequency {
	return t.clocks.CounterFrequency(t.cfg.Source)
}

// Tick returns the duration of one counter step.
func (t *CounterTimer[U]) Tick() time.Duration {
	return t.Frequency().Tick()
}

// Start resets the counter to its start value and enables it.
// It panics if an Instant already holds this timer.
func (t *CounterTimer[U]) Start() *Instant[U] {
	if t.owned {
		panic("timer: Start on a timer held by an Instant")
	}
	t.reset()
	debugf("timer: start max=", strconv.FormatUint(uint64(t.cfg.Max), 10),
		" src=", t.cfg.Source.String())
	return Now[U](t)
}

// Stop disables the counter. It panics while an Instant holds the timer;
// stop through Instant.Stop instead.
func (t *CounterTimer[U]) Stop() Timer[U] {
	if t.owned {
		panic("timer: Stop on a timer held by an Instant")
	}
	t.counter.Disable()
	t.enabled = false
	t.waitArmed = false
	debugf("timer: stop")
	return t
}

func (t *CounterTimer[U]) acquire() {
	if t.owned {
		panic("timer: timer already held by an Instant")
	}
	t.owned = true
}

func (t *CounterTimer[U]) release() {
	t.owned = false
}

// Running reports whether the counter is enabled.
func (t *CounterTimer[U]) Running() bool {
	return t.enabled
}

func (t *CounterTimer[U]) HasWrapped() bool {
	return t.counter.HasWrapped()
}

// LimitValue is Max for a count-down counter and zero for a count-up one.
func (t *CounterTimer[U]) LimitValue() U {
	if t.cfg.Direction == CountUp {
		return 0
	}
	return t.cfg.Max
}

func (t *CounterTimer[U]) Current() U {
	return t.counter.Current()
}

// Delay busy-waits until at least d has elapsed.
func (t *CounterTimer[U]) Delay(d time.Duration) {
	t.delay(d, nil)
}

// DelayWithInterrupt waits like Delay, parking the core between samples
// when an interrupt waiter was configured. Without one it is Delay.
func (t *CounterTimer[U]) DelayWithInterrupt(d time.Duration) {
	t.delay(d, t.idle)
}

func (t *CounterTimer[U]) delay(d time.Duration, idle func()) {
	target := t.Frequency().TicksIn(d)
	if target == 0 {
		return
	}

	started := false
	if !t.enabled {
		t.reset()
		started = true
	}

	var elapsed uint64
	last := t.counter.Current()
	for elapsed < target {
		if idle != nil {
			idle()
		}
		cur := t.counter.Current()
		elapsed += t.advance(last, cur)
		last = cur
	}

	if started {
		t.counter.Disable()
		t.enabled = false
	}
}

// Wait polls once for d to elapse. The first call, or a call with a
// different d, arms the wait and starts the counter if it is idle.
func (t *CounterTimer[U]) Wait(d time.Duration) error {
	if !t.waitArmed || d != t.waitFor {
		if !t.enabled {
			t.reset()
		}
		t.waitArmed = true
		t.waitFor = d
		t.waitTarget = t.Frequency().TicksIn(d)
		t.waitElapsed = 0
		t.waitLast = t.counter.Current()
	}

	if t.waitElapsed < t.waitTarget {
		cur := t.counter.Current()
		t.waitElapsed += t.advance(t.waitLast, cur)
		t.waitLast = cur
	}
	if t.waitElapsed < t.waitTarget {
		return ErrWouldBlock
	}
	return nil
}

// CancelWait disarms a pending Wait so the next call starts over.
func (t *CounterTimer[U]) CancelWait() {
	t.waitArmed = false
}

func (t *CounterTimer[U]) reset() {
	t.counter.Disable()
	t.counter.SetReload(t.cfg.Max)
	t.counter.ClearCurrent()
	t.counter.Enable()
	t.enabled = true
}

// advance returns the ticks counted from last to cur, allowing for one
// reload in between.
func (t *CounterTimer[U]) advance(last, cur U) uint64 {
	period := uint64(t.cfg.Max) + 1
	if t.cfg.Direction == CountUp {
		if cur >= last {
			return uint64(cur - last)
		}
		return period - uint64(last-cur)
	}
	if cur <= last {
		return uint64(last - cur)
	}
	return period - uint64(cur-last)
}
