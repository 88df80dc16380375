package timer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ticktock/freq"
)

const sysTickMax = 0x00FF_FFFF

var oneMHz = StaticClocks{Core: freq.MHz(1), External: freq.MHz(1)}

func newSimTimer(dir Direction, max uint32) (*CounterTimer[uint32], *SimCounter[uint32]) {
	sim := NewSimCounter[uint32](dir)
	tm := New[uint32](sim, oneMHz, Config[uint32]{Direction: dir, Max: max})
	return tm, sim
}

func TestStartElapsedStopDrivesCounter(t *testing.T) {
	ctrl := gomock.NewController(t)
	counter := NewMockCounter[uint32](ctrl)
	clocks := StaticClocks{Core: freq.MHz(48), External: freq.MHz(1)}

	gomock.InOrder(
		counter.EXPECT().Disable(),
		counter.EXPECT().SetClockSource(ClockExternal),
		counter.EXPECT().Disable(),
		counter.EXPECT().SetReload(uint32(sysTickMax)),
		counter.EXPECT().ClearCurrent(),
		counter.EXPECT().Enable(),
		counter.EXPECT().HasWrapped().Return(false),
		counter.EXPECT().Current().Return(uint32(sysTickMax-1000)),
		counter.EXPECT().Disable(),
	)

	tm := New[uint32](counter, clocks, Config[uint32]{
		Source:    ClockExternal,
		Direction: CountDown,
		Max:       sysTickMax,
	})
	inst := tm.Start()
	assert.Equal(t, time.Millisecond, inst.Elapsed())
	assert.Same(t, tm, inst.Stop())
}

func TestElapsedCountDown(t *testing.T) {
	tm, sim := newSimTimer(CountDown, sysTickMax)

	inst := tm.Start()
	assert.Equal(t, time.Duration(0), inst.Elapsed())

	sim.Advance(5000)
	assert.Equal(t, uint32(sysTickMax-5000), tm.Current())
	assert.Equal(t, 5*time.Millisecond, inst.Elapsed())
}

func TestElapsedCountUp(t *testing.T) {
	tm, sim := newSimTimer(CountUp, 0xFFFF_FFFF)

	inst := tm.Start()
	require.Equal(t, uint32(0), tm.LimitValue())

	sim.Advance(1234)
	assert.Equal(t, 1234*time.Microsecond, inst.Elapsed())
}

func TestTicksInfersDirection(t *testing.T) {
	testCases := []struct {
		name          string
		limit, cur    uint32
		expectedTicks uint64
	}{
		{"count-down", 100, 40, 60},
		{"count-up from zero", 0, 40, 40},
		{"count-up from base", 1000, 1500, 500},
		{"just started", 77, 77, 0},
		{"full range", 0xFFFF_FFFF, 0, 0xFFFF_FFFF},
	}

	for _, tc := range testCases {
		if got := Ticks(tc.limit, tc.cur); got != tc.expectedTicks {
			t.Errorf("%s: expected %d ticks, got %d", tc.name, tc.expectedTicks, got)
		}
	}

	if got := Ticks(uint8(10), uint8(250)); got != 240 {
		t.Errorf("uint8 count-up: expected 240, got %d", got)
	}
}

func TestCheckedSub(t *testing.T) {
	d, ok := CheckedSub(uint16(5), uint16(3))
	assert.True(t, ok)
	assert.Equal(t, uint16(2), d)

	_, ok = CheckedSub(uint16(3), uint16(5))
	assert.False(t, ok)
}

func TestElapsedAfterWrapFails(t *testing.T) {
	tm, sim := newSimTimer(CountDown, 999)

	inst := tm.Start()
	sim.Advance(1500)

	require.PanicsWithError(t, ErrWrapped.Error(), func() { inst.Elapsed() })

	// The hardware flag cleared on read, the instant still remembers.
	_, err := inst.TryElapsed()
	assert.ErrorIs(t, err, ErrWrapped)
}

func TestOwnership(t *testing.T) {
	tm, sim := newSimTimer(CountDown, sysTickMax)

	inst := tm.Start()
	assert.Panics(t, func() { tm.Start() }, "second Start while held")
	assert.Panics(t, func() { Now[uint32](tm) }, "Now while held")

	sim.Advance(100)
	assert.Panics(t, func() { tm.Stop() }, "Stop on the timer while held")
	assert.True(t, sim.Enabled(), "refused Stop must leave the counter running")
	sim.Advance(900)
	assert.Equal(t, time.Millisecond, inst.Elapsed())

	released := inst.Stop()
	assert.False(t, sim.Enabled())
	assert.Panics(t, func() { inst.Elapsed() }, "Elapsed after Stop")
	assert.Panics(t, func() { inst.Stop() }, "Stop twice")

	again := released.Start()
	sim.Advance(10)
	assert.Equal(t, 10*time.Microsecond, again.Elapsed())
}

func TestNowWrapsRunningTimer(t *testing.T) {
	tm, sim := newSimTimer(CountDown, sysTickMax)

	// Wait starts the idle counter
	require.ErrorIs(t, tm.Wait(time.Second), ErrWouldBlock)
	require.True(t, tm.Running())

	sim.Advance(100)
	inst := Now[uint32](tm)
	assert.Equal(t, 100*time.Microsecond, inst.Elapsed())
}

func TestNowRejectsIdleTimer(t *testing.T) {
	tm, _ := newSimTimer(CountDown, sysTickMax)
	require.False(t, tm.Running())
	assert.Panics(t, func() { Now[uint32](tm) })

	// The refused call must not leave the timer held
	inst := tm.Start()
	inst.Stop()
}

func TestElapsedSaturates(t *testing.T) {
	sim := NewSimCounter[uint32](CountUp)
	slow := StaticClocks{Core: freq.MilliHz(1)}
	tm := New[uint32](sim, slow, Config[uint32]{Direction: CountUp, Max: 0xFFFF_FFFF})

	inst := tm.Start()
	sim.Advance(10_000_000)

	d, err := inst.TryElapsed()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(math.MaxInt64), d)
}

func TestWait(t *testing.T) {
	tm, sim := newSimTimer(CountDown, sysTickMax)
	d := 10 * time.Microsecond

	assert.ErrorIs(t, tm.Wait(d), ErrWouldBlock)
	sim.Advance(5)
	assert.ErrorIs(t, tm.Wait(d), ErrWouldBlock)
	sim.Advance(4)
	assert.ErrorIs(t, tm.Wait(d), ErrWouldBlock)
	sim.Advance(1)
	assert.NoError(t, tm.Wait(d))

	// Stays done
	sim.Advance(1000)
	assert.NoError(t, tm.Wait(d))
	assert.NoError(t, tm.Wait(d))

	// A new duration re-arms
	assert.ErrorIs(t, tm.Wait(2*d), ErrWouldBlock)
	tm.CancelWait()
	assert.ErrorIs(t, tm.Wait(2*d), ErrWouldBlock)
	sim.Advance(20)
	assert.NoError(t, tm.Wait(2*d))
}

func TestWaitZeroIsDone(t *testing.T) {
	tm, _ := newSimTimer(CountDown, sysTickMax)
	assert.NoError(t, tm.Wait(0))
}

func TestWaitAcrossReload(t *testing.T) {
	sim := NewSimCounter[uint8](CountUp)
	tm := New[uint8](sim, oneMHz, Config[uint8]{Direction: CountUp, Max: 99})
	d := 150 * time.Microsecond

	assert.ErrorIs(t, tm.Wait(d), ErrWouldBlock)
	sim.Advance(80)
	assert.ErrorIs(t, tm.Wait(d), ErrWouldBlock)
	sim.Advance(50) // reloads at 100
	assert.ErrorIs(t, tm.Wait(d), ErrWouldBlock)
	sim.Advance(20)
	assert.NoError(t, tm.Wait(d))
}

func TestDelay(t *testing.T) {
	tm, sim := newSimTimer(CountDown, 999)
	sim.Step = 7

	tm.Delay(time.Millisecond)
	assert.False(t, sim.Enabled(), "Delay should stop a counter it started")

	inst := tm.Start()
	tm.Delay(50 * time.Microsecond)
	assert.True(t, sim.Enabled(), "Delay should leave a running counter running")
	inst.Stop()
}

func TestDelayWithInterrupt(t *testing.T) {
	sim := NewSimCounter[uint32](CountDown)
	calls := 0
	tm := New[uint32](sim, oneMHz, Config[uint32]{Max: sysTickMax},
		WithInterruptWaiter[uint32](func() {
			calls++
			sim.Advance(100)
		}))

	tm.DelayWithInterrupt(time.Millisecond)
	assert.Equal(t, 10, calls)

	// Without a waiter it is a plain Delay
	plain, plainSim := newSimTimer(CountDown, sysTickMax)
	plainSim.Step = 100
	plain.DelayWithInterrupt(time.Millisecond)
	assert.False(t, plainSim.Enabled())

	// WaitForInterrupt returns at once off target
	wfi := NewSimCounter[uint32](CountDown)
	wfi.Step = 50
	parked := New[uint32](wfi, oneMHz, Config[uint32]{Max: sysTickMax},
		WithInterruptWaiter[uint32](WaitForInterrupt))
	parked.DelayWithInterrupt(time.Millisecond)
	assert.False(t, wfi.Enabled())
}

func TestNewPanicsWithoutCollaborators(t *testing.T) {
	assert.Panics(t, func() { New[uint32](nil, oneMHz, Config[uint32]{}) })
	assert.Panics(t, func() { New[uint32](NewSimCounter[uint32](CountUp), nil, Config[uint32]{}) })
}

func TestDebugOutput(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	SetDebugEnabled(true)
	defer func() {
		SetDebugEnabled(false)
		SetDebugWriter(nil)
	}()

	tm, sim := newSimTimer(CountDown, sysTickMax)
	inst := tm.Start()
	sim.Advance(sysTickMax + 1)
	_, _ = inst.TryElapsed()
	inst.Stop()

	require.Len(t, lines, 3)
	assert.Equal(t, "timer: start max=16777215 src=core", lines[0])
	assert.True(t, strings.Contains(lines[1], "wrap"))
	assert.Equal(t, "timer: stop", lines[2])
}

// busyDelayer only has Delay
type busyDelayer struct {
	total time.Duration
}

func (b *busyDelayer) Delay(d time.Duration) { b.total += d }

func TestDelayWithInterruptHelper(t *testing.T) {
	busy := &busyDelayer{}
	DelayWithInterrupt(busy, 3*time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, busy.total)

	sim := NewSimCounter[uint32](CountDown)
	calls := 0
	tm := New[uint32](sim, oneMHz, Config[uint32]{Max: sysTickMax},
		WithInterruptWaiter[uint32](func() {
			calls++
			sim.Advance(250)
		}))
	DelayWithInterrupt(tm, time.Millisecond)
	assert.Equal(t, 4, calls)
}
