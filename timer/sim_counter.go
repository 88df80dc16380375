package timer

// SimCounter is a software Counter for host builds and tests. Time only
// moves when Advance is called, or by Step ticks on every Current read
// while enabled, which lets busy loops make progress.
type SimCounter[U Value] struct {
	Direction Direction
	// Step is added to the counter on each Current read while enabled.
	Step uint64

	reload  U
	value   U
	enabled bool
	source  ClockSource
	wrapped bool
}

var _ Counter[uint32] = (*SimCounter[uint32])(nil)

// NewSimCounter returns a disabled counter counting in dir.
func NewSimCounter[U Value](dir Direction) *SimCounter[U] {
	return &SimCounter[U]{Direction: dir}
}

func (c *SimCounter[U]) SetReload(v U) { c.reload = v }

// ClearCurrent puts the counter back at its start value and clears the
// wrap flag.
func (c *SimCounter[U]) ClearCurrent() {
	if c.Direction == CountDown {
		c.value = c.reload
	} else {
		c.value = 0
	}
	c.wrapped = false
}

func (c *SimCounter[U]) Current() U {
	if c.enabled && c.Step > 0 {
		c.Advance(c.Step)
	}
	return c.value
}

func (c *SimCounter[U]) Enable()  { c.enabled = true }
func (c *SimCounter[U]) Disable() { c.enabled = false }

func (c *SimCounter[U]) Enabled() bool { return c.enabled }

func (c *SimCounter[U]) SetClockSource(src ClockSource) { c.source = src }

func (c *SimCounter[U]) ClockSource() ClockSource { return c.source }

// HasWrapped reports and clears the wrap flag, like the SysTick COUNTFLAG.
func (c *SimCounter[U]) HasWrapped() bool {
	w := c.wrapped
	c.wrapped = false
	return w
}

// Set forces the current value without touching the wrap flag.
func (c *SimCounter[U]) Set(v U) { c.value = v }

// Advance moves the counter n ticks when enabled, reloading and raising the
// wrap flag as the hardware would.
func (c *SimCounter[U]) Advance(n uint64) {
	if !c.enabled || n == 0 {
		return
	}
	reload := uint64(c.reload)
	v := uint64(c.value)
	period := reload + 1 // zero when the counter spans all of uint64

	if c.Direction == CountDown {
		if n <= v {
			c.value = U(v - n)
			return
		}
		n -= v + 1
		if period != 0 {
			n %= period
		}
		c.wrapped = true
		c.value = U(reload - n)
		return
	}

	if n <= reload-v {
		c.value = U(v + n)
		return
	}
	n -= reload - v + 1
	if period != 0 {
		n %= period
	}
	c.wrapped = true
	c.value = U(n)
}
