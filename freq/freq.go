// Package freq provides a fixed-point frequency type for configuring and
// reading hardware counters without floating point.
//
// A Frequency is a rational value numerator/denominator tagged with a
// Resolution. Every conversion goes through integer arithmetic and truncates
// toward zero, so the results are stable enough to drive prescaler selection.
package freq

import (
	"errors"
	"math"
	"strconv"
	"time"

	"lukechampine.com/uint128"
)

// Resolution is the magnitude tag of a Frequency. Its value is the weight
// used to normalize a frequency to millihertz.
type Resolution uint64

const (
	MegaHertz  Resolution = 1_000_000_000
	KiloHertz  Resolution = 1_000_000
	Hertz      Resolution = 1_000
	MilliHertz Resolution = 1
)

// picoScale is the common denominator used to keep sub-nanosecond precision
// while computing tick durations.
const picoScale = 1_000_000_000_000

var ErrPrescaleRange = errors.New("prescale divider out of range")

func (r Resolution) String() string {
	switch r {
	case MegaHertz:
		return "MHz"
	case KiloHertz:
		return "kHz"
	case Hertz:
		return "Hz"
	case MilliHertz:
		return "mHz"
	}
	return "Resolution(" + strconv.FormatUint(uint64(r), 10) + ")"
}

func (r Resolution) valid() bool {
	switch r {
	case MegaHertz, KiloHertz, Hertz, MilliHertz:
		return true
	}
	return false
}

// Frequency is an immutable rational frequency at a given resolution.
// The zero value is not usable; build one with New, Hz, KHz, MHz or MilliHz.
type Frequency struct {
	resolution  Resolution
	numerator   uint32
	denominator uint32
}

// New returns value at the given resolution with a denominator of 1.
func New(value uint32, res Resolution) Frequency {
	if !res.valid() {
		panic("freq: unknown resolution " + res.String())
	}
	return Frequency{
		resolution:  res,
		numerator:   value,
		denominator: 1,
	}
}

// Resolution returns the magnitude tag.
func (f Frequency) Resolution() Resolution { return f.resolution }

// Numerator returns the raw numerator at the frequency's resolution.
func (f Frequency) Numerator() uint32 { return f.numerator }

// Denominator returns the raw denominator. It is never zero for a Frequency
// built through this package.
func (f Frequency) Denominator() uint32 { return f.denominator }

// Tick returns the duration of one counter step at this frequency.
// It panics if the numerator is zero.
func (f Frequency) Tick() time.Duration {
	f.mustBeValid()
	if f.numerator == 0 {
		panic("freq: tick of a zero frequency")
	}
	// 1e12 * den / (num * weight), result in nanoseconds
	num := uint128.From64(picoScale).Mul64(uint64(f.denominator))
	den := uint64(f.numerator) * uint64(f.resolution)
	ns := num.Div64(den)
	if ns.Hi != 0 || ns.Lo > math.MaxInt64 {
		panic("freq: tick of " + f.String() + " overflows time.Duration")
	}
	return time.Duration(ns.Lo)
}

// TicksIn returns how many whole ticks fit in d. Partial ticks are dropped
// and negative durations count as zero.
func (f Frequency) TicksIn(d time.Duration) uint64 {
	f.mustBeValid()
	if d <= 0 {
		return 0
	}
	num := uint128.From64(uint64(d)).
		Mul64(uint64(f.resolution)).
		Mul64(uint64(f.numerator))
	den := uint128.From64(uint64(f.denominator)).Mul64(picoScale)
	ticks := num.Div(den)
	if ticks.Hi != 0 {
		return math.MaxUint64
	}
	return ticks.Lo
}

// Div divides the frequency by n, as a hardware prescaler would.
// It panics if n is zero or the denominator overflows.
func (f Frequency) Div(n uint32) Frequency {
	f.mustBeValid()
	if n == 0 {
		panic("freq: division by zero")
	}
	den := uint64(f.denominator) * uint64(n)
	if den > math.MaxUint32 {
		panic("freq: denominator overflow dividing " + f.String())
	}
	f.denominator = uint32(den)
	return f
}

// Mul multiplies the frequency by n, as a PLL multiplier would.
// It panics if n is zero or the numerator overflows.
func (f Frequency) Mul(n uint32) Frequency {
	f.mustBeValid()
	if n == 0 {
		panic("freq: multiplication by zero")
	}
	num := uint64(f.numerator) * uint64(n)
	if num > math.MaxUint32 {
		panic("freq: numerator overflow multiplying " + f.String())
	}
	f.numerator = uint32(num)
	return f
}

// Ratio returns the integer ratio f / other, truncated toward zero and
// saturated at math.MaxUint32. It is the divisor to program into a prescale
// register so that f is brought down to other.
// It panics if other has a zero numerator.
func (f Frequency) Ratio(other Frequency) uint32 {
	q := f.scaledRatio(other, 1)
	if q.Hi != 0 || q.Lo > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(q.Lo)
}

// Prescale returns the 16.8 fixed-point divider that brings f down to
// target, as used by RP2040 PIO and PWM clock dividers. whole is in
// 1..65535; ErrPrescaleRange is returned when the ratio is outside it.
func (f Frequency) Prescale(target Frequency) (whole uint16, frac uint8, err error) {
	q := f.scaledRatio(target, 256)
	if q.Hi != 0 || q.Lo>>8 > math.MaxUint16 || q.Lo>>8 == 0 {
		return 0, 0, ErrPrescaleRange
	}
	return uint16(q.Lo >> 8), uint8(q.Lo & 0xFF), nil
}

// scaledRatio computes scale * (w_a * num_a * den_b) / (w_b * den_a * num_b).
func (f Frequency) scaledRatio(other Frequency, scale uint64) uint128.Uint128 {
	f.mustBeValid()
	other.mustBeValid()
	if other.numerator == 0 {
		panic("freq: ratio against a zero frequency")
	}
	num := uint128.From64(uint64(f.resolution)).
		Mul64(uint64(f.numerator)).
		Mul64(uint64(other.denominator)).
		Mul64(scale)
	den := uint128.From64(uint64(other.resolution)).
		Mul64(uint64(f.denominator)).
		Mul64(uint64(other.numerator))
	return num.Div(den)
}

// Into re-tags f at res. The numerator is recomputed through the weight
// ratio and the denominator reset to 1, so the conversion truncates.
// Use it for display or for feeding a comparison, never in the middle of a
// precision sensitive computation. It panics if the result does not fit in
// 32 bits.
func (f Frequency) Into(res Resolution) Frequency {
	f.mustBeValid()
	if !res.valid() {
		panic("freq: unknown resolution " + res.String())
	}
	num := uint64(f.resolution) * uint64(f.numerator)
	den := uint64(res) * uint64(f.denominator)
	v := num / den
	if v > math.MaxUint32 {
		panic("freq: " + f.String() + " does not fit in " + res.String())
	}
	return Frequency{
		resolution:  res,
		numerator:   uint32(v),
		denominator: 1,
	}
}

func (f Frequency) IntoMega() Frequency  { return f.Into(MegaHertz) }
func (f Frequency) IntoKilo() Frequency  { return f.Into(KiloHertz) }
func (f Frequency) IntoHertz() Frequency { return f.Into(Hertz) }
func (f Frequency) IntoMilli() Frequency { return f.Into(MilliHertz) }

// hertz is the truncated value in Hz. Kept in 64 bits so that comparing
// frequencies above 4.29GHz does not overflow.
func (f Frequency) hertz() uint64 {
	f.mustBeValid()
	return (uint64(f.resolution) * uint64(f.numerator)) / (uint64(Hertz) * uint64(f.denominator))
}

// Compare returns -1, 0 or +1. Both sides are truncated to whole hertz
// first, so frequencies differing by less than 1Hz compare equal.
func (f Frequency) Compare(other Frequency) int {
	a, b := f.hertz(), other.hertz()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (f Frequency) Equal(other Frequency) bool { return f.Compare(other) == 0 }
func (f Frequency) Less(other Frequency) bool  { return f.Compare(other) < 0 }

func (f Frequency) String() string {
	s := strconv.FormatUint(uint64(f.numerator), 10)
	if f.denominator != 1 {
		s += "/" + strconv.FormatUint(uint64(f.denominator), 10) + " "
	}
	return s + f.resolution.String()
}

func (f Frequency) mustBeValid() {
	if f.denominator == 0 {
		panic("freq: zero denominator (use New, Hz, KHz, MHz or MilliHz)")
	}
}
