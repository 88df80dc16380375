package freq

import (
	"math"
	"time"

	"lukechampine.com/uint128"
)

// Hz returns v hertz.
func Hz(v uint32) Frequency { return New(v, Hertz) }

// KHz returns v kilohertz.
func KHz(v uint32) Frequency { return New(v, KiloHertz) }

// MHz returns v megahertz.
func MHz(v uint32) Frequency { return New(v, MegaHertz) }

// MilliHz returns v millihertz.
func MilliHz(v uint32) Frequency { return New(v, MilliHertz) }

// Seconds returns v seconds as a time.Duration.
func Seconds(v uint32) time.Duration { return time.Duration(v) * time.Second }

// Millis returns v milliseconds as a time.Duration.
func Millis(v uint32) time.Duration { return time.Duration(v) * time.Millisecond }

// Micros returns v microseconds as a time.Duration.
func Micros(v uint32) time.Duration { return time.Duration(v) * time.Microsecond }

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TicksDuration returns ticks steps of length tick, saturating at the
// largest time.Duration. A non-positive tick yields zero.
func TicksDuration(ticks uint64, tick time.Duration) time.Duration {
	if tick <= 0 {
		return 0
	}
	d := uint128.From64(ticks).Mul64(uint64(tick))
	if d.Hi != 0 || d.Lo > math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(d.Lo)
}
