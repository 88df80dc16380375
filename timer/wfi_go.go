//go:build !(tinygo && cortexm)

package timer

// WaitForInterrupt is a no-op off Cortex-M; callers keep spinning.
func WaitForInterrupt() {}
