//go:build tinygo && cortexm

package timer

import "device/arm"

// WaitForInterrupt parks the core until the next interrupt.
func WaitForInterrupt() {
	arm.Asm("wfi")
}
