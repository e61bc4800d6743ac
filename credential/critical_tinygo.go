//go:build tinygo

package credential

import "runtime/interrupt"

// enterCritical disables interrupts and returns the previous state
func enterCritical() interrupt.State {
	return interrupt.Disable()
}

// exitCritical restores the interrupt state
func exitCritical(state interrupt.State) {
	interrupt.Restore(state)
}
