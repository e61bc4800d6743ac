//go:build !tinygo

package credential

// irqState is a placeholder for interrupt state on regular Go
type irqState uintptr

// enterCritical is a no-op on regular Go; slot atomics carry the ordering
func enterCritical() irqState {
	return 0
}

// exitCritical is a no-op on regular Go
func exitCritical(state irqState) {
}
