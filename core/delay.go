package core

// Delayer is the blocking delay primitive.
// Wait busy-blocks for the given number of timer ticks; it is not a yield.
type Delayer interface {
	Wait(ticks uint32)
}

// DelayFunc adapts a plain function to the Delayer interface
type DelayFunc func(ticks uint32)

// Wait calls f(ticks)
func (f DelayFunc) Wait(ticks uint32) {
	f(ticks)
}

// Global singleton used by target wiring.
var delayer Delayer

// SetDelayer is called by target-specific code to register its delay primitive.
func SetDelayer(d Delayer) {
	delayer = d
}

// MustDelay returns the configured delay primitive or panics if missing.
func MustDelay() Delayer {
	if delayer == nil {
		panic("delay primitive not configured")
	}
	return delayer
}
