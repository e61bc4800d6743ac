// Package sim provides in-memory implementations of the hardware
// capabilities, for tests and the lockctl simulator.
package sim

import (
	"sync"

	"smartlock/core"
)

// PinEvent records an output level change
type PinEvent struct {
	Pin   core.GPIOPin
	Level bool
	Clock uint32
}

type pinState struct {
	dir   core.Direction
	level bool
	input func() bool // Computed input level, overrides level when set
}

// GPIO is a simulated digital I/O bank
type GPIO struct {
	mu      sync.Mutex
	pins    map[core.GPIOPin]*pinState
	history []PinEvent
}

// NewGPIO creates an empty simulated GPIO
func NewGPIO() *GPIO {
	return &GPIO{pins: make(map[core.GPIOPin]*pinState)}
}

// Configure sets the pin direction; outputs start low
func (g *GPIO) Configure(pin core.GPIOPin, dir core.Direction) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.pins[pin]
	if !ok {
		st = &pinState{}
		g.pins[pin] = st
	}
	st.dir = dir
	return nil
}

// SetPin drives an output high
func (g *GPIO) SetPin(pin core.GPIOPin) error {
	return g.write(pin, func(bool) bool { return true })
}

// ClearPin drives an output low
func (g *GPIO) ClearPin(pin core.GPIOPin) error {
	return g.write(pin, func(bool) bool { return false })
}

// TogglePin inverts an output
func (g *GPIO) TogglePin(pin core.GPIOPin) error {
	return g.write(pin, func(old bool) bool { return !old })
}

// ReadPin samples an input
func (g *GPIO) ReadPin(pin core.GPIOPin) (bool, error) {
	g.mu.Lock()
	st, ok := g.pins[pin]
	if !ok {
		g.mu.Unlock()
		return false, core.ErrPinNotConfigured
	}
	if st.dir != core.DirInput {
		g.mu.Unlock()
		return false, core.ErrPinDirection
	}
	input, level := st.input, st.level
	g.mu.Unlock()

	if input != nil {
		return input(), nil
	}
	return level, nil
}

func (g *GPIO) write(pin core.GPIOPin, next func(bool) bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.pins[pin]
	if !ok {
		return core.ErrPinNotConfigured
	}
	if st.dir != core.DirOutput {
		return core.ErrPinDirection
	}

	level := next(st.level)
	if level != st.level {
		g.history = append(g.history, PinEvent{Pin: pin, Level: level, Clock: core.GetTime()})
	}
	st.level = level
	return nil
}

// SetInput sets the level an input pin reads
func (g *GPIO) SetInput(pin core.GPIOPin, level bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st, ok := g.pins[pin]; ok {
		st.level = level
	}
}

// SetInputFunc makes an input pin read a computed level
func (g *GPIO) SetInputFunc(pin core.GPIOPin, f func() bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.pins[pin]
	if !ok {
		st = &pinState{dir: core.DirInput}
		g.pins[pin] = st
	}
	st.input = f
}

// Level returns the current level of any pin
func (g *GPIO) Level(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if st, ok := g.pins[pin]; ok {
		return st.level
	}
	return false
}

// Direction returns the configured direction and whether the pin is configured
func (g *GPIO) Direction(pin core.GPIOPin) (core.Direction, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.pins[pin]
	if !ok {
		return 0, false
	}
	return st.dir, true
}

// History returns the output level changes for one pin
func (g *GPIO) History(pin core.GPIOPin) []PinEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []PinEvent
	for _, e := range g.history {
		if e.Pin == pin {
			out = append(out, e)
		}
	}
	return out
}

// ClearHistory drops recorded level changes
func (g *GPIO) ClearHistory() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.history = nil
}
