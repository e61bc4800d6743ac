package sim

import (
	"sync"

	"smartlock/core"
)

// KeyMatrix wires a simulated key grid onto GPIO column inputs.
// A pressed key connects its row to its column: the column reads active
// only while the key's row is driven active.
type KeyMatrix struct {
	gpio       *GPIO
	rows       []core.GPIOPin
	activeHigh bool

	mu      sync.Mutex
	pressed bool
	row     int
	col     int
}

// NewKeyMatrix attaches a key grid to the given row and column pins
func NewKeyMatrix(gpio *GPIO, rows, cols []core.GPIOPin, activeHigh bool) *KeyMatrix {
	m := &KeyMatrix{gpio: gpio, rows: rows, activeHigh: activeHigh}
	for c, pin := range cols {
		col := c
		gpio.SetInputFunc(pin, func() bool { return m.sense(col) })
	}
	return m
}

// Press holds down the key at (row, col), releasing any other key
func (m *KeyMatrix) Press(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed, m.row, m.col = true, row, col
}

// Release lets go of the held key
func (m *KeyMatrix) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = false
}

func (m *KeyMatrix) sense(col int) bool {
	m.mu.Lock()
	pressed, row, pcol := m.pressed, m.row, m.col
	m.mu.Unlock()

	if pressed && pcol == col && row < len(m.rows) {
		if m.gpio.Level(m.rows[row]) == m.activeHigh {
			return m.activeHigh
		}
	}
	return !m.activeHigh
}
