package credential

import (
	"errors"

	"smartlock/core"
)

// ErrKeypadLayout is returned when the key table does not match the row/column pins
var ErrKeypadLayout = errors.New("key table does not match keypad rows/columns")

// Keypad scans a row-driven, column-sensed key matrix
type Keypad struct {
	gpio       core.GPIODriver
	rows       []core.GPIOPin // Driven one at a time
	cols       []core.GPIOPin // Sensed
	keys       [][]Symbol     // keys[row][col]
	activeHigh bool           // Driven row level and sensed column level for a pressed key
}

// NewKeypad creates a keypad scanner. keys must have one entry per row,
// each with one symbol per column.
func NewKeypad(gpio core.GPIODriver, rows, cols []core.GPIOPin, keys [][]Symbol, activeHigh bool) (*Keypad, error) {
	if len(rows) == 0 || len(cols) == 0 || len(keys) != len(rows) {
		return nil, ErrKeypadLayout
	}
	for _, row := range keys {
		if len(row) != len(cols) {
			return nil, ErrKeypadLayout
		}
	}

	return &Keypad{
		gpio:       gpio,
		rows:       rows,
		cols:       cols,
		keys:       keys,
		activeHigh: activeHigh,
	}, nil
}

// Init configures row pins as inactive outputs and column pins as inputs
func (k *Keypad) Init() error {
	for _, pin := range k.rows {
		if err := k.gpio.Configure(pin, core.DirOutput); err != nil {
			return err
		}
		if err := core.WritePin(k.gpio, pin, !k.activeHigh); err != nil {
			return err
		}
	}
	for _, pin := range k.cols {
		if err := k.gpio.Configure(pin, core.DirInput); err != nil {
			return err
		}
	}
	return nil
}

// Scan sweeps every row once and returns the first active (row, column).
// ok is false if no key is pressed. The driven row is released before returning.
func (k *Keypad) Scan() (row, col int, ok bool) {
	for r, rowPin := range k.rows {
		k.driveRow(rowPin, true)
		for c, colPin := range k.cols {
			level, err := k.gpio.ReadPin(colPin)
			if err != nil {
				// Treat an unreadable column as idle
				continue
			}
			if level == k.activeHigh {
				k.driveRow(rowPin, false)
				return r, c, true
			}
		}
		k.driveRow(rowPin, false)
	}
	return 0, 0, false
}

// GetKey returns the symbol for the pressed key, ok=false if none is pressed
func (k *Keypad) GetKey() (Symbol, bool) {
	row, col, ok := k.Scan()
	if !ok {
		return 0, false
	}
	return k.keys[row][col], true
}

// driveRow sets a row pin to its active or inactive level
func (k *Keypad) driveRow(pin core.GPIOPin, active bool) {
	level := active == k.activeHigh
	if err := core.WritePin(k.gpio, pin, level); err != nil {
		core.DebugPrintln("keypad: row " + pin.String() + " write failed: " + err.Error())
	}
}
