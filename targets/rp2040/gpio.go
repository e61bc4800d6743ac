//go:build rp2040

package main

import (
	"machine"

	"smartlock/core"
)

// RP2040 exposes GPIO0-GPIO29 as bank A
const numPins = 30

// RPGPIODriver implements core.GPIODriver for the RP2040
type RPGPIODriver struct {
	// Mode used for inputs: pull-down for active-high keypads, pull-up otherwise
	inputMode machine.PinMode

	configured [numPins]bool
	dirs       [numPins]core.Direction
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver(activeHighInputs bool) *RPGPIODriver {
	mode := machine.PinInputPullup
	if activeHighInputs {
		mode = machine.PinInputPulldown
	}
	return &RPGPIODriver{inputMode: mode}
}

// Configure sets the pin direction
func (d *RPGPIODriver) Configure(pin core.GPIOPin, dir core.Direction) error {
	if !validPin(pin) {
		return core.ErrInvalidPin
	}

	mode := machine.PinOutput
	if dir == core.DirInput {
		mode = d.inputMode
	}
	machine.Pin(pin.Num).Configure(machine.PinConfig{Mode: mode})

	d.configured[pin.Num] = true
	d.dirs[pin.Num] = dir
	return nil
}

// SetPin drives an output high
func (d *RPGPIODriver) SetPin(pin core.GPIOPin) error {
	return d.write(pin, func(machine.Pin) bool { return true })
}

// ClearPin drives an output low
func (d *RPGPIODriver) ClearPin(pin core.GPIOPin) error {
	return d.write(pin, func(machine.Pin) bool { return false })
}

// TogglePin inverts an output
func (d *RPGPIODriver) TogglePin(pin core.GPIOPin) error {
	return d.write(pin, func(p machine.Pin) bool { return !p.Get() })
}

// ReadPin samples an input
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) (bool, error) {
	if err := d.check(pin, core.DirInput); err != nil {
		return false, err
	}
	return machine.Pin(pin.Num).Get(), nil
}

func (d *RPGPIODriver) write(pin core.GPIOPin, level func(machine.Pin) bool) error {
	if err := d.check(pin, core.DirOutput); err != nil {
		return err
	}
	p := machine.Pin(pin.Num)
	p.Set(level(p))
	return nil
}

func (d *RPGPIODriver) check(pin core.GPIOPin, dir core.Direction) error {
	if !validPin(pin) {
		return core.ErrInvalidPin
	}
	if !d.configured[pin.Num] {
		return core.ErrPinNotConfigured
	}
	if d.dirs[pin.Num] != dir {
		return core.ErrPinDirection
	}
	return nil
}

func validPin(pin core.GPIOPin) bool {
	return pin.Bank == core.BankA && pin.Num < numPins
}
