package core

import "errors"

// GPIOBank identifies a port bank (A, B, C, ...)
type GPIOBank uint8

const (
	BankA GPIOBank = iota
	BankB
	BankC
	BankD
	BankE
)

// MaxBanks is the number of banks a pin name may reference
const MaxBanks = 5

// MaxPinsPerBank bounds the pin number within a bank
const MaxPinsPerBank = 32

// GPIOPin identifies a hardware GPIO pin by (bank, pin) address
type GPIOPin struct {
	Bank GPIOBank
	Num  uint8
}

// Direction is the configured direction of a pin
type Direction uint8

const (
	DirInput Direction = iota
	DirOutput
)

var (
	// ErrPinDirection is returned when an operation does not match the pin's configured direction
	ErrPinDirection = errors.New("pin not configured for requested direction")

	// ErrPinNotConfigured is returned when a pin is used before Configure
	ErrPinNotConfigured = errors.New("pin not configured")

	// ErrInvalidPin is returned for pin addresses outside the supported range
	ErrInvalidPin = errors.New("invalid pin")
)

// GPIODriver is the abstract digital I/O interface that core code uses.
// Platform-specific implementations handle actual hardware control.
// A failed call had no effect on the pin; callers may ignore it and continue.
type GPIODriver interface {
	// Configure sets the pin direction
	Configure(pin GPIOPin, dir Direction) error

	// SetPin drives an output pin high
	SetPin(pin GPIOPin) error

	// ClearPin drives an output pin low
	ClearPin(pin GPIOPin) error

	// TogglePin inverts an output pin
	TogglePin(pin GPIOPin) error

	// ReadPin samples an input pin
	ReadPin(pin GPIOPin) (bool, error)
}

// WritePin drives an output pin to the given level
func WritePin(d GPIODriver, pin GPIOPin, high bool) error {
	if high {
		return d.SetPin(pin)
	}
	return d.ClearPin(pin)
}

// Global singleton used by target wiring.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
