package core

import "errors"

// PWMValue is the duty cycle reference (0 to PWMMax)
type PWMValue uint32

// PWMMax is the full-scale duty value
const PWMMax = 255

// PWMSquare is the duty reference for a 50% square wave
const PWMSquare PWMValue = PWMMax / 2

// ErrPWMNotConfigured is returned when the signal is used before Configure
var ErrPWMNotConfigured = errors.New("PWM signal not configured")

// PWMDriver is the abstract periodic-signal interface that core code uses.
// It drives a single tone output; periods are in microseconds.
type PWMDriver interface {
	// Configure sets up the periodic signal with the output disabled
	Configure(periodUS uint32, duty PWMValue) error

	// SetPeriod changes the signal period, keeping the duty ratio
	SetPeriod(periodUS uint32) error

	// Enable starts driving the signal on the output
	Enable() error

	// Disable stops the signal and holds the output low
	Disable() error
}

// Global singleton used by target wiring.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
