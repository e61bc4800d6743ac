// Package actuator drives the latch solenoid and the reversible lockdown
// motor with fixed-length open-loop pulses.
package actuator

import (
	"errors"

	"smartlock/core"
)

var (
	// ErrAlreadyEngaged is returned by EngageLockdown when the lockdown is already engaged
	ErrAlreadyEngaged = errors.New("lockdown already engaged")

	// ErrAlreadyDisengaged is returned by DisengageLockdown when the lockdown is not engaged
	ErrAlreadyDisengaged = errors.New("lockdown already disengaged")
)

// Pins groups the actuator outputs
type Pins struct {
	Latch        core.GPIOPin // Solenoid relay
	MotorForward core.GPIOPin // H-bridge input driving the lockdown pin in
	MotorReverse core.GPIOPin // H-bridge input driving the lockdown pin out
}

// Timing holds pulse lengths in timer ticks
type Timing struct {
	LatchPulse uint32
	MotorPulse uint32
}

// Sequencer owns the actuator outputs and the lockdown flag
type Sequencer struct {
	gpio      core.GPIODriver
	delay     core.Delayer
	pins      Pins
	timing    Timing
	activeLow bool // Relay and H-bridge inputs energize on a low level

	lockdown bool
}

// NewSequencer creates a sequencer; call Init before use
func NewSequencer(gpio core.GPIODriver, delay core.Delayer, pins Pins, timing Timing, activeLow bool) *Sequencer {
	return &Sequencer{
		gpio:      gpio,
		delay:     delay,
		pins:      pins,
		timing:    timing,
		activeLow: activeLow,
	}
}

// Init configures the outputs and drives them inactive
func (s *Sequencer) Init() error {
	for _, pin := range []core.GPIOPin{s.pins.Latch, s.pins.MotorForward, s.pins.MotorReverse} {
		if err := s.gpio.Configure(pin, core.DirOutput); err != nil {
			return err
		}
		if err := core.WritePin(s.gpio, pin, s.activeLow); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseLatch energizes the solenoid for the latch pulse.
// Nothing confirms the bolt moved; the lockdown flag is not consulted.
func (s *Sequencer) ReleaseLatch() {
	s.pulse(s.pins.Latch, s.timing.LatchPulse)
}

// EngageLockdown drives the motor forward and sets the lockdown flag.
// Returns ErrAlreadyEngaged without moving the motor if the flag is set.
func (s *Sequencer) EngageLockdown() error {
	if s.lockdown {
		return ErrAlreadyEngaged
	}
	s.pulse(s.pins.MotorForward, s.timing.MotorPulse)
	s.lockdown = true
	return nil
}

// DisengageLockdown drives the motor in reverse and clears the lockdown flag.
// Returns ErrAlreadyDisengaged without moving the motor if the flag is clear.
func (s *Sequencer) DisengageLockdown() error {
	if !s.lockdown {
		return ErrAlreadyDisengaged
	}
	s.pulse(s.pins.MotorReverse, s.timing.MotorPulse)
	s.lockdown = false
	return nil
}

// Lockdown reports whether the motor last drove the mechanism to engaged
func (s *Sequencer) Lockdown() bool {
	return s.lockdown
}

// pulse asserts pin for ticks then releases it. A failed write is logged
// and the pulse still runs its full length.
func (s *Sequencer) pulse(pin core.GPIOPin, ticks uint32) {
	s.write(pin, true)
	s.delay.Wait(ticks)
	s.write(pin, false)
}

func (s *Sequencer) write(pin core.GPIOPin, active bool) {
	level := active != s.activeLow
	if err := core.WritePin(s.gpio, pin, level); err != nil {
		core.DebugPrintln("actuator: " + pin.String() + ": " + err.Error())
	}
}
