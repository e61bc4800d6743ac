// Package controller runs the lock state machine: evaluate the candidate
// credential, play feedback, and pulse the actuators.
package controller

import (
	"context"
	"errors"

	"smartlock/actuator"
	"smartlock/config"
	"smartlock/core"
	"smartlock/credential"
	"smartlock/feedback"
)

// ErrMissingHardware is returned by New when a capability is nil
var ErrMissingHardware = errors.New("controller: hardware capability missing")

// Component codes recorded with EvtHALError
const (
	componentKeypad   = 1
	componentActuator = 2
	componentFeedback = 3
)

// Hardware bundles the capabilities the controller drives
type Hardware struct {
	GPIO   core.GPIODriver
	PWM    core.PWMDriver
	Serial core.SerialDriver
	Delay  core.Delayer

	// Tick, if set, runs at the start of every loop iteration
	// (targets use it to refresh the system clock)
	Tick func()
}

// Context is the state machine data owned by the run loop
type Context struct {
	State       State
	ErrorTally  uint8 // Consecutive failed attempts, saturating
	LastOutcome bool

	Attempts uint32
	Accepted uint32
	Rejected uint32

	// Read once at construction
	LockoutEnabled   bool
	LockoutThreshold uint8
	RequireComplete  bool
}

// Controller owns every component and the state machine context
type Controller struct {
	fsm  Context
	tick func()

	candidate *credential.Candidate
	verifier  *credential.Verifier
	wire      *credential.WireIngest // nil when the wireless source is off
	keypad    *credential.Keypad     // nil when the keypad source is off
	entry     *credential.KeyEntry
	actuator  *actuator.Sequencer
	feedback  *feedback.Signaler

	latchTicks     uint32
	lineErrorsSeen uint32
}

// New builds a controller from a configuration. Call Init before stepping.
func New(cfg *config.Config, hw Hardware) (*Controller, error) {
	if hw.GPIO == nil || hw.PWM == nil || hw.Serial == nil || hw.Delay == nil {
		return nil, ErrMissingHardware
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stored, _ := cfg.StoredCredential()
	c := &Controller{
		fsm: Context{
			State:            AwaitingCredential,
			LockoutEnabled:   cfg.Lockout.Enabled,
			LockoutThreshold: uint8(cfg.Lockout.Threshold),
			RequireComplete:  cfg.Credential.RequireCompleteEntry,
		},
		tick:      hw.Tick,
		candidate: &credential.Candidate{},
		verifier:  credential.NewVerifier(stored),
	}

	if cfg.UsesWireless() {
		c.wire = credential.NewWireIngest(hw.Serial, c.candidate, byte(cfg.Credential.AckByte))
	}
	if cfg.UsesKeypad() {
		rows, _ := config.ParsePins(cfg.Keypad.Rows)
		cols, _ := config.ParsePins(cfg.Keypad.Columns)
		keys, _ := cfg.KeyTable()
		keypad, err := credential.NewKeypad(hw.GPIO, rows, cols, keys, cfg.Keypad.ActiveHigh)
		if err != nil {
			return nil, err
		}
		c.keypad = keypad
		c.entry = credential.NewKeyEntry(keypad, c.candidate)
	}

	act, _ := config.ParsePins([]string{cfg.Actuator.Latch, cfg.Actuator.MotorForward, cfg.Actuator.MotorReverse})
	c.latchTicks = core.TimerFromMS(cfg.Actuator.LatchPulseMS)
	c.actuator = actuator.NewSequencer(hw.GPIO, hw.Delay,
		actuator.Pins{Latch: act[0], MotorForward: act[1], MotorReverse: act[2]},
		actuator.Timing{
			LatchPulse: c.latchTicks,
			MotorPulse: core.TimerFromMS(cfg.Actuator.MotorPulseMS),
		},
		cfg.Actuator.ActiveLow)

	leds, _ := config.ParsePins([]string{cfg.Feedback.AcceptLED, cfg.Feedback.RejectLED})
	c.feedback = feedback.NewSignaler(hw.GPIO, hw.PWM, hw.Delay,
		feedback.Pattern{LED: leds[0], PeriodUS: cfg.Feedback.AcceptPeriodUS},
		feedback.Pattern{LED: leds[1], PeriodUS: cfg.Feedback.RejectPeriodUS},
		core.TimerFromMS(cfg.Feedback.BlinkMS),
		cfg.Feedback.Blinks)

	return c, nil
}

// Init configures the hardware and installs the wireless receive handler
func (c *Controller) Init() error {
	if c.keypad != nil {
		if err := c.keypad.Init(); err != nil {
			core.RecordEvent(core.EvtHALError, uint8(c.fsm.State), componentKeypad, 0)
			return err
		}
	}
	if err := c.actuator.Init(); err != nil {
		core.RecordEvent(core.EvtHALError, uint8(c.fsm.State), componentActuator, 0)
		return err
	}
	if err := c.feedback.Init(); err != nil {
		core.RecordEvent(core.EvtHALError, uint8(c.fsm.State), componentFeedback, 0)
		return err
	}
	if c.wire != nil {
		c.wire.Register()
	}
	return nil
}

// State returns the current state
func (c *Controller) State() State {
	return c.fsm.State
}

// Step runs the current state's action and moves to its successor
func (c *Controller) Step() State {
	switch c.fsm.State {
	case AwaitingCredential:
		c.fsm.State = c.awaitCredential()
	case CredentialAccepted:
		c.fsm.State = c.credentialAccepted()
	case CredentialRejected:
		c.fsm.State = c.credentialRejected()
	case LatchRelease:
		c.fsm.State = c.latchRelease()
	case LockdownEngage:
		c.fsm.State = c.lockdownEngage()
	case LockdownRelease:
		c.fsm.State = c.lockdownRelease()
	default:
		c.fsm.State = AwaitingCredential
	}
	return c.fsm.State
}

// RunCycle steps until the machine is back in AwaitingCredential.
// From AwaitingCredential that is one evaluation plus whatever it triggers.
func (c *Controller) RunCycle() {
	for c.Step() != AwaitingCredential {
	}
}

// Run loops until ctx is cancelled. A panic in one iteration is recorded
// and the machine restarts from AwaitingCredential.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					core.RecordEvent(core.EvtPanic, uint8(c.fsm.State), 0, 0)
					core.DebugPrintln("controller: recovered panic in " + c.fsm.State.String())
					c.fsm.State = AwaitingCredential
				}
			}()

			if c.tick != nil {
				c.tick()
			}
			c.Step()
		}()
	}
}

func (c *Controller) awaitCredential() State {
	c.checkWire()

	if c.entry != nil {
		if key, slot, ok := c.entry.Poll(); ok {
			c.record(core.EvtKeyPress, uint32(slot), uint32(key))
		}
	}

	var candidate credential.Credential
	if c.fsm.RequireComplete {
		var ok bool
		if candidate, ok = c.candidate.TakeComplete(); !ok {
			return AwaitingCredential
		}
	} else {
		candidate = c.candidate.Snapshot()
	}

	outcome := c.verifier.Check(candidate)
	c.fsm.LastOutcome = outcome
	c.fsm.Attempts++
	if outcome {
		c.record(core.EvtAttempt, 1, 0)
		return CredentialAccepted
	}
	c.record(core.EvtAttempt, 0, 0)
	return CredentialRejected
}

func (c *Controller) credentialAccepted() State {
	c.fsm.ErrorTally = 0
	c.fsm.Accepted++
	c.feedback.Accept()
	c.record(core.EvtAccepted, 0, 0)

	if c.fsm.LockoutEnabled && c.actuator.Lockdown() {
		return LockdownRelease
	}
	return LatchRelease
}

func (c *Controller) credentialRejected() State {
	if c.fsm.ErrorTally < 255 {
		c.fsm.ErrorTally++
	}
	c.fsm.Rejected++
	c.feedback.Reject()
	c.record(core.EvtRejected, uint32(c.fsm.ErrorTally), 0)

	if c.fsm.LockoutEnabled && c.fsm.ErrorTally >= c.fsm.LockoutThreshold {
		return LockdownEngage
	}
	return AwaitingCredential
}

func (c *Controller) latchRelease() State {
	c.actuator.ReleaseLatch()
	c.record(core.EvtLatchPulse, c.latchTicks, 0)

	if c.actuator.Lockdown() {
		c.disengage()
	}
	return AwaitingCredential
}

func (c *Controller) lockdownEngage() State {
	if err := c.actuator.EngageLockdown(); err != nil {
		c.record(core.EvtLockdownNoop, 1, 0)
		core.DebugPrintln("controller: " + err.Error() + " (tally " + core.Itoa(int(c.fsm.ErrorTally)) + ")")
	} else {
		c.record(core.EvtLockdownOn, 0, 0)
	}
	return AwaitingCredential
}

func (c *Controller) lockdownRelease() State {
	c.disengage()
	return CredentialAccepted
}

func (c *Controller) disengage() {
	if err := c.actuator.DisengageLockdown(); err != nil {
		c.record(core.EvtLockdownNoop, 0, 0)
		core.DebugPrintln("controller: " + err.Error())
		return
	}
	c.record(core.EvtLockdownOff, 0, 0)
}

// checkWire records line errors the receive path counted since the last look
func (c *Controller) checkWire() {
	if c.wire == nil {
		return
	}
	total := c.wire.LineErrors()
	if total != c.lineErrorsSeen {
		c.record(core.EvtWireError, total-c.lineErrorsSeen, 0)
		c.lineErrorsSeen = total
	}
}

func (c *Controller) record(kind uint8, v1, v2 uint32) {
	core.RecordEvent(kind, uint8(c.fsm.State), v1, v2)
}
