package controller

import "smartlock/credential"

// Status is a read-only snapshot of the controller
type Status struct {
	State       State
	ErrorTally  uint8
	Lockdown    bool
	LastOutcome bool

	Attempts uint32
	Accepted uint32
	Rejected uint32

	Candidate   credential.Credential
	WireEnabled bool
	WireCursor  int
	Wire        credential.WireStats
	KeyPosition int
}

// Status returns a snapshot; call it from the goroutine running the loop
func (c *Controller) Status() Status {
	s := Status{
		State:       c.fsm.State,
		ErrorTally:  c.fsm.ErrorTally,
		Lockdown:    c.actuator.Lockdown(),
		LastOutcome: c.fsm.LastOutcome,
		Attempts:    c.fsm.Attempts,
		Accepted:    c.fsm.Accepted,
		Rejected:    c.fsm.Rejected,
		Candidate:   c.candidate.Snapshot(),
	}
	if c.wire != nil {
		s.WireEnabled = true
		s.WireCursor = c.wire.Cursor()
		s.Wire = c.wire.Stats()
	}
	if c.entry != nil {
		s.KeyPosition = c.entry.Position()
	}
	return s
}
