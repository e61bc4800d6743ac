package sim

import (
	"sync"

	"smartlock/core"
)

// PWM event kinds
const (
	PWMConfigured = iota
	PWMPeriod
	PWMEnabled
	PWMDisabled
)

// PWMEvent records a tone generator call
type PWMEvent struct {
	Kind     int
	PeriodUS uint32
	Clock    uint32
}

// PWM is a simulated tone generator
type PWM struct {
	mu         sync.Mutex
	configured bool
	enabled    bool
	periodUS   uint32
	duty       core.PWMValue
	history    []PWMEvent
}

// NewPWM creates an unconfigured simulated tone generator
func NewPWM() *PWM {
	return &PWM{}
}

// Configure sets up the signal with the output disabled
func (p *PWM) Configure(periodUS uint32, duty core.PWMValue) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configured = true
	p.enabled = false
	p.periodUS = periodUS
	p.duty = duty
	p.record(PWMConfigured)
	return nil
}

// SetPeriod changes the period
func (p *PWM) SetPeriod(periodUS uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return core.ErrPWMNotConfigured
	}
	p.periodUS = periodUS
	p.record(PWMPeriod)
	return nil
}

// Enable starts the output
func (p *PWM) Enable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return core.ErrPWMNotConfigured
	}
	p.enabled = true
	p.record(PWMEnabled)
	return nil
}

// Disable stops the output
func (p *PWM) Disable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return core.ErrPWMNotConfigured
	}
	p.enabled = false
	p.record(PWMDisabled)
	return nil
}

func (p *PWM) record(kind int) {
	p.history = append(p.history, PWMEvent{Kind: kind, PeriodUS: p.periodUS, Clock: core.GetTime()})
}

// Enabled reports whether the output is running
func (p *PWM) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// PeriodUS returns the current period
func (p *PWM) PeriodUS() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.periodUS
}

// Duty returns the configured duty reference
func (p *PWM) Duty() core.PWMValue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

// History returns all recorded calls
func (p *PWM) History() []PWMEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PWMEvent(nil), p.history...)
}

// ClearHistory drops recorded calls
func (p *PWM) ClearHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = nil
}
