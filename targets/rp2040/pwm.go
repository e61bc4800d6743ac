//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/tone"

	"smartlock/core"
)

// TonePWMDriver implements core.PWMDriver with a piezo buzzer on one
// hardware PWM channel
type TonePWMDriver struct {
	pwm tone.PWM
	pin machine.Pin

	speaker    tone.Speaker
	configured bool
	enabled    bool
	periodUS   uint32
}

// NewTonePWMDriver creates a driver for the buzzer on pin. pwm must be the
// slice that owns the pin: GPIO N belongs to slice (N>>1)&7.
func NewTonePWMDriver(pwm tone.PWM, pin machine.Pin) *TonePWMDriver {
	return &TonePWMDriver{pwm: pwm, pin: pin}
}

// Configure sets up the PWM slice with the output silent.
// The speaker always drives a square wave, so duty is not used.
func (d *TonePWMDriver) Configure(periodUS uint32, duty core.PWMValue) error {
	speaker, err := tone.New(d.pwm, d.pin)
	if err != nil {
		return err
	}
	speaker.Stop()

	d.speaker = speaker
	d.configured = true
	d.enabled = false
	d.periodUS = periodUS
	return nil
}

// SetPeriod changes the pitch, immediately if the tone is playing
func (d *TonePWMDriver) SetPeriod(periodUS uint32) error {
	if !d.configured {
		return core.ErrPWMNotConfigured
	}
	d.periodUS = periodUS
	if d.enabled {
		d.speaker.SetPeriod(usToNS(periodUS))
	}
	return nil
}

// Enable starts the tone
func (d *TonePWMDriver) Enable() error {
	if !d.configured {
		return core.ErrPWMNotConfigured
	}
	d.speaker.SetPeriod(usToNS(d.periodUS))
	d.enabled = true
	return nil
}

// Disable silences the tone
func (d *TonePWMDriver) Disable() error {
	if !d.configured {
		return core.ErrPWMNotConfigured
	}
	d.speaker.Stop()
	d.enabled = false
	return nil
}

func usToNS(us uint32) uint64 {
	return uint64(us) * 1000
}
