// Package feedback plays the accept and reject indications: a tone at a
// fixed pitch while one of the two LEDs blinks.
package feedback

import "smartlock/core"

// Pattern describes one indication
type Pattern struct {
	LED      core.GPIOPin
	PeriodUS uint32 // Tone period
}

// Signaler drives the indicator LEDs and the tone generator
type Signaler struct {
	gpio  core.GPIODriver
	pwm   core.PWMDriver
	delay core.Delayer

	accept Pattern
	reject Pattern
	blink  uint32 // On and off time per blink, in ticks
	blinks int
}

// NewSignaler creates a signaler; call Init before use
func NewSignaler(gpio core.GPIODriver, pwm core.PWMDriver, delay core.Delayer, accept, reject Pattern, blinkTicks uint32, blinks int) *Signaler {
	return &Signaler{
		gpio:   gpio,
		pwm:    pwm,
		delay:  delay,
		accept: accept,
		reject: reject,
		blink:  blinkTicks,
		blinks: blinks,
	}
}

// Init drives both LEDs low and sets up the tone generator silent
func (s *Signaler) Init() error {
	for _, led := range []core.GPIOPin{s.accept.LED, s.reject.LED} {
		if err := s.gpio.Configure(led, core.DirOutput); err != nil {
			return err
		}
		if err := s.gpio.ClearPin(led); err != nil {
			return err
		}
	}
	return s.pwm.Configure(s.accept.PeriodUS, core.PWMSquare)
}

// Accept plays the accept indication; blocks until done
func (s *Signaler) Accept() {
	s.play(s.accept)
}

// Reject plays the reject indication; blocks until done
func (s *Signaler) Reject() {
	s.play(s.reject)
}

func (s *Signaler) play(p Pattern) {
	s.check(s.pwm.SetPeriod(p.PeriodUS))
	s.check(s.pwm.Enable())
	for i := 0; i < s.blinks; i++ {
		s.check(s.gpio.SetPin(p.LED))
		s.delay.Wait(s.blink)
		s.check(s.gpio.ClearPin(p.LED))
		s.delay.Wait(s.blink)
	}
	s.check(s.pwm.Disable())
}

func (s *Signaler) check(err error) {
	if err != nil {
		core.DebugPrintln("feedback: " + err.Error())
	}
}
