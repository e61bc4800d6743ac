// Package config holds the controller configuration. Default is the
// compiled-in firmware configuration; host builds can also load TOML.
package config

import (
	"errors"

	"smartlock/core"
	"smartlock/credential"
)

// Input sources
const (
	SourceWireless = "wireless"
	SourceKeypad   = "keypad"
	SourceBoth     = "both"
)

var (
	ErrUnknownSource    = errors.New("credential.source must be wireless, keypad or both")
	ErrAckByte          = errors.New("credential.ack_byte must be 0-255")
	ErrLockoutThreshold = errors.New("lockout.threshold must be 1-255")
	ErrKeypadLayout     = errors.New("keypad.keys must have one row per keypad row and one entry per column")
	ErrKeySymbol        = errors.New("keypad.keys entries must be 0-255")
)

// Config is the complete controller configuration
type Config struct {
	Credential CredentialConfig `toml:"credential"`
	Lockout    LockoutConfig    `toml:"lockout"`
	Keypad     KeypadConfig     `toml:"keypad"`
	Actuator   ActuatorConfig   `toml:"actuator"`
	Feedback   FeedbackConfig   `toml:"feedback"`
}

// CredentialConfig selects the stored credential and the input path
type CredentialConfig struct {
	Stored               []int  `toml:"stored"`
	Source               string `toml:"source"`
	RequireCompleteEntry bool   `toml:"require_complete_entry"` // Evaluate only after 4 fresh symbols
	AckByte              int    `toml:"ack_byte"`
}

// LockoutConfig controls the motorized lockdown after repeated failures
type LockoutConfig struct {
	Enabled   bool `toml:"enabled"`
	Threshold int  `toml:"threshold"` // Consecutive failures that engage lockdown
}

// KeypadConfig describes the matrix keypad wiring
type KeypadConfig struct {
	Rows       []string `toml:"rows"`
	Columns    []string `toml:"columns"`
	Keys       [][]int  `toml:"keys"`
	ActiveHigh bool     `toml:"active_high"`
}

// ActuatorConfig describes the latch and lockdown motor outputs
type ActuatorConfig struct {
	Latch        string `toml:"latch"`
	MotorForward string `toml:"motor_forward"`
	MotorReverse string `toml:"motor_reverse"`
	ActiveLow    bool   `toml:"active_low"`
	LatchPulseMS uint32 `toml:"latch_pulse_ms"`
	MotorPulseMS uint32 `toml:"motor_pulse_ms"`
}

// FeedbackConfig describes the indicator LEDs and tone pitches
type FeedbackConfig struct {
	AcceptLED      string `toml:"accept_led"`
	RejectLED      string `toml:"reject_led"`
	AcceptPeriodUS uint32 `toml:"accept_period_us"`
	RejectPeriodUS uint32 `toml:"reject_period_us"`
	BlinkMS        uint32 `toml:"blink_ms"`
	Blinks         int    `toml:"blinks"`
}

// Default timing values
const (
	DefaultLatchPulseMS   = 250
	DefaultMotorPulseMS   = 250
	DefaultBlinkMS        = 25
	DefaultBlinks         = 3
	DefaultAcceptPeriodUS = 1000
	DefaultRejectPeriodUS = 2000
	DefaultThreshold      = 3
)

// Default returns the compiled-in configuration for the KL27 lock board
func Default() *Config {
	return &Config{
		Credential: CredentialConfig{
			Stored:  []int{1, 2, 3, 4},
			Source:  SourceWireless,
			AckByte: int(credential.DefaultAckByte),
		},
		Lockout: LockoutConfig{
			Enabled:   false,
			Threshold: DefaultThreshold,
		},
		Keypad: KeypadConfig{
			Rows:       []string{"D0", "D1", "D2", "D3"},
			Columns:    []string{"D4", "D5", "B3"},
			Keys:       defaultKeys(),
			ActiveHigh: true,
		},
		Actuator: ActuatorConfig{
			Latch:        "A12",
			MotorForward: "B0",
			MotorReverse: "B1",
			ActiveLow:    true,
			LatchPulseMS: DefaultLatchPulseMS,
			MotorPulseMS: DefaultMotorPulseMS,
		},
		Feedback: FeedbackConfig{
			AcceptLED:      "A1",
			RejectLED:      "A2",
			AcceptPeriodUS: DefaultAcceptPeriodUS,
			RejectPeriodUS: DefaultRejectPeriodUS,
			BlinkMS:        DefaultBlinkMS,
			Blinks:         DefaultBlinks,
		},
	}
}

func defaultKeys() [][]int {
	keys := make([][]int, len(credential.DefaultKeyTable))
	for r, row := range credential.DefaultKeyTable {
		keys[r] = make([]int, len(row))
		for c, s := range row {
			keys[r][c] = int(s)
		}
	}
	return keys
}

// applyDefaults fills in missing values that have no meaningful zero
func applyDefaults(cfg *Config) {
	if cfg.Credential.Source == "" {
		cfg.Credential.Source = SourceWireless
	}
	if cfg.Lockout.Threshold == 0 {
		cfg.Lockout.Threshold = DefaultThreshold
	}
	if len(cfg.Keypad.Keys) == 0 {
		cfg.Keypad.Keys = defaultKeys()
	}
	if cfg.Actuator.LatchPulseMS == 0 {
		cfg.Actuator.LatchPulseMS = DefaultLatchPulseMS
	}
	if cfg.Actuator.MotorPulseMS == 0 {
		cfg.Actuator.MotorPulseMS = DefaultMotorPulseMS
	}
	if cfg.Feedback.AcceptPeriodUS == 0 {
		cfg.Feedback.AcceptPeriodUS = DefaultAcceptPeriodUS
	}
	if cfg.Feedback.RejectPeriodUS == 0 {
		cfg.Feedback.RejectPeriodUS = DefaultRejectPeriodUS
	}
	if cfg.Feedback.BlinkMS == 0 {
		cfg.Feedback.BlinkMS = DefaultBlinkMS
	}
	if cfg.Feedback.Blinks == 0 {
		cfg.Feedback.Blinks = DefaultBlinks
	}
}

// Validate checks every value the controller consumes
func (c *Config) Validate() error {
	if _, err := c.StoredCredential(); err != nil {
		return err
	}
	switch c.Credential.Source {
	case SourceWireless, SourceKeypad, SourceBoth:
	default:
		return ErrUnknownSource
	}
	if c.Credential.AckByte < 0 || c.Credential.AckByte > 255 {
		return ErrAckByte
	}
	if c.Lockout.Threshold < 1 || c.Lockout.Threshold > 255 {
		return ErrLockoutThreshold
	}

	if _, err := c.KeyTable(); err != nil {
		return err
	}
	for _, names := range [][]string{
		c.Keypad.Rows,
		c.Keypad.Columns,
		{c.Actuator.Latch, c.Actuator.MotorForward, c.Actuator.MotorReverse},
		{c.Feedback.AcceptLED, c.Feedback.RejectLED},
	} {
		if _, err := ParsePins(names); err != nil {
			return err
		}
	}
	return nil
}

// StoredCredential returns the configured credential
func (c *Config) StoredCredential() (credential.Credential, error) {
	return credential.FromInts(c.Credential.Stored)
}

// KeyTable returns the keypad legend checked against the wiring
func (c *Config) KeyTable() ([][]credential.Symbol, error) {
	if len(c.Keypad.Keys) != len(c.Keypad.Rows) {
		return nil, ErrKeypadLayout
	}
	table := make([][]credential.Symbol, len(c.Keypad.Keys))
	for r, row := range c.Keypad.Keys {
		if len(row) != len(c.Keypad.Columns) {
			return nil, ErrKeypadLayout
		}
		table[r] = make([]credential.Symbol, len(row))
		for col, v := range row {
			if v < 0 || v > 255 {
				return nil, ErrKeySymbol
			}
			table[r][col] = credential.Symbol(v)
		}
	}
	return table, nil
}

// UsesWireless reports whether wireless ingestion is enabled
func (c *Config) UsesWireless() bool {
	return c.Credential.Source == SourceWireless || c.Credential.Source == SourceBoth
}

// UsesKeypad reports whether the keypad is polled
func (c *Config) UsesKeypad() bool {
	return c.Credential.Source == SourceKeypad || c.Credential.Source == SourceBoth
}

// PinError reports a pin name that does not parse
type PinError struct {
	Name string
	Err  error
}

func (e *PinError) Error() string {
	return "pin \"" + e.Name + "\": " + e.Err.Error()
}

func (e *PinError) Unwrap() error {
	return e.Err
}

// ParsePins converts pin names to addresses
func ParsePins(names []string) ([]core.GPIOPin, error) {
	pins := make([]core.GPIOPin, len(names))
	for i, name := range names {
		pin, err := core.ParsePin(name)
		if err != nil {
			return nil, &PinError{Name: name, Err: err}
		}
		pins[i] = pin
	}
	return pins, nil
}
