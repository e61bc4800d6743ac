package sim

// Board bundles one instance of every simulated capability
type Board struct {
	GPIO   *GPIO
	PWM    *PWM
	Serial *Serial
	Delay  *Delay
}

// NewBoard creates a fresh simulated board
func NewBoard() *Board {
	return &Board{
		GPIO:   NewGPIO(),
		PWM:    NewPWM(),
		Serial: NewSerial(),
		Delay:  &Delay{},
	}
}
