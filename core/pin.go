package core

// ParsePin converts a pin name such as "A12" or "d3" to a GPIOPin
func ParsePin(name string) (GPIOPin, error) {
	if len(name) < 2 || len(name) > 3 {
		return GPIOPin{}, ErrInvalidPin
	}

	letter := name[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter >= 'A'+MaxBanks {
		return GPIOPin{}, ErrInvalidPin
	}

	num := 0
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return GPIOPin{}, ErrInvalidPin
		}
		num = num*10 + int(c-'0')
	}
	if num >= MaxPinsPerBank {
		return GPIOPin{}, ErrInvalidPin
	}

	return GPIOPin{Bank: GPIOBank(letter - 'A'), Num: uint8(num)}, nil
}

// MustParsePin is ParsePin for compiled-in pin names
func MustParsePin(name string) GPIOPin {
	pin, err := ParsePin(name)
	if err != nil {
		panic("invalid pin name: " + name)
	}
	return pin
}

// String returns the pin name, e.g. "A12"
func (p GPIOPin) String() string {
	return string(rune('A'+p.Bank)) + itoa(int(p.Num))
}
