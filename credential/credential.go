// Package credential holds the credential input paths (keypad scan and
// wireless ingestion) and the access decision.
package credential

import "errors"

// Length is the number of symbols in a credential
const Length = 4

// Symbol is one credential element: a keypad key value or a raw wireless byte
type Symbol uint8

// Non-digit keypad symbols
const (
	SymbolStar Symbol = 10
	SymbolHash Symbol = 11
)

// Credential is an ordered sequence of Length symbols
type Credential [Length]Symbol

// ErrInvalidCredential is returned for credential text that is not Length digits
var ErrInvalidCredential = errors.New("credential must be 4 digits")

// DefaultKeyTable maps the 4x3 keypad matrix to symbols
var DefaultKeyTable = [][]Symbol{
	{1, 2, 3},
	{4, 5, 6},
	{7, 8, 9},
	{SymbolStar, 0, SymbolHash},
}

// ParseDigits converts text such as "1234" to a credential of digit values
func ParseDigits(s string) (Credential, error) {
	var c Credential
	if len(s) != Length {
		return c, ErrInvalidCredential
	}
	for i := 0; i < Length; i++ {
		if s[i] < '0' || s[i] > '9' {
			return c, ErrInvalidCredential
		}
		c[i] = Symbol(s[i] - '0')
	}
	return c, nil
}

// FromInts converts configured integer values to a credential
func FromInts(values []int) (Credential, error) {
	var c Credential
	if len(values) != Length {
		return c, ErrInvalidCredential
	}
	for i, v := range values {
		if v < 0 || v > 255 {
			return c, ErrInvalidCredential
		}
		c[i] = Symbol(v)
	}
	return c, nil
}

// String renders the symbols, using '*' and '#' for the non-digit keys
func (c Credential) String() string {
	buf := make([]byte, 0, Length)
	for _, s := range c {
		buf = append(buf, SymbolChar(s))
	}
	return string(buf)
}

// SymbolChar returns the keypad legend for a symbol, '?' for non-keypad values
func SymbolChar(s Symbol) byte {
	switch {
	case s <= 9:
		return '0' + byte(s)
	case s == SymbolStar:
		return '*'
	case s == SymbolHash:
		return '#'
	default:
		return '?'
	}
}
