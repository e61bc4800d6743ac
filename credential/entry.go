package credential

// KeyEntry composes single keypad scans into the candidate buffer.
// A key is registered on the poll where it is first seen (no debounce);
// holding it down does not repeat.
type KeyEntry struct {
	keypad *Keypad
	buf    *Candidate
	pos    int
	last   Symbol
	held   bool
}

// NewKeyEntry creates a key entry writing into buf
func NewKeyEntry(keypad *Keypad, buf *Candidate) *KeyEntry {
	return &KeyEntry{keypad: keypad, buf: buf}
}

// Poll scans the keypad once. If a new key press is seen it is submitted at
// the entry position, which then advances (wrapping at Length).
func (e *KeyEntry) Poll() (Symbol, int, bool) {
	key, ok := e.keypad.GetKey()
	if !ok {
		e.held = false
		return 0, 0, false
	}
	if e.held && key == e.last {
		return 0, 0, false
	}

	e.held = true
	e.last = key

	slot := e.pos
	e.buf.Submit(slot, key)
	e.pos = (e.pos + 1) % Length
	return key, slot, true
}

// Position returns the slot the next key press will fill
func (e *KeyEntry) Position() int {
	return e.pos
}
