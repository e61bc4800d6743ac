package credential

import "sync/atomic"

// Candidate is the 4-slot buffer both input paths write into.
// Each slot is written atomically, so a reader racing the serial receive
// path sees every symbol either before or after the write, never torn.
type Candidate struct {
	slots [Length]atomic.Uint32
	fresh atomic.Uint32 // symbols submitted since the last TakeComplete
}

// Submit stores a symbol at position pos (mod Length)
func (c *Candidate) Submit(pos int, s Symbol) {
	c.slots[pos%Length].Store(uint32(s))
	c.fresh.Add(1)
}

// Snapshot returns the current contents
func (c *Candidate) Snapshot() Credential {
	state := enterCritical()
	defer exitCritical(state)

	var out Credential
	for i := range c.slots {
		out[i] = Symbol(c.slots[i].Load())
	}
	return out
}

// Fresh returns the number of symbols submitted since the last TakeComplete
func (c *Candidate) Fresh() int {
	return int(c.fresh.Load())
}

// TakeComplete returns the contents once at least Length symbols have been
// submitted since the previous call, and consumes them
func (c *Candidate) TakeComplete() (Credential, bool) {
	n := c.fresh.Load()
	if n < Length {
		return Credential{}, false
	}
	snap := c.Snapshot()
	c.fresh.Add(^(n - 1))
	return snap, true
}

// Reset clears all slots to zero
func (c *Candidate) Reset() {
	state := enterCritical()
	defer exitCritical(state)

	for i := range c.slots {
		c.slots[i].Store(0)
	}
	c.fresh.Store(0)
}
