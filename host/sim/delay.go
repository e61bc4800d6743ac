package sim

import (
	"sync/atomic"
	"time"

	"smartlock/core"
)

// Delay advances the simulated clock instead of spinning.
// With Scale > 0 it also sleeps ticks*Scale of wall time, so a simulated
// pulse can be watched in real time.
type Delay struct {
	Scale  time.Duration
	waited atomic.Uint64
}

// Wait advances core time by ticks
func (d *Delay) Wait(ticks uint32) {
	core.AdvanceTime(ticks)
	d.waited.Add(uint64(ticks))
	if d.Scale > 0 {
		time.Sleep(time.Duration(ticks) * d.Scale)
	}
}

// Waited returns the total ticks waited
func (d *Delay) Waited() uint64 {
	return d.waited.Load()
}
