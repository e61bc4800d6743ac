//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"smartlock/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime reads the low 32 bits of the RP2040 microsecond timer.
// The timer runs at 1MHz, matching core.TimerFreq.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime updates the core timer with hardware time
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}

// busyWait spins on the hardware timer for ticks microseconds.
// It does not yield: the receive goroutine runs between loop iterations.
func busyWait(ticks uint32) {
	start := GetHardwareTime()
	for GetHardwareTime()-start < ticks {
	}
	UpdateSystemTime()
}
