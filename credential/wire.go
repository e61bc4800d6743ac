package credential

import (
	"sync/atomic"

	"smartlock/core"
)

// DefaultAckByte is sent back for every byte stored from the wireless link
const DefaultAckByte byte = 1

// WireStats counts wireless ingestion activity
type WireStats struct {
	Received      uint32 // Bytes stored
	FramingErrors uint32 // Bytes received with a framing error (still stored)
	Overruns      uint32 // Bytes received after an overrun (still stored)
	AcksDropped   uint32 // Acknowledgements the transmitter refused
}

// WireIngest stores bytes from the serial receive notification into the candidate
type WireIngest struct {
	serial core.SerialDriver
	buf    *Candidate
	ack    byte

	cursor atomic.Uint32 // Next slot to fill, always < Length

	received      atomic.Uint32
	framingErrors atomic.Uint32
	overruns      atomic.Uint32
	acksDropped   atomic.Uint32
}

// NewWireIngest creates the ingestion path for a serial transceiver
func NewWireIngest(serial core.SerialDriver, buf *Candidate, ack byte) *WireIngest {
	return &WireIngest{
		serial: serial,
		buf:    buf,
		ack:    ack,
	}
}

// Register installs OnReceive as the transceiver's receive handler
func (w *WireIngest) Register() {
	w.serial.SetReceiveHandler(w.OnReceive)
}

// OnReceive handles one byte-arrival notification.
// It reads at most one byte and never blocks; it may run in interrupt context.
func (w *WireIngest) OnReceive() {
	b, status, ok := w.serial.TryReceive()
	if !ok {
		return
	}

	// Line errors were cleared by TryReceive; the byte is kept regardless
	if status&core.RxFramingError != 0 {
		w.framingErrors.Add(1)
	}
	if status&core.RxOverrun != 0 {
		w.overruns.Add(1)
	}

	pos := w.cursor.Load()
	w.buf.Submit(int(pos), Symbol(b))
	w.cursor.Store((pos + 1) % Length)
	w.received.Add(1)

	if !w.serial.TrySend(w.ack) {
		w.acksDropped.Add(1)
	}
}

// Cursor returns the slot the next received byte will fill
func (w *WireIngest) Cursor() int {
	return int(w.cursor.Load())
}

// Stats returns a copy of the ingestion counters
func (w *WireIngest) Stats() WireStats {
	return WireStats{
		Received:      w.received.Load(),
		FramingErrors: w.framingErrors.Load(),
		Overruns:      w.overruns.Load(),
		AcksDropped:   w.acksDropped.Load(),
	}
}

// LineErrors returns the total framing and overrun count
func (w *WireIngest) LineErrors() uint32 {
	return w.framingErrors.Load() + w.overruns.Load()
}
