package core

// RxStatus carries line errors latched with a received byte
type RxStatus uint8

// Receive status flags
const (
	RxFramingError = 1 << 0 // Stop bit missing
	RxOverrun      = 1 << 1 // A byte was lost before this one was read
)

// SerialDriver is the abstract serial transceiver interface.
// Both directions are non-blocking; the receive handler is invoked
// once per arriving byte and may run in interrupt context.
type SerialDriver interface {
	// TryReceive returns the next byte and its line status, ok=false if none is pending.
	// Line error flags are cleared by the call.
	TryReceive() (b byte, status RxStatus, ok bool)

	// TrySend queues a byte for transmission, false if the transmitter is busy
	TrySend(b byte) bool

	// SetReceiveHandler registers the byte-arrival notification
	SetReceiveHandler(h func())
}

// Global singleton used by target wiring.
var serialDriver SerialDriver

// SetSerialDriver is called by target-specific code to register its driver.
func SetSerialDriver(d SerialDriver) {
	serialDriver = d
}

// MustSerial returns the configured driver or panics if missing.
func MustSerial() SerialDriver {
	if serialDriver == nil {
		panic("serial driver not configured")
	}
	return serialDriver
}
