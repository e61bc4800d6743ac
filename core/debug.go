package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a controller event for post-mortem analysis
type Event struct {
	Kind   uint8  // Event kind code
	State  uint8  // Controller state when recorded
	Clock  uint32 // System clock at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event kind codes
const (
	EvtAttempt      = 1  // Credential evaluated (v1=outcome)
	EvtAccepted     = 2  // Accept feedback played
	EvtRejected     = 3  // Reject feedback played (v1=error tally)
	EvtLatchPulse   = 4  // Latch released (v1=pulse ticks)
	EvtLockdownOn   = 5  // Motor driven forward
	EvtLockdownOff  = 6  // Motor driven reverse
	EvtLockdownNoop = 7  // Engage/disengage requested in the current state (v1=1 engage, 0 disengage)
	EvtWireError    = 8  // Line errors seen on the wireless link since the last cycle (v1=count)
	EvtKeyPress     = 9  // Keypad press registered (v1=slot, v2=symbol)
	EvtHALError     = 10 // Component setup failed (v1=component: 1 keypad, 2 actuator, 3 feedback)
	EvtPanic        = 11 // Recovered panic in the main loop
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool = false

	eventRing    [EventRingSize]Event
	eventRingPos uint8

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, a host logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Safe to call from the serial receive path: drops the message if the channel is full
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer.
// Main loop only; the receive path counts its events instead.
func RecordEvent(kind, state uint8, value1, value2 uint32) {
	idx := eventRingPos
	eventRing[idx] = Event{
		Kind:   kind,
		State:  state,
		Clock:  GetTime(),
		Value1: value1,
		Value2: value2,
	}
	eventRingPos = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingPos
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a printable name for an event kind
func EventName(kind uint8) string {
	switch kind {
	case EvtAttempt:
		return "ATTEMPT"
	case EvtAccepted:
		return "ACCEPTED"
	case EvtRejected:
		return "REJECTED"
	case EvtLatchPulse:
		return "LATCH"
	case EvtLockdownOn:
		return "LOCKDOWN_ON"
	case EvtLockdownOff:
		return "LOCKDOWN_OFF"
	case EvtLockdownNoop:
		return "LOCKDOWN_NOOP"
	case EvtWireError:
		return "WIRE_ERR"
	case EvtKeyPress:
		return "KEY"
	case EvtHALError:
		return "HAL_ERR!"
	case EvtPanic:
		return "PANIC!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring through the debug writer
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENT] " + EventName(evt.Kind) +
			" state=" + itoa(int(evt.State)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingPos = 0
}
