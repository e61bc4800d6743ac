package sim

import (
	"sync"

	"smartlock/core"
)

const rxCapacity = 64

// Serial is a simulated transceiver. Inject plays the role of the receive
// interrupt: it queues a byte and calls the registered handler synchronously.
type Serial struct {
	mu      sync.Mutex
	rx      *FifoBuffer
	status  []core.RxStatus // Line status per queued byte, same order as rx
	tx      []byte
	txBusy  bool
	handler func()
}

// NewSerial creates an idle simulated transceiver
func NewSerial() *Serial {
	return &Serial{rx: NewFifoBuffer(rxCapacity)}
}

// TryReceive pops the next byte
func (s *Serial) TryReceive() (byte, core.RxStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.rx.ReadByte()
	if !ok {
		return 0, 0, false
	}
	status := s.status[0]
	s.status = s.status[1:]
	return b, status, true
}

// TrySend records a transmitted byte unless the transmitter is marked busy
func (s *Serial) TrySend(b byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txBusy {
		return false
	}
	s.tx = append(s.tx, b)
	return true
}

// SetReceiveHandler registers the byte-arrival notification
func (s *Serial) SetReceiveHandler(h func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Inject delivers one byte with the given line status.
// Returns false if the receive buffer is full (the byte is lost).
func (s *Serial) Inject(b byte, status core.RxStatus) bool {
	s.mu.Lock()
	if s.rx.Write([]byte{b}) == 0 {
		s.mu.Unlock()
		return false
	}
	s.status = append(s.status, status)
	h := s.handler
	s.mu.Unlock()

	if h != nil {
		h()
	}
	return true
}

// InjectBytes delivers each byte with a clean line status
func (s *Serial) InjectBytes(data []byte) {
	for _, b := range data {
		s.Inject(b, 0)
	}
}

// SetTxBusy makes TrySend fail while busy is true
func (s *Serial) SetTxBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txBusy = busy
}

// Sent returns the bytes transmitted so far
func (s *Serial) Sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.tx...)
}

// Pending returns the number of received bytes not yet read
func (s *Serial) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rx.Available()
}
