//go:build rp2040

package main

import (
	"machine"
	"time"

	"smartlock/core"
)

// UARTSerialDriver implements core.SerialDriver on a hardware UART wired to
// the wireless module. TinyGo buffers received bytes in a ring filled by the
// UART interrupt; a reader goroutine turns them into receive notifications.
type UARTSerialDriver struct {
	uart    *machine.UART
	handler func()
}

// NewUARTSerialDriver configures uart at baud on the given pins
func NewUARTSerialDriver(uart *machine.UART, baud uint32, tx, rx machine.Pin) (*UARTSerialDriver, error) {
	err := uart.Configure(machine.UARTConfig{
		BaudRate: baud,
		TX:       tx,
		RX:       rx,
	})
	if err != nil {
		return nil, err
	}
	return &UARTSerialDriver{uart: uart}, nil
}

// TryReceive pops the next buffered byte. The interrupt handler does not
// keep the line status, so the status is always clean.
func (d *UARTSerialDriver) TryReceive() (byte, core.RxStatus, bool) {
	if d.uart.Buffered() == 0 {
		return 0, 0, false
	}
	b, err := d.uart.ReadByte()
	if err != nil {
		return 0, 0, false
	}
	return b, 0, true
}

// TrySend writes one byte to the transmit FIFO
func (d *UARTSerialDriver) TrySend(b byte) bool {
	return d.uart.WriteByte(b) == nil
}

// SetReceiveHandler registers the byte-arrival notification and starts the
// reader goroutine on first use
func (d *UARTSerialDriver) SetReceiveHandler(h func()) {
	first := d.handler == nil
	d.handler = h
	if first && h != nil {
		go d.readerLoop()
	}
}

// readerLoop notifies the handler once per buffered byte
func (d *UARTSerialDriver) readerLoop() {
	defer func() {
		if r := recover(); r != nil {
			core.DebugAsync("uart: reader panic, restarting")
			time.Sleep(100 * time.Millisecond)
			go d.readerLoop()
		}
	}()

	for {
		for n := d.uart.Buffered(); n > 0; n-- {
			d.handler()
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}
