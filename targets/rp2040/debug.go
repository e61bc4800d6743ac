//go:build rp2040

package main

import "machine"

var debugUART *machine.UART

// InitDebugUART initializes UART1 on GPIO20 (TX) and GPIO21 (RX) for debugging
// Baud rate: 115200
func InitDebugUART() {
	uart := machine.UART1
	err := uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO20,
		RX:       machine.GPIO21,
	})
	if err != nil {
		return
	}
	debugUART = uart
	DebugPrintln("=== smartlock debug UART ===")
}

// DebugPrintln writes a string to the debug UART with newline
func DebugPrintln(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
