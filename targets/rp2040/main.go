//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"smartlock/config"
	"smartlock/controller"
	"smartlock/core"
)

// Board wiring that is not part of the lock configuration
const (
	wirelessBaud = 9600
	wirelessTX   = machine.GPIO0 // UART0 to the Bluetooth module
	wirelessRX   = machine.GPIO1
	buzzerPin    = machine.GPIO18 // PWM slice 1, channel A
	errorLED     = machine.LED
)

// boardConfig maps the lock onto a Raspberry Pi Pico. GPIO N is pin "AN".
func boardConfig() *config.Config {
	cfg := config.Default()
	cfg.Keypad.Rows = []string{"A2", "A3", "A4", "A5"}
	cfg.Keypad.Columns = []string{"A6", "A7", "A8"}
	cfg.Actuator.Latch = "A10"
	cfg.Actuator.MotorForward = "A11"
	cfg.Actuator.MotorReverse = "A12"
	cfg.Feedback.AcceptLED = "A14"
	cfg.Feedback.RejectLED = "A15"
	return cfg
}

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()
	UpdateSystemTime()

	cfg := boardConfig()

	// Register drivers
	core.SetGPIODriver(NewRPGPIODriver(cfg.Keypad.ActiveHigh))
	core.SetPWMDriver(NewTonePWMDriver(machine.PWM1, buzzerPin))
	core.SetDelayer(core.DelayFunc(busyWait))

	serial, err := NewUARTSerialDriver(machine.UART0, wirelessBaud, wirelessTX, wirelessRX)
	if err != nil {
		halt("uart: " + err.Error())
	}
	core.SetSerialDriver(serial)

	ctrl, err := controller.New(cfg, controller.Hardware{
		GPIO:   core.MustGPIO(),
		PWM:    core.MustPWM(),
		Serial: core.MustSerial(),
		Delay:  core.MustDelay(),
		Tick: func() {
			UpdateSystemTime()
			// Let the wireless reader goroutine run
			time.Sleep(10 * time.Microsecond)
		},
	})
	if err != nil {
		halt("config: " + err.Error())
	}
	if err := ctrl.Init(); err != nil {
		core.DumpEventRing()
		halt("init: " + err.Error())
	}

	DebugPrintln("smartlock ready, source=" + cfg.Credential.Source)

	// Never returns
	ctrl.Run(context.Background())
}

// halt reports a startup failure and blinks the on-board LED forever
func halt(msg string) {
	DebugPrintln("FATAL " + msg)
	errorLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		errorLED.High()
		time.Sleep(100 * time.Millisecond)
		errorLED.Low()
		time.Sleep(400 * time.Millisecond)
	}
}
