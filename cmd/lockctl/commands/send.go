package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"smartlock/credential"
	"smartlock/host/link"
	"smartlock/host/serial"
)

var (
	sendDevice  string
	sendBaud    int
	sendTimeout time.Duration
	sendAck     int
)

var sendCmd = &cobra.Command{
	Use:   "send CREDENTIAL",
	Short: "Send a credential to the lock over the wireless link",
	Long: `Send a 4-digit credential to the lock, one byte per digit.

The lock acknowledges every byte it stores; each digit is sent only after
the previous one was acknowledged.

Examples:
  # Bluetooth serial module bound to rfcomm0
  lockctl send --device /dev/rfcomm0 1234

  # USB serial adapter at a non-default rate
  lockctl send --device /dev/ttyUSB0 --baud 115200 1234`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendDevice, "device", "d", "", "Serial device of the wireless link")
	sendCmd.Flags().IntVarP(&sendBaud, "baud", "b", serial.DefaultBaud, "Baud rate")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", link.DefaultByteTimeout, "Wait per acknowledgement")
	sendCmd.Flags().IntVar(&sendAck, "ack", int(credential.DefaultAckByte), "Acknowledgement byte the lock sends back")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	cred, err := credential.ParseDigits(args[0])
	if err != nil {
		return p.Error("Invalid credential",
			fmt.Sprintf("%q is not a %d-digit credential.", args[0], credential.Length),
			[]string{"Example: lockctl send --device /dev/rfcomm0 1234"})
	}
	if sendDevice == "" {
		return p.Error("No device given",
			"The wireless link's serial device is required.",
			[]string{"Pass --device, e.g. --device /dev/rfcomm0"})
	}
	if sendAck < 0 || sendAck > 255 {
		return p.Error("Invalid acknowledgement byte",
			fmt.Sprintf("--ack %d is outside 0-255.", sendAck), nil)
	}

	scfg := serial.DefaultConfig(sendDevice)
	scfg.Baud = sendBaud

	lcfg := link.DefaultConfig()
	lcfg.Ack = byte(sendAck)
	lcfg.ByteTimeout = sendTimeout
	lcfg.LoggerFactory = newLoggerFactory(cmd)

	client, err := link.Dial(scfg, lcfg)
	if err != nil {
		return p.Error("Cannot open serial port", err.Error(), []string{
			"Check the device path and permissions",
			"Pair the Bluetooth module and bind it with rfcomm",
		})
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := client.SendCredential(ctx, cred); err != nil {
		return p.Error("Credential not delivered", err.Error(), []string{
			"Check the lock is powered and in range",
			"Increase --timeout",
		})
	}

	p.Success("Credential delivered to %s\n", sendDevice)
	return nil
}
