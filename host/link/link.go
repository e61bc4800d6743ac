// Package link sends credentials to the lock over its wireless serial link.
// The lock acknowledges every byte it stores; the client waits for that
// acknowledgement before sending the next symbol.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pion/logging"

	"smartlock/credential"
	"smartlock/host/serial"
)

// ErrAckTimeout is returned when the lock does not acknowledge a byte in time
var ErrAckTimeout = errors.New("no acknowledgement from lock")

// DefaultByteTimeout bounds the wait for each acknowledgement
const DefaultByteTimeout = 2 * time.Second

// Config configures a Client
type Config struct {
	// Ack is the byte the lock returns per stored symbol
	Ack byte

	// ByteTimeout bounds the wait for each acknowledgement. Zero uses DefaultByteTimeout.
	ByteTimeout time.Duration

	// LoggerFactory for logging. If nil, uses DefaultLoggerFactory.
	LoggerFactory logging.LoggerFactory
}

// DefaultConfig returns the configuration matching the lock's defaults
func DefaultConfig() Config {
	return Config{
		Ack:         credential.DefaultAckByte,
		ByteTimeout: DefaultByteTimeout,
	}
}

// Client talks to the lock over an open port
type Client struct {
	port    serial.Port
	ack     byte
	timeout time.Duration
	log     logging.LeveledLogger
}

// New creates a client on an already open port
func New(port serial.Port, cfg Config) *Client {
	factory := cfg.LoggerFactory
	if factory == nil {
		factory = logging.NewDefaultLoggerFactory()
	}
	timeout := cfg.ByteTimeout
	if timeout == 0 {
		timeout = DefaultByteTimeout
	}
	return &Client{
		port:    port,
		ack:     cfg.Ack,
		timeout: timeout,
		log:     factory.NewLogger("link"),
	}
}

// Dial opens the serial device and creates a client on it
func Dial(scfg *serial.Config, cfg Config) (*Client, error) {
	port, err := serial.Open(scfg)
	if err != nil {
		return nil, err
	}
	return New(port, cfg), nil
}

// Close closes the underlying port
func (c *Client) Close() error {
	return c.port.Close()
}

// SendCredential sends the four symbols one byte at a time, waiting for the
// acknowledgement of each before sending the next.
func (c *Client) SendCredential(ctx context.Context, cred credential.Credential) error {
	if err := c.port.Flush(); err != nil {
		return fmt.Errorf("flush port: %w", err)
	}

	for i, sym := range cred {
		if _, err := c.port.Write([]byte{byte(sym)}); err != nil {
			return fmt.Errorf("write symbol %d: %w", i, err)
		}
		c.log.Debugf("sent symbol %d (%d), waiting for ack", i, sym)

		if err := c.waitAck(ctx); err != nil {
			return fmt.Errorf("symbol %d: %w", i, err)
		}
	}

	c.log.Infof("credential delivered (%d symbols acknowledged)", credential.Length)
	return nil
}

func (c *Client) waitAck(ctx context.Context) error {
	deadline := time.Now().Add(c.timeout)
	var buf [1]byte

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return ErrAckTimeout
		}

		n, err := c.port.Read(buf[:])
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read ack: %w", err)
		}
		if n == 0 {
			// Read timed out empty
			continue
		}
		if buf[0] == c.ack {
			return nil
		}
		c.log.Warnf("ignoring unexpected byte 0x%02x while waiting for ack", buf[0])
	}
}
