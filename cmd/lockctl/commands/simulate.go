package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pion/logging"
	"github.com/spf13/cobra"

	"smartlock/config"
	"smartlock/controller"
	"smartlock/core"
	"smartlock/credential"
	"smartlock/host/printer"
	"smartlock/host/sim"
)

var (
	simConfigFile string
	simRealtime   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the lock controller on simulated hardware",
	Long: `Run the lock controller against simulated GPIO, tone generator and
serial link, driven by commands read from stdin:

  wire SYMBOLS   deliver bytes over the simulated wireless link (e.g. wire 1234)
  key SYMBOLS    press and release keypad keys, one cycle each (e.g. key 12*#)
  cycle [N]      run N controller cycles (default 1)
  status         show the controller status
  events         show the event ring
  help           show this list
  quit           exit

Examples:
  # Firmware defaults (wireless input, lockout off)
  lockctl simulate

  # Keypad input with lockout after 3 failures
  lockctl simulate --config lock.toml`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&simConfigFile, "config", "c", "", "Configuration file (defaults to the firmware configuration)")
	simulateCmd.Flags().BoolVar(&simRealtime, "realtime", false, "Hold actuator pulses and blinks for their real duration")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	cfg, err := loadConfig(simConfigFile)
	if err != nil {
		return p.Error("Invalid configuration", err.Error(),
			[]string{"Run 'lockctl config' to print a valid configuration"})
	}

	s, err := newSimulator(cfg, p, newLoggerFactory(cmd))
	if err != nil {
		return p.Error("Simulator failed to start", err.Error(), nil)
	}
	defer s.close()
	if simRealtime {
		s.board.Delay.Scale = time.Second / core.TimerFreq
	}

	p.Highlight("Simulated lock ready (input: %s). Type 'help' for commands.\n", cfg.Credential.Source)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		quit, err := s.exec(scanner.Text())
		if err != nil {
			p.Warning("%v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// simulator wires a controller to a simulated board
type simulator struct {
	cfg   *config.Config
	board *sim.Board
	ctrl  *controller.Controller
	p     *printer.Printer

	keys     *sim.KeyMatrix // nil when the keypad is not an input
	keyTable [][]credential.Symbol
}

func newSimulator(cfg *config.Config, p *printer.Printer, factory logging.LoggerFactory) (*simulator, error) {
	core.SetTime(0)
	core.ClearEventRing()

	// Level filtering is left to the logger
	lockLog := factory.NewLogger("lock")
	core.SetDebugWriter(func(msg string) { lockLog.Debug(msg) })
	core.SetDebugEnabled(true)

	board := sim.NewBoard()
	ctrl, err := controller.New(cfg, controller.Hardware{
		GPIO:   board.GPIO,
		PWM:    board.PWM,
		Serial: board.Serial,
		Delay:  board.Delay,
	})
	if err != nil {
		return nil, fmt.Errorf("build controller: %w", err)
	}
	if err := ctrl.Init(); err != nil {
		return nil, fmt.Errorf("init hardware: %w", err)
	}

	s := &simulator{cfg: cfg, board: board, ctrl: ctrl, p: p}
	if cfg.UsesKeypad() {
		rows, _ := config.ParsePins(cfg.Keypad.Rows)
		cols, _ := config.ParsePins(cfg.Keypad.Columns)
		s.keys = sim.NewKeyMatrix(board.GPIO, rows, cols, cfg.Keypad.ActiveHigh)
		s.keyTable, _ = cfg.KeyTable()
	}
	return s, nil
}

func (s *simulator) close() {
	core.SetDebugEnabled(false)
	core.SetDebugWriter(func(string) {})
}

// exec runs one command line; quit is true when the session should end
func (s *simulator) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "wire":
		if len(fields) != 2 {
			return false, errors.New("usage: wire SYMBOLS")
		}
		return false, s.wire(fields[1])
	case "key":
		if len(fields) != 2 {
			return false, errors.New("usage: key SYMBOLS")
		}
		return false, s.key(fields[1])
	case "cycle":
		n := 1
		if len(fields) > 1 {
			n, err = strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				return false, fmt.Errorf("invalid cycle count %q", fields[1])
			}
		}
		before := s.ctrl.Status()
		for i := 0; i < n; i++ {
			s.ctrl.RunCycle()
		}
		s.report(before, s.ctrl.Status())
	case "status":
		s.status()
	case "events":
		s.events()
	case "help":
		s.p.Info("commands: wire SYMBOLS, key SYMBOLS, cycle [N], status, events, help, quit\n")
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", fields[0])
	}
	return false, nil
}

func (s *simulator) wire(text string) error {
	syms, err := parseSymbols(text)
	if err != nil {
		return err
	}
	if !s.cfg.UsesWireless() {
		s.p.Warning("wireless input is disabled (input: %s); bytes will not be read\n", s.cfg.Credential.Source)
	}

	acked := len(s.board.Serial.Sent())
	for _, sym := range syms {
		if !s.board.Serial.Inject(byte(sym), 0) {
			return errors.New("receive buffer full")
		}
	}
	acked = len(s.board.Serial.Sent()) - acked
	s.p.Info("sent %d bytes, %d acknowledged, cursor at %d\n", len(syms), acked, s.ctrl.Status().WireCursor)
	return nil
}

func (s *simulator) key(text string) error {
	if s.keys == nil {
		return fmt.Errorf("keypad input is disabled (input: %s)", s.cfg.Credential.Source)
	}
	syms, err := parseSymbols(text)
	if err != nil {
		return err
	}

	before := s.ctrl.Status()
	for _, sym := range syms {
		row, col, ok := s.locate(sym)
		if !ok {
			return fmt.Errorf("no key for %q", credential.SymbolChar(sym))
		}
		s.keys.Press(row, col)
		s.ctrl.RunCycle()
		s.keys.Release()
		s.ctrl.RunCycle()
	}
	s.report(before, s.ctrl.Status())
	return nil
}

func (s *simulator) locate(sym credential.Symbol) (row, col int, ok bool) {
	for r, keys := range s.keyTable {
		for c, k := range keys {
			if k == sym {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// report summarizes what happened between two status snapshots
func (s *simulator) report(before, after controller.Status) {
	accepted := after.Accepted - before.Accepted
	rejected := after.Rejected - before.Rejected

	if accepted > 0 {
		s.p.Success("access granted (%d)\n", accepted)
	}
	if rejected > 0 {
		s.p.Warning("access denied (%d), %d consecutive failures\n", rejected, after.ErrorTally)
	}
	if accepted == 0 && rejected == 0 {
		s.p.Info("no attempt evaluated\n")
	}

	if after.Lockdown != before.Lockdown {
		if after.Lockdown {
			s.p.Warning("lockdown engaged\n")
		} else {
			s.p.Success("lockdown released\n")
		}
	}
}

func (s *simulator) status() {
	st := s.ctrl.Status()
	s.p.Info("state:      %s\n", st.State)
	s.p.Info("candidate:  %s\n", st.Candidate)
	s.p.Info("outcome:    %t\n", st.LastOutcome)
	s.p.Info("tally:      %d\n", st.ErrorTally)
	s.p.Info("lockdown:   %t\n", st.Lockdown)
	s.p.Info("attempts:   %d (accepted %d, rejected %d)\n", st.Attempts, st.Accepted, st.Rejected)
	if st.WireEnabled {
		s.p.Info("wire:       cursor %d, received %d, framing %d, overrun %d, acks dropped %d\n",
			st.WireCursor, st.Wire.Received, st.Wire.FramingErrors, st.Wire.Overruns, st.Wire.AcksDropped)
	}
	if s.keys != nil {
		s.p.Info("keypad:     next slot %d\n", st.KeyPosition)
	}
}

func (s *simulator) events() {
	events := core.Events()
	if len(events) == 0 {
		s.p.Info("no events recorded\n")
		return
	}
	for _, evt := range events {
		s.p.Info("%10d  %-13s %-18s v1=%d v2=%d\n",
			evt.Clock, core.EventName(evt.Kind), controller.State(evt.State), evt.Value1, evt.Value2)
	}
}

// parseSymbols accepts digits and the keypad's '*' and '#'
func parseSymbols(text string) ([]credential.Symbol, error) {
	syms := make([]credential.Symbol, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= '0' && c <= '9':
			syms = append(syms, credential.Symbol(c-'0'))
		case c == '*':
			syms = append(syms, credential.SymbolStar)
		case c == '#':
			syms = append(syms, credential.SymbolHash)
		default:
			return nil, fmt.Errorf("invalid symbol %q", c)
		}
	}
	return syms, nil
}
