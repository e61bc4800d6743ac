package controller

import (
	"context"
	"errors"
	"testing"

	"smartlock/config"
	"smartlock/core"
	"smartlock/credential"
	"smartlock/host/sim"
)

var (
	latchPin  = core.MustParsePin("A12")
	motorFwd  = core.MustParsePin("B0")
	motorRev  = core.MustParsePin("B1")
	acceptLED = core.MustParsePin("A1")
	rejectLED = core.MustParsePin("A2")
)

func newController(t *testing.T, mutate func(*config.Config)) (*Controller, *sim.Board) {
	t.Helper()
	core.SetTime(0)
	core.ClearEventRing()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	board := sim.NewBoard()
	c, err := New(cfg, Hardware{
		GPIO:   board.GPIO,
		PWM:    board.PWM,
		Serial: board.Serial,
		Delay:  board.Delay,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	board.GPIO.ClearHistory()
	board.PWM.ClearHistory()
	return c, board
}

func withLockout(threshold int) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.Lockout.Enabled = true
		cfg.Lockout.Threshold = threshold
	}
}

func pulses(board *sim.Board, pin core.GPIOPin) int {
	return len(board.GPIO.History(pin)) / 2
}

func countEvents(kind uint8) int {
	n := 0
	for _, evt := range core.Events() {
		if evt.Kind == kind {
			n++
		}
	}
	return n
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		AwaitingCredential: "AwaitingCredential",
		CredentialAccepted: "CredentialAccepted",
		CredentialRejected: "CredentialRejected",
		LatchRelease:       "LatchRelease",
		LockdownEngage:     "LockdownEngage",
		LockdownRelease:    "LockdownRelease",
		State(42):          "Unknown",
	}
	for state, want := range tests {
		if state.String() != want {
			t.Errorf("Expected %s, got %s", want, state.String())
		}
	}
}

func TestNewMissingHardware(t *testing.T) {
	board := sim.NewBoard()
	_, err := New(config.Default(), Hardware{GPIO: board.GPIO, PWM: board.PWM, Delay: board.Delay})
	if !errors.Is(err, ErrMissingHardware) {
		t.Errorf("Expected ErrMissingHardware, got %v", err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	board := sim.NewBoard()
	cfg := config.Default()
	cfg.Credential.Stored = []int{1, 2}
	_, err := New(cfg, Hardware{GPIO: board.GPIO, PWM: board.PWM, Serial: board.Serial, Delay: board.Delay})
	if !errors.Is(err, credential.ErrInvalidCredential) {
		t.Errorf("Expected ErrInvalidCredential, got %v", err)
	}
}

func TestInitialState(t *testing.T) {
	c, board := newController(t, nil)

	if c.State() != AwaitingCredential {
		t.Errorf("Expected AwaitingCredential, got %s", c.State())
	}
	if !board.GPIO.Level(latchPin) {
		t.Error("Expected active-low latch output idle high")
	}
	if board.PWM.Enabled() {
		t.Error("Expected tone off after Init")
	}
}

func TestWirelessCorrectCredential(t *testing.T) {
	c, board := newController(t, nil)

	board.Serial.InjectBytes([]byte{1, 2, 3, 4})

	st := c.Status()
	if st.WireCursor != 0 {
		t.Errorf("Expected cursor back at 0, got %d", st.WireCursor)
	}
	if st.Candidate != (credential.Credential{1, 2, 3, 4}) {
		t.Errorf("Expected candidate 1234, got %v", st.Candidate)
	}
	if sent := board.Serial.Sent(); len(sent) != 4 || sent[0] != credential.DefaultAckByte {
		t.Errorf("Expected 4 acks, got %v", sent)
	}

	c.RunCycle()

	st = c.Status()
	if !st.LastOutcome {
		t.Error("Expected outcome true")
	}
	if st.State != AwaitingCredential {
		t.Errorf("Expected AwaitingCredential after the cycle, got %s", st.State)
	}
	if st.Accepted != 1 || st.Rejected != 0 {
		t.Errorf("Expected 1 accepted 0 rejected, got %d/%d", st.Accepted, st.Rejected)
	}
	if pulses(board, latchPin) != 1 {
		t.Errorf("Expected one latch pulse, got %d", pulses(board, latchPin))
	}
	history := board.GPIO.History(latchPin)
	if width := history[1].Clock - history[0].Clock; width != core.TimerFromMS(config.DefaultLatchPulseMS) {
		t.Errorf("Expected latch pulse %d ticks, got %d", core.TimerFromMS(config.DefaultLatchPulseMS), width)
	}
	if pulses(board, acceptLED) != config.DefaultBlinks {
		t.Errorf("Expected %d accept blinks, got %d", config.DefaultBlinks, pulses(board, acceptLED))
	}
	if pulses(board, rejectLED) != 0 {
		t.Error("Expected no reject blinks")
	}
}

func TestStepSequenceOnSuccess(t *testing.T) {
	c, board := newController(t, nil)
	board.Serial.InjectBytes([]byte{1, 2, 3, 4})

	want := []State{CredentialAccepted, LatchRelease, AwaitingCredential}
	for i, w := range want {
		if got := c.Step(); got != w {
			t.Fatalf("Step %d: expected %s, got %s", i, w, got)
		}
	}
}

func TestWrongCredential(t *testing.T) {
	c, board := newController(t, nil)

	board.Serial.InjectBytes([]byte{1, 2, 9, 4})
	c.RunCycle()

	st := c.Status()
	if st.LastOutcome {
		t.Error("Expected outcome false")
	}
	if st.ErrorTally != 1 {
		t.Errorf("Expected tally 1, got %d", st.ErrorTally)
	}
	if pulses(board, latchPin) != 0 {
		t.Error("Expected no latch pulse")
	}
	if pulses(board, rejectLED) != config.DefaultBlinks {
		t.Errorf("Expected %d reject blinks, got %d", config.DefaultBlinks, pulses(board, rejectLED))
	}
	if board.PWM.PeriodUS() != config.DefaultRejectPeriodUS {
		t.Errorf("Expected reject pitch %d, got %d", config.DefaultRejectPeriodUS, board.PWM.PeriodUS())
	}
}

func TestThreeFailuresCountTally(t *testing.T) {
	c, board := newController(t, nil)
	board.Serial.InjectBytes([]byte{9, 9, 9, 9})

	for i := 0; i < 3; i++ {
		c.RunCycle()
	}

	st := c.Status()
	if st.ErrorTally != 3 {
		t.Errorf("Expected tally 3, got %d", st.ErrorTally)
	}
	if st.Lockdown {
		t.Error("Expected no lockdown with the lockout policy off")
	}
	if pulses(board, motorFwd) != 0 {
		t.Error("Expected motor idle with the lockout policy off")
	}
}

func TestSuccessResetsTally(t *testing.T) {
	c, board := newController(t, nil)
	board.Serial.InjectBytes([]byte{9, 9, 9, 9})
	c.RunCycle()
	c.RunCycle()

	board.Serial.InjectBytes([]byte{1, 2, 3, 4})
	c.RunCycle()

	if c.Status().ErrorTally != 0 {
		t.Errorf("Expected tally reset, got %d", c.Status().ErrorTally)
	}
}

func TestTallySaturates(t *testing.T) {
	c, _ := newController(t, nil)
	c.fsm.ErrorTally = 255

	c.RunCycle()

	if c.Status().ErrorTally != 255 {
		t.Errorf("Expected tally to stay at 255, got %d", c.Status().ErrorTally)
	}
}

func TestContinuousEvaluation(t *testing.T) {
	c, _ := newController(t, nil)

	// Empty buffer is evaluated every cycle
	c.RunCycle()
	c.RunCycle()
	if c.Status().Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", c.Status().Attempts)
	}
}

func TestLockoutEngagesAtThreshold(t *testing.T) {
	c, board := newController(t, withLockout(3))
	board.Serial.InjectBytes([]byte{9, 9, 9, 9})

	c.RunCycle()
	c.RunCycle()
	if c.Status().Lockdown {
		t.Fatal("Expected no lockdown below threshold")
	}

	want := []State{CredentialRejected, LockdownEngage, AwaitingCredential}
	for i, w := range want {
		if got := c.Step(); got != w {
			t.Fatalf("Step %d: expected %s, got %s", i, w, got)
		}
	}
	if !c.Status().Lockdown {
		t.Error("Expected lockdown engaged at threshold")
	}
	if pulses(board, motorFwd) != 1 {
		t.Errorf("Expected one forward pulse, got %d", pulses(board, motorFwd))
	}

	// Further failures request an engage that is already in place
	c.RunCycle()
	if pulses(board, motorFwd) != 1 {
		t.Errorf("Expected no second forward pulse, got %d", pulses(board, motorFwd))
	}
	if countEvents(core.EvtLockdownNoop) != 1 {
		t.Errorf("Expected one no-op event, got %d", countEvents(core.EvtLockdownNoop))
	}
	if !c.Status().Lockdown {
		t.Error("Expected lockdown to stay engaged")
	}
}

func TestSuccessAfterLockdownReleases(t *testing.T) {
	c, board := newController(t, withLockout(1))
	board.Serial.InjectBytes([]byte{9, 9, 9, 9})
	c.RunCycle()
	if !c.Status().Lockdown {
		t.Fatal("Expected lockdown after one failure at threshold 1")
	}

	board.Serial.InjectBytes([]byte{1, 2, 3, 4})
	want := []State{CredentialAccepted, LockdownRelease, CredentialAccepted, LatchRelease, AwaitingCredential}
	for i, w := range want {
		if got := c.Step(); got != w {
			t.Fatalf("Step %d: expected %s, got %s", i, w, got)
		}
	}

	st := c.Status()
	if st.Lockdown {
		t.Error("Expected lockdown released")
	}
	if st.ErrorTally != 0 {
		t.Errorf("Expected tally reset, got %d", st.ErrorTally)
	}
	if pulses(board, motorRev) != 1 {
		t.Errorf("Expected one reverse pulse, got %d", pulses(board, motorRev))
	}
	if pulses(board, latchPin) != 1 {
		t.Errorf("Expected one latch pulse, got %d", pulses(board, latchPin))
	}
	// Accept feedback plays on both passes through CredentialAccepted
	if st.Accepted != 2 {
		t.Errorf("Expected 2 accepts, got %d", st.Accepted)
	}
}

func TestLatchReleaseDisengagesLockdown(t *testing.T) {
	c, board := newController(t, nil)
	if err := c.actuator.EngageLockdown(); err != nil {
		t.Fatalf("Engage failed: %v", err)
	}

	board.Serial.InjectBytes([]byte{1, 2, 3, 4})
	c.RunCycle()

	if c.Status().Lockdown {
		t.Error("Expected latch release to disengage the lockdown")
	}
	if pulses(board, latchPin) != 1 || pulses(board, motorRev) != 1 {
		t.Errorf("Expected one latch and one reverse pulse, got %d/%d",
			pulses(board, latchPin), pulses(board, motorRev))
	}
}

func TestRequireCompleteEntry(t *testing.T) {
	c, board := newController(t, func(cfg *config.Config) {
		cfg.Credential.RequireCompleteEntry = true
	})

	board.Serial.InjectBytes([]byte{1, 2})
	if got := c.Step(); got != AwaitingCredential {
		t.Fatalf("Expected to keep waiting on a partial entry, got %s", got)
	}
	if c.Status().Attempts != 0 {
		t.Errorf("Expected no attempt on a partial entry, got %d", c.Status().Attempts)
	}

	board.Serial.InjectBytes([]byte{3, 4})
	c.RunCycle()
	if c.Status().Accepted != 1 {
		t.Errorf("Expected the complete entry accepted, got %d", c.Status().Accepted)
	}

	// Entry was consumed
	c.RunCycle()
	if c.Status().Attempts != 1 {
		t.Errorf("Expected the consumed entry not to be re-evaluated, got %d attempts", c.Status().Attempts)
	}
}

func TestKeypadSource(t *testing.T) {
	c, board := newController(t, func(cfg *config.Config) {
		cfg.Credential.Source = config.SourceKeypad
		cfg.Credential.RequireCompleteEntry = true
	})
	cfg := config.Default()
	rows, _ := config.ParsePins(cfg.Keypad.Rows)
	cols, _ := config.ParsePins(cfg.Keypad.Columns)
	keys := sim.NewKeyMatrix(board.GPIO, rows, cols, cfg.Keypad.ActiveHigh)

	// Wireless bytes are ignored when only the keypad is enabled
	board.Serial.InjectBytes([]byte{1, 2, 3, 4})
	if board.Serial.Pending() != 4 || len(board.Serial.Sent()) != 0 {
		t.Error("Expected the wireless link to stay unserviced")
	}

	// Keys 1, 2, 3 then 4 at (1,0)
	for _, rc := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}} {
		keys.Press(rc[0], rc[1])
		c.RunCycle()
		c.RunCycle() // held: not registered again
		keys.Release()
		c.RunCycle()
	}

	st := c.Status()
	if st.Accepted != 1 {
		t.Errorf("Expected keypad entry accepted once, got %d", st.Accepted)
	}
	if st.Rejected != 0 {
		t.Errorf("Expected no rejections, got %d", st.Rejected)
	}
	if st.WireEnabled {
		t.Error("Expected wireless status disabled")
	}
	if countEvents(core.EvtKeyPress) != 4 {
		t.Errorf("Expected 4 key press events, got %d", countEvents(core.EvtKeyPress))
	}
}

func TestWireErrorEvent(t *testing.T) {
	c, board := newController(t, nil)

	board.Serial.Inject(5, core.RxFramingError)
	board.Serial.Inject(6, core.RxOverrun)
	c.RunCycle()

	var found bool
	for _, evt := range core.Events() {
		if evt.Kind == core.EvtWireError {
			found = true
			if evt.Value1 != 2 {
				t.Errorf("Expected 2 line errors, got %d", evt.Value1)
			}
		}
	}
	if !found {
		t.Error("Expected a wire error event")
	}

	// Already reported
	c.RunCycle()
	if countEvents(core.EvtWireError) != 1 {
		t.Errorf("Expected one wire error event, got %d", countEvents(core.EvtWireError))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	core.SetTime(0)
	core.ClearEventRing()
	board := sim.NewBoard()

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	c, err := New(config.Default(), Hardware{
		GPIO:   board.GPIO,
		PWM:    board.PWM,
		Serial: board.Serial,
		Delay:  board.Delay,
		Tick: func() {
			ticks++
			if ticks == 5 {
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	c.Run(ctx)

	if ticks != 5 {
		t.Errorf("Expected 5 iterations, got %d", ticks)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	core.SetTime(0)
	core.ClearEventRing()
	board := sim.NewBoard()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks := 0
	c, err := New(config.Default(), Hardware{
		GPIO:   board.GPIO,
		PWM:    board.PWM,
		Serial: board.Serial,
		Delay:  board.Delay,
		Tick: func() {
			ticks++
			switch ticks {
			case 1:
				panic("boom")
			case 3:
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	c.Run(ctx)

	if countEvents(core.EvtPanic) != 1 {
		t.Errorf("Expected one panic event, got %d", countEvents(core.EvtPanic))
	}
	if ticks != 3 {
		t.Errorf("Expected the loop to continue after the panic, got %d iterations", ticks)
	}
}
