package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlock/config"
	"smartlock/core"
	"smartlock/credential"
	"smartlock/host/printer"
)

// runRoot executes the root command with args and stdin, returning stdout and stderr
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// nil would make cobra fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		configFile, simConfigFile, sendDevice = "", "", ""
		simRealtime, verbose = false, false
	})

	err := Execute()
	return out.String(), errOut.String(), err
}

func newTestSimulator(t *testing.T, cfg *config.Config) (*simulator, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	out := new(bytes.Buffer)
	s, err := newSimulator(cfg, printer.New(out, out), logging.NewDefaultLoggerFactory())
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s, out
}

func TestRootShowsHelp(t *testing.T) {
	out, _, err := runRoot(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "simulate")
	assert.Contains(t, out, "send")
}

func TestConfigPrintsDefaults(t *testing.T) {
	out, _, err := runRoot(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[credential]")
	assert.Contains(t, out, "[actuator]")

	cfg, err := config.Load([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[credential]\nsource = \"nfc\"\n"), 0o644))

	_, errOut, err := runRoot(t, "", "config", "--file", path)
	require.Error(t, err)
	assert.Contains(t, errOut, "Invalid configuration")
}

func TestSendRejectsBadCredential(t *testing.T) {
	_, errOut, err := runRoot(t, "", "send", "--device", "/dev/null", "12a4")
	require.Error(t, err)
	assert.Contains(t, errOut, "Invalid credential")
}

func TestSendRequiresDevice(t *testing.T) {
	_, errOut, err := runRoot(t, "", "send", "1234")
	require.Error(t, err)
	assert.Contains(t, errOut, "No device given")
}

func TestSendMissingPort(t *testing.T) {
	_, errOut, err := runRoot(t, "", "send", "--device", "/nonexistent/tty-lock", "1234")
	require.Error(t, err)
	assert.Contains(t, errOut, "Cannot open serial port")
}

func TestSimulateSession(t *testing.T) {
	out, _, err := runRoot(t, "wire 1234\ncycle\nstatus\nquit\n", "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Simulated lock ready (input: wireless)")
	assert.Contains(t, out, "sent 4 bytes, 4 acknowledged, cursor at 0")
	assert.Contains(t, out, "access granted (1)")
	assert.Contains(t, out, "candidate:  1234")
}

func TestSimulateUnknownCommandContinues(t *testing.T) {
	out, _, err := runRoot(t, "bogus\nstatus\n", "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "state:      AwaitingCredential")
}

func TestSimulatorWrongCredential(t *testing.T) {
	s, out := newTestSimulator(t, config.Default())

	_, err := s.exec("wire 1294")
	require.NoError(t, err)
	_, err = s.exec("cycle 3")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "access denied (3), 3 consecutive failures")
	assert.Equal(t, uint8(3), s.ctrl.Status().ErrorTally)
}

func TestSimulatorLockout(t *testing.T) {
	cfg := config.Default()
	cfg.Lockout.Enabled = true
	cfg.Lockout.Threshold = 2
	s, out := newTestSimulator(t, cfg)

	s.exec("wire 0000")
	s.exec("cycle 2")
	assert.Contains(t, out.String(), "lockdown engaged")

	s.exec("wire 1234")
	s.exec("cycle")
	assert.Contains(t, out.String(), "lockdown released")
	assert.False(t, s.ctrl.Status().Lockdown)
}

func TestSimulatorKeypad(t *testing.T) {
	cfg := config.Default()
	cfg.Credential.Source = config.SourceKeypad
	cfg.Credential.RequireCompleteEntry = true
	s, out := newTestSimulator(t, cfg)

	_, err := s.exec("key 1234")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "access granted (1)")
	assert.Equal(t, credential.Credential{1, 2, 3, 4}, s.ctrl.Status().Candidate)

	// Wireless path is not serviced in keypad mode
	_, err = s.exec("wire 1234")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "wireless input is disabled")
}

func TestSimulatorKeyWithoutKeypad(t *testing.T) {
	s, _ := newTestSimulator(t, config.Default())
	_, err := s.exec("key 1234")
	assert.Error(t, err)
}

func TestSimulatorEvents(t *testing.T) {
	s, out := newTestSimulator(t, config.Default())

	s.exec("events")
	assert.Contains(t, out.String(), "no events recorded")

	s.exec("wire 1234")
	s.exec("cycle")
	s.exec("events")
	assert.Contains(t, out.String(), "ACCEPTED")
	assert.Contains(t, out.String(), "LATCH")
	assert.NotEmpty(t, core.Events())
}

func TestSimulatorBadInput(t *testing.T) {
	s, _ := newTestSimulator(t, config.Default())

	for _, line := range []string{"wire", "wire 12x4", "cycle zero", "cycle 0", "key"} {
		_, err := s.exec(line)
		assert.Error(t, err, line)
	}

	quit, err := s.exec("quit")
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = s.exec("   ")
	require.NoError(t, err)
	assert.False(t, quit)
}

func TestParseSymbols(t *testing.T) {
	syms, err := parseSymbols("09*#")
	require.NoError(t, err)
	assert.Equal(t, []credential.Symbol{0, 9, credential.SymbolStar, credential.SymbolHash}, syms)
}
