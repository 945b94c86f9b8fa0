package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  [][]string
	cmds  []command
}

func (f *fakeExec) isLoggedIn() bool    { return f.loggedIn }
func (f *fakeExec) isAdmin() bool       { return f.admin }
func (f *fakeExec) commands() []command { return f.cmds }

func (f *fakeExec) record(name string, err error) func(context.Context, []string) error {
	return func(_ context.Context, args []string) error {
		f.calls = append(f.calls, name)
		f.args = append(f.args, args)
		return err
	}
}

func newFakeExec() *fakeExec {
	f := &fakeExec{}
	f.cmds = []command{
		{name: "login", run: func(context.Context, []string) error {
			f.calls = append(f.calls, "login")
			f.loggedIn = true
			return nil
		}},
		{name: "vehicles", args: "[status]", auth: true, run: f.record("vehicles", nil)},
		{name: "vehicle", args: "<id>", auth: true, run: f.record("vehicle", errUsage)},
		{name: "broken", auth: true, run: f.record("broken", &api.Error{StatusCode: 400, Message: "Veículo com esta matrícula já existe"})},
		{name: "expired", auth: true, run: f.record("expired", &api.Error{StatusCode: 401, Message: "Token has expired"})},
		{name: "users", admin: true, run: f.record("users", nil)},
	}
	return f
}

// capture replaces printlnFn and returns the collected output.
func capture(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&out, a...) }
	t.Cleanup(func() { printlnFn = origPrint })
	return &out
}

func run(f *fakeExec, input string) {
	runREPL(context.Background(), f, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)), nil)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capture(t)

	f := newFakeExec()
	run(f, strings.Join([]string{
		"vehicles",
		"login",
		"vehicles em_tratamento",
		"",
		"foobar",
		"exit",
		"vehicles",
	}, "\n"))

	assert.Equal(t, []string{"login", "vehicles"}, f.calls)
	assert.Equal(t, []string{"em_tratamento"}, f.args[0])
	assert.Contains(t, out.String(), "Unknown command: vehicles")
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_HelpHidesAdminCommands(t *testing.T) {
	tests := []struct {
		name          string
		loggedIn      bool
		admin         bool
		wantVisible   []string
		wantInvisible []string
	}{
		{name: "logged out", wantVisible: []string{"login"}, wantInvisible: []string{"vehicles", "users"}},
		{name: "operator", loggedIn: true, wantVisible: []string{"login", "vehicles [status]"}, wantInvisible: []string{"users"}},
		{name: "admin", loggedIn: true, admin: true, wantVisible: []string{"vehicles [status]", "users"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeExec()
			f.loggedIn, f.admin = tt.loggedIn, tt.admin

			help := helpText(f)
			for _, c := range tt.wantVisible {
				assert.Contains(t, help, "  "+c)
			}
			for _, c := range tt.wantInvisible {
				assert.NotContains(t, help, "  "+c+" ")
			}
		})
	}
}

func TestRunREPL_HiddenCommandIsUnknown(t *testing.T) {
	out := capture(t)

	f := newFakeExec()
	f.loggedIn = true
	run(f, "users\nquit\n")

	assert.Empty(t, f.calls)
	assert.Contains(t, out.String(), "Unknown command: users")
}

func TestRunREPL_Errors(t *testing.T) {
	out := capture(t)

	f := newFakeExec()
	f.loggedIn = true
	run(f, "vehicle\nbroken\nexpired\n")

	assert.Equal(t, []string{"vehicle", "broken", "expired"}, f.calls)
	text := out.String()
	assert.Contains(t, text, "Usage: vehicle <id>")
	assert.Contains(t, text, "Error: Veículo com esta matrícula já existe")
	assert.Contains(t, text, "Error: Token has expired")
	assert.Contains(t, text, "Session ended, please log in again.")
}

func TestRunREPL_InterruptCancelsCommand(t *testing.T) {
	out := capture(t)

	started := make(chan struct{})
	interrupts := make(chan os.Signal, 1)
	var after []string

	f := &fakeExec{loggedIn: true}
	f.cmds = []command{
		{name: "slow", auth: true, run: func(ctx context.Context, _ []string) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}},
		{name: "next", auth: true, run: func(ctx context.Context, _ []string) error {
			after = append(after, "next")
			return ctx.Err()
		}},
	}

	go func() {
		<-started
		interrupts <- os.Interrupt
	}()

	runREPL(context.Background(), f, func() string { return "s" },
		bufio.NewReader(strings.NewReader("slow\nnext\nexit\n")), interrupts)

	require.Equal(t, []string{"next"}, after, "the loop must survive the interrupt")
	assert.Contains(t, out.String(), "Error: cancelled")
	assert.Contains(t, out.String(), "Bye!")
}

func TestDrainDiscardsStaleInterrupts(t *testing.T) {
	ch := make(chan os.Signal, 1)
	ch <- os.Interrupt
	drain(ch)
	assert.Empty(t, ch)
	drain(nil)
}
