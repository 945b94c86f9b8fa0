package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dmitrijs2005/recoverydesk/internal/client/api"
	"github.com/dmitrijs2005/recoverydesk/internal/client/view"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errUsage makes the REPL print the command's usage line.
var errUsage = errors.New("usage")

// command is one REPL verb.
type command struct {
	name  string
	args  string
	help  string
	auth  bool // requires a session
	admin bool // implies auth
	run   func(ctx context.Context, args []string) error
}

func (c command) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	commands() []command
}

// visible reports whether c can be used in the current session state.
func visible(a execIface, c command) bool {
	switch {
	case c.admin:
		return a.isLoggedIn() && a.isAdmin()
	case c.auth:
		return a.isLoggedIn()
	default:
		return true
	}
}

func lookup(a execIface, name string) (command, bool) {
	for _, c := range a.commands() {
		if c.name == name && visible(a, c) {
			return c, true
		}
	}
	return command{}, false
}

// helpText lists the commands available right now. Admin-only commands are
// absent for other roles.
func helpText(a execIface) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range a.commands() {
		if visible(a, c) {
			fmt.Fprintf(&b, "  %-34s %s\n", c.usage(), c.help)
		}
	}
	b.WriteString("  exit | quit")
	return b.String()
}

// runREPL starts a read–eval–print loop.
//
// It reads a line from reader, parses the first token as the
// command and runs it with the remaining tokens as arguments. Commands read
// their own prompts from the same reader. Unknown or hidden commands are
// reported back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Each command runs in a fresh view.Scope. A value received on interrupts
// while a command runs cancels that scope; the loop itself keeps going.
// Command errors are printed as user-facing messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, interrupts <-chan os.Signal) {
	for {
		printlnFn(fmt.Sprintf("rd %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(a))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := lookup(a, name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}

		err = runCommand(ctx, cmd, args, interrupts)
		switch {
		case err == nil:
		case errors.Is(err, errUsage):
			printlnFn("Usage:", cmd.usage())
		case errors.Is(err, api.ErrUnauthorized):
			printlnFn("Error:", api.UserMessage(err))
			printlnFn("Session ended, please log in again.")
		default:
			printlnFn("Error:", api.UserMessage(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// runCommand runs cmd in its own scope, cancelling it on interrupt.
func runCommand(ctx context.Context, cmd command, args []string, interrupts <-chan os.Signal) error {
	drain(interrupts)

	scope := view.NewScope(ctx)
	defer scope.Close()

	result := make(chan error, 1)
	err := scope.Go(func(ctx context.Context) error {
		return cmd.run(ctx, args)
	}, func(err error) { result <- err })
	if err != nil {
		return err
	}

	for {
		select {
		case err := <-result:
			return err
		case <-interrupts:
			scope.Cancel()
		}
	}
}

// drain discards interrupts received while no command was running.
func drain(ch <-chan os.Signal) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// Root runs the REPL on stdin with Ctrl-C bound to command cancellation.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to the recovery desk CLI (type 'help' for commands)")

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	if !a.isLoggedIn() {
		if err := runCommand(ctx, command{run: a.login}, nil, interrupts); err != nil {
			printlnFn("Error:", api.UserMessage(err))
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader, interrupts)
}
