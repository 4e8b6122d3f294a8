package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Check(ctx context.Context) error
	Can(perm string) error
	Open(ctx context.Context, path string) error
	Dashboard() error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Always:
//	  - help             show available commands
//	  - whoami           show the current identity
//	  - check            re-verify the session with the server
//	  - open <path>      navigate, subject to the route gate
//	  - exit | quit      leave the program
//
//	Signed out:
//	  - login            sign in
//
//	Signed in:
//	  - can <perm>       test a permission
//	  - dashboard        go to the role's dashboard
//	  - logout           sign out
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, check, can <perm>, open <path>, dashboard, logout, exit")
			} else {
				printlnFn("Available commands: login, whoami, check, open <path>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "check":
			_ = a.Check(ctx)

		case "can":
			if len(args) != 1 {
				printlnFn("Usage: can <permission>")
				continue
			}
			_ = a.Can(args[0])

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "dashboard":
			_ = a.Dashboard()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
