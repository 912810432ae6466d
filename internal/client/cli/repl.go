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
	Accounts(ctx context.Context) error
	Switch(ctx context.Context, args []string) error
	Forget(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Rooms(ctx context.Context, args []string) error
	More(ctx context.Context, args []string) error
	Operation(ctx context.Context, cmd string, args []string) error
}

// runREPL starts a simple read–eval–print loop for the Talk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// The loop exits on scanner EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Always:
//	  - help                   show available commands
//	  - login                  add an account and make it current
//	  - accounts               list stored accounts
//	  - switch <id>            act as another stored account
//	  - forget <id>            drop an account scheduled for deletion now
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - (r)ooms [filter]       list rooms, highlighting the filter
//	  - more <row>             open the operation menu of a row
//	  - join, leave, rename <name>, public, private, password, delete
//	                           run an operation on the room picked with more
//	  - profile                refresh display name from the server
//	  - logout                 sign out of the current account
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("talk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (r)ooms, more, join, leave, rename, public, private, password, delete, profile, accounts, switch, forget, login, logout, exit")
			} else {
				printlnFn("Available commands: login, accounts, switch, forget, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "accounts":
			_ = a.Accounts(ctx)

		case "switch":
			_ = a.Switch(ctx, args)

		case "forget":
			_ = a.Forget(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.isLoggedIn() {
				printlnFn("Not logged in. Type 'login' or 'help'.")
				continue
			}
			switch cmd {
			case "r", "rooms":
				_ = a.Rooms(ctx, args)
			case "more":
				_ = a.More(ctx, args)
			case "profile":
				_ = a.Profile(ctx)
			case "logout":
				_ = a.Logout(ctx)
			default:
				if _, ok := operationCommands[cmd]; ok {
					_ = a.Operation(ctx, cmd, args)
					continue
				}
				printlnFn("Unknown command:", cmd)
			}
		}
	}
}
