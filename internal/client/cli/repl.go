package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
)

// printlnFn and printFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is the command surface the REPL drives. *App satisfies it;
// tests use a stub.
type execIface interface {
	status() session.Status
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Check(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context, tokenOrLink string) error
	DeleteAccount(ctx context.Context) error
	Open(path string)
	Status()
}

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. Handlers report their own failures, so their errors are dropped
// here.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printFn(promptFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText(a.status()))

		case "status":
			a.Status()

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			a.Open(args[0])

		case "signup", "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "check":
			_ = a.Check(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "reset":
			if len(args) == 0 {
				printlnFn("Usage: reset <token|link>")
				continue
			}
			_ = a.Reset(ctx, args[0])

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func helpText(s session.Status) string {
	var cmds string
	switch s {
	case session.Authenticated:
		cmds = "status, open <path>, whoami, check, logout, delete-account, reset <token|link>, exit"
	case session.Checking:
		cmds = "status, open <path>, check, exit"
	default:
		cmds = "status, open <path>, signup, login, forgot, reset <token|link>, check, exit"
	}

	views := append([]string{router.PathLanding, router.PathLogin, router.PathSignUp, router.PathForgotPassword}, router.ProtectedPaths...)
	return "Available commands: " + cmds + "\nViews: " + strings.Join(views, " ")
}
