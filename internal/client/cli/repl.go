package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error

	Post(ctx context.Context, args []string) error
	Recent(ctx context.Context, args []string) error
	Featured(ctx context.Context, args []string) error
	Trending(ctx context.Context, args []string) error
	Clap(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error

	Drafts(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Form(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Admins(ctx context.Context, args []string) error

	Retry(ctx context.Context, args []string) error
}

const (
	helpPublic = "Available commands: recent, featured, trending, post <id>, retry, register, login, exit"
	helpMember = "Available commands: recent, featured, trending, post <id>, clap <id>, comment <id>,\n" +
		"  drafts [all|mine|shared] [text], new, edit <id>, form, save, publish, delete <id>,\n" +
		"  share <id> <admin>..., admins, retry, whoami, logout, exit"
)

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
// The first token selects the command and the rest are passed as arguments.
// Public reads work signed out; everything else asks the user to log in.
// Handler errors are reported by the handlers themselves and ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	public := map[string]command{
		"register": a.Register,
		"login":    a.Login,
		"post":     a.Post,
		"recent":   a.Recent,
		"featured": a.Featured,
		"trending": a.Trending,
		"retry":    a.Retry,
	}
	member := map[string]command{
		"logout":  a.Logout,
		"whoami":  a.Whoami,
		"clap":    a.Clap,
		"comment": a.Comment,
		"drafts":  a.Drafts,
		"new":     a.New,
		"edit":    a.Edit,
		"form":    a.Form,
		"save":    a.Save,
		"publish": a.Publish,
		"delete":  a.Delete,
		"share":   a.Share,
		"admins":  a.Admins,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("blog> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpPublic)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if run, ok := public[cmd]; ok {
			_ = run(ctx, args)
			continue
		}
		if run, ok := member[cmd]; ok {
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			_ = run(ctx, args)
			continue
		}
		printlnFn("Unknown command:", cmd)
	}
}
