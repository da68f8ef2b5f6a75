package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
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
	List(ctx context.Context, page int) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Search(ctx context.Context, term string) error
	ClearSearch(ctx context.Context) error
	Edit(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	Refresh(ctx context.Context) error
}

const (
	helpGuest    = "Available commands: login, help, exit"
	helpLoggedIn = "Available commands: (l)ist [page], next, prev, search <term>, clear, edit <id>, delete <id>, refresh, logout, help, exit"
)

// runREPL starts the read-eval-print loop of the userdesk CLI.
//
// The first token of each line is the command, the rest are its arguments:
//
//	Not logged in:
//	  - help            show available commands
//	  - login           authenticate
//	  - exit | quit     leave the program
//
//	Logged in:
//	  - list | l [page] show a page (the current one by default)
//	  - next / prev     move one page
//	  - search <term>   search the whole directory
//	  - clear           leave search and return to the last page
//	  - edit <id>       edit a user of the current view
//	  - delete <id>     delete a user
//	  - refresh         fetch the current view again
//	  - logout          end the session and forget local changes
//
// Errors of command handlers are printed and the loop goes on. The loop ends
// on EOF or on "exit" / "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ud %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpGuest)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "login":
			report(a.Login(ctx))
			continue
		}

		if !a.isLoggedIn() {
			if isUserCommand(cmd) {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "l", "list":
			page := 0
			if len(args) > 0 {
				n, ok := parseNumber(args[0])
				if !ok {
					printlnFn("Usage: list [page]")
					continue
				}
				page = n
			}
			report(a.List(ctx, page))

		case "next":
			report(a.Next(ctx))

		case "prev":
			report(a.Prev(ctx))

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <term>")
				continue
			}
			report(a.Search(ctx, strings.Join(args, " ")))

		case "clear":
			report(a.ClearSearch(ctx))

		case "edit", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			id, ok := parseNumber(args[0])
			if !ok {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			if cmd == "edit" {
				report(a.Edit(ctx, id))
			} else {
				report(a.Delete(ctx, id))
			}

		case "refresh":
			report(a.Refresh(ctx))

		case "logout":
			report(a.Logout(ctx))

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isUserCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "next", "prev", "search", "clear", "edit", "delete", "refresh", "logout":
		return true
	}
	return false
}

func parseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
