package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

type App struct {
	authService services.AuthService
	userService services.UserService
	log         logging.Logger

	reader *bufio.Reader
	out    io.Writer

	loggedIn bool
	userName string
	// last is the most recently rendered view; edit reads current values
	// from it.
	last *services.View
}

func NewApp(auth services.AuthService, users services.UserService, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		authService: auth,
		userService: users,
		log:         log,
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

// Run restores a stored session, prompts for login when there is none and
// then serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	printlnFn("Welcome to userdesk (type 'help' for commands)")

	ok, err := a.authService.IsLoggedIn(ctx)
	if err != nil {
		a.log.Warn(ctx, "session lookup failed", "error", err)
	}
	a.loggedIn = ok

	if a.loggedIn {
		if err := a.List(ctx, 1); err != nil {
			printlnFn("Error:", err)
		}
	} else if err := a.Login(ctx); err != nil {
		printlnFn("Error:", err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	if !a.loggedIn {
		return "(guest)"
	}
	who := ""
	if a.userName != "" {
		who = a.userName + " "
	}
	st := a.userService.State()
	if st.Mode == services.ModeSearch {
		return fmt.Sprintf("(%ssearch %q)", who, st.Term)
	}
	return fmt.Sprintf("(%spage %d/%d)", who, st.CurrentPage, st.TotalPages)
}
