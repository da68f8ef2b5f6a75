package cli

import (
	"context"
	"strings"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and opens a session. On success the
// first page is shown.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, strings.TrimSpace(email), string(password)); err != nil {
		return err
	}

	a.loggedIn = true
	a.userName = email
	printlnFn("Login successful")

	a.userService.Reset()
	return a.List(ctx, 1)
}

// Logout ends the session. Local edits and deletions are discarded.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.loggedIn = false
	a.userName = ""
	a.last = nil
	a.userService.Reset()
	printlnFn("Logged out successfully")
	return nil
}
