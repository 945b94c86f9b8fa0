package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

var errPasswordMismatch = errors.New("passwords do not match")

// login prompts for credentials and opens a session. A failed attempt
// leaves the current session untouched and returns the server's message.
func (a *App) login(ctx context.Context, _ []string) error {
	username, err := a.ask("Enter username")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Enter password")
	if err != nil {
		return err
	}

	res := a.Session.Login(ctx, username, password)
	if !res.Success {
		a.Logger.Info(ctx, "login unsuccessful", "username", username)
		return errors.New(res.Error)
	}
	a.printf("Logged in as %s (%s)\n", res.User.Username, res.User.Role.Label())
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	a.Session.Logout(ctx)
	a.println("Logged out")
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	u := a.Session.CurrentUser()
	if u == nil {
		a.println("Not logged in")
		return nil
	}
	a.printf("ID:         %d\n", u.ID)
	a.printf("Username:   %s\n", u.Username)
	a.printf("Email:      %s\n", orDash(u.Email))
	a.printf("Role:       %s\n", u.Role.Label())
	a.printf("Last login: %s\n", u.LastLogin)
	if exp, err := a.Session.TokenExpiry(); err == nil {
		a.printf("Session expires: %s\n", timex.NewTime(exp))
	}
	return nil
}

func (a *App) passwd(ctx context.Context, _ []string) error {
	current, err := a.askSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.askSecret("New password")
	if err != nil {
		return err
	}
	again, err := a.askSecret("Repeat new password")
	if err != nil {
		return err
	}
	if next != again {
		return errPasswordMismatch
	}

	msg, err := a.Users.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}
