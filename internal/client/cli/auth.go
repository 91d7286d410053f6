package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drivebuddy/internal/client/services"
	"github.com/dmitrijs2005/drivebuddy/internal/common"
)

// getSimpleText and getPassword are indirections so tests can swap out
// interactive input.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates an account.
// Registration does not log the user in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.gate.Register(ctx, email, string(password))
	a.report()
	return err
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.gate.Login(ctx, email, string(password))
	if err == nil {
		fmt.Fprintln(a.out, "Logged in.")
		return nil
	}
	a.report()
	return err
}

// ChangePassword prompts for the current password and the new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	prompts := []string{"Current password", "New password", "Confirm new password"}
	values := make([][]byte, 0, len(prompts))
	defer func() {
		for _, v := range values {
			common.WipeByteArray(v)
		}
	}()

	for _, p := range prompts {
		v, err := getPassword(a.out, p)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	err := a.gate.ChangePassword(ctx, string(values[0]), string(values[1]), string(values[2]))
	if err == nil {
		fmt.Fprintln(a.out, "Password changed.")
		return nil
	}
	a.report()
	return err
}

// WhoAmI prints the logged-in account as currently stored.
func (a *App) WhoAmI(ctx context.Context) error {
	acc, err := a.gate.CurrentUser(ctx)
	if errors.Is(err, services.ErrNotLoggedIn) {
		fmt.Fprintln(a.out, "Not logged in.")
		return err
	}
	if err != nil {
		a.log.Error(ctx, "load current account", "error", err)
		fmt.Fprintln(a.out, "Error:", services.ErrInternal.Error())
		return err
	}

	fmt.Fprintf(a.out, "%s (id %s, registered %s)\n", acc.Email, acc.ID, acc.CreatedAt.Format("2006-01-02"))
	return nil
}

// Logout ends the session. It always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.gate.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// report prints the gate's last message, if any.
func (a *App) report() {
	msg := a.gate.State().Message
	if msg == nil {
		return
	}
	if msg.Kind == services.MessageError {
		fmt.Fprintln(a.out, "Error:", msg.Text)
		return
	}
	fmt.Fprintln(a.out, msg.Text)
}
