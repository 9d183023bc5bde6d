package cli

import (
	"context"
	"errors"
	"os"

	"github.com/iysravet/iyscli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for an email and password and signs in via the
// AuthService. On success the session store persists the credential and the
// broadcaster updates the prompt; on refusal a short message is printed and
// the session stays as it was.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.SignIn(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			printlnFn("Invalid email or password.")
		} else {
			printlnFn("Login failed:", err)
		}
		return err
	}

	printlnFn("Signed in as", a.store.Current().Username)
	return nil
}

// Logout ends the session and clears the persisted credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	printlnFn("Signed out.")
	return nil
}

// WhoAmI prints the signed-in username, or a hint when anonymous.
func (a *App) WhoAmI(ctx context.Context) error {
	cur := a.store.Current()
	if !cur.Authenticated {
		printlnFn("Not signed in. Use 'login'.")
		return nil
	}
	printlnFn("Signed in as", cur.Username)
	return nil
}
