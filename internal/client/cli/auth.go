package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts for credentials and signs in. On success the user lands on
// their dashboard, like after the web login form.
func (a *App) Login(ctx context.Context, _ []string) error {
	return a.loginForm(ctx)
}

func (a *App) loginForm(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := GetYesNo(a.reader, "Remember me?", a.out)
	if err != nil {
		return err
	}

	s, err := a.authService.Login(ctx, email, string(password), remember)
	if err != nil {
		fmt.Fprintln(a.out, "Login failed.")
		return err
	}

	a.log.Info(ctx, "login successful", "role", s.Role)
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.DisplayName)
	a.nav.Push(nav.Location{Path: a.dashboardPath(ctx)})
	return nil
}

// Register creates an account and then sends the user to the login view.
func (a *App) Register(ctx context.Context, _ []string) error {
	return a.registerForm(ctx)
}

func (a *App) registerForm(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	req := models.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             string(password),
		PasswordConfirmation: string(confirmation),
	}
	if err := a.authService.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registration successful.")
	a.nav.Push(nav.Location{Path: common.PathLogin})
	return nil
}

// Logout ends the session and shows the login view.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	a.nav.Push(nav.Location{Path: common.PathLogin})
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	s, ok := a.authService.Current(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", s.DisplayName, s.Role)
	return nil
}
