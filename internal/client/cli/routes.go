package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carmarket/internal/client/guard"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/common"
)

var errNoRoute = errors.New("page not found")

// visit pushes loc and renders it.
func (a *App) visit(ctx context.Context, loc nav.Location) error {
	a.nav.Push(loc)
	return a.render(ctx, loc)
}

// render shows the view for loc. Guarded views go through the auth guard
// here as well, so locations reached by "open" or "back" are checked too.
func (a *App) render(ctx context.Context, loc nav.Location) error {
	switch loc.Path {
	case common.PathHome, "":
		return a.home(ctx)
	case "/about-us":
		return a.about()
	case common.PathLogin:
		return a.loginForm(ctx)
	case common.PathRegister:
		return a.registerForm(ctx)
	case common.PathCarList:
		return a.mountListing(ctx, loc.Query)
	case common.PathSellCar:
		return a.guard.Wrap(a.sellForm)(ctx)
	case common.PathDashboard:
		return a.guard.Wrap(func(ctx context.Context) error {
			return a.dashboard(ctx, loc.Query)
		})(ctx)
	case common.PathAdminDashboard:
		return a.guard.RequireRole(session.RoleAdmin, func(ctx context.Context) error {
			return a.adminDashboard(ctx, loc.Query)
		})(ctx)
	}

	if rest, ok := strings.CutPrefix(loc.Path, "/cars/"); ok {
		carID, err := parseID(rest)
		if err != nil {
			return errNoRoute
		}
		return a.showCar(ctx, carID)
	}
	return errNoRoute
}

func (a *App) Home(ctx context.Context, _ []string) error {
	return a.visit(ctx, nav.Location{Path: common.PathHome})
}

func (a *App) home(ctx context.Context) error {
	fmt.Fprintln(a.out, "ABC Cars: find your next car.")
	fmt.Fprintln(a.out, "  cars       browse cars")
	fmt.Fprintln(a.out, "  sell       sell your car")
	if a.isLoggedIn(ctx) {
		fmt.Fprintln(a.out, "  dashboard  your dashboard")
		fmt.Fprintln(a.out, "  logout     sign out")
	} else {
		fmt.Fprintln(a.out, "  login      sign in")
	}
	return nil
}

func (a *App) About(ctx context.Context, _ []string) error {
	return a.visit(ctx, nav.Location{Path: "/about-us"})
}

func (a *App) about() error {
	fmt.Fprintln(a.out, "ABC Cars is a marketplace for used cars: list yours, bid on others and book test drives.")
	return nil
}

// Back returns to the previous location and renders it.
func (a *App) Back(ctx context.Context, _ []string) error {
	loc, ok := a.nav.Back()
	if !ok {
		fmt.Fprintln(a.out, "Nothing to go back to.")
		return nil
	}
	return a.renderQuiet(ctx, loc)
}

func (a *App) URL(_ context.Context, _ []string) error {
	fmt.Fprintln(a.out, a.nav.Current().String())
	return nil
}

// Open navigates to an arbitrary location, e.g. a car list query copied
// from another session.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	loc := nav.ParseLocation(args[0])
	a.nav.Push(loc)
	return a.renderQuiet(ctx, loc)
}

// renderQuiet renders loc and turns unknown paths into a notice.
func (a *App) renderQuiet(ctx context.Context, loc nav.Location) error {
	err := a.render(ctx, loc)
	if errors.Is(err, errNoRoute) {
		fmt.Fprintf(a.out, "No such page: %s\n", loc.Path)
		return nil
	}
	if errors.Is(err, guard.ErrLoginRequired) {
		return nil
	}
	return err
}
