package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/common"
)

const (
	tabListings   = "listings"
	tabBids       = "bids"
	tabTestDrives = "testdrives"
	tabProfile    = "profile"
	tabUsers      = "users"
	tabCars       = "cars"
)

// tabLocation is path with the tab in its query; the default tab is left out.
func tabLocation(path, tab, def string) nav.Location {
	loc := nav.Location{Path: path}
	if tab != "" && tab != def {
		loc.Query = url.Values{"tab": {tab}}.Encode()
	}
	return loc
}

// tabOf reads the tab from a location query.
func tabOf(rawQuery, def string) string {
	q, err := url.ParseQuery(rawQuery)
	if err != nil || q.Get("tab") == "" {
		return def
	}
	return q.Get("tab")
}

func oneOf(s string, allowed ...string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// Dashboard opens the user dashboard; admins are sent to the admin one.
func (a *App) Dashboard(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	if a.dashboardPath(ctx) == common.PathAdminDashboard && len(args) == 0 {
		return a.visit(ctx, nav.Location{Path: common.PathAdminDashboard})
	}
	tab := tabListings
	if len(args) == 1 {
		tab = args[0]
	}
	if !oneOf(tab, tabListings, tabBids, tabTestDrives, tabProfile) {
		return errUsage
	}
	return a.visit(ctx, tabLocation(common.PathDashboard, tab, tabListings))
}

func (a *App) dashboard(ctx context.Context, rawQuery string) error {
	switch tabOf(rawQuery, tabListings) {
	case tabBids:
		bids, err := a.dashboardService.Bids(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "My bids")
		renderBids(a.out, bids, false)

	case tabTestDrives:
		tds, err := a.dashboardService.TestDrives(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "My test drives")
		renderTestDrives(a.out, tds, false)

	case tabProfile:
		u, err := a.dashboardService.Profile(ctx)
		if err != nil {
			return err
		}
		t := newTable(a.out, "FIELD", "VALUE")
		t.row("Name", u.Name)
		t.row("Email", u.Email)
		t.row("Role", orDash(u.Role))
		t.flush()
		fmt.Fprintln(a.out, "Use 'profile' to edit or 'deleteaccount' to remove your account.")

	default:
		cars, err := a.dashboardService.Listings(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "My listings")
		if len(cars) == 0 {
			fmt.Fprintln(a.out, "You have no listings yet. Use 'sell' to add one.")
			return nil
		}
		renderCars(a.out, cars)
	}
	return nil
}

// EditProfile updates name and email and optionally the password.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	u, err := a.dashboardService.Profile(ctx)
	if err != nil {
		return err
	}

	var p models.Profile
	if p.Name, err = GetOptionalText(a.reader, "Name", u.Name, a.out); err != nil {
		return err
	}
	if p.Email, err = GetOptionalText(a.reader, "Email", u.Email, a.out); err != nil {
		return err
	}
	password, err := getPassword(a.out, "New password (empty to keep)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	p.Password = string(password)

	updated, err := a.dashboardService.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s <%s>\n", updated.Name, updated.Email)
	return nil
}

func (a *App) DeleteAccount(ctx context.Context, _ []string) error {
	ok, err := GetYesNo(a.reader, "Delete your account? This cannot be undone.", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.dashboardService.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted.")
	a.nav.Push(nav.Location{Path: common.PathHome})
	return nil
}

// EditListing changes the basic fields of one of the user's listings.
// Fields left at their current value are not sent.
func (a *App) EditListing(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	carID, err := parseID(args[0])
	if err != nil {
		return err
	}
	car, err := a.carService.Get(ctx, carID)
	if err != nil {
		return err
	}

	upd, err := a.inputCarUpdate(car)
	if err != nil {
		return err
	}
	updated, err := a.dashboardService.UpdateListing(ctx, carID, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Listing #%d updated: %s, %s\n", updated.ID, updated.Title, money(updated.Price))
	return nil
}

func (a *App) inputCarUpdate(car models.Car) (models.CarUpdate, error) {
	var upd models.CarUpdate

	changed := func(prompt, current string) (*string, error) {
		s, err := GetOptionalText(a.reader, prompt, current, a.out)
		if err != nil || s == current {
			return nil, err
		}
		return &s, nil
	}

	var err error
	if upd.Title, err = changed("Title", car.Title); err != nil {
		return upd, err
	}
	if upd.Make, err = changed("Make", car.Make); err != nil {
		return upd, err
	}
	if upd.Model, err = changed("Model", car.Model); err != nil {
		return upd, err
	}

	year, err := changed("Year", strconv.Itoa(car.Year))
	if err != nil {
		return upd, err
	}
	if year != nil {
		y, err := atoiField("year", *year)
		if err != nil {
			return upd, err
		}
		upd.Year = &y
	}

	price, err := changed("Price", strconv.FormatFloat(car.Price, 'f', -1, 64))
	if err != nil {
		return upd, err
	}
	if price != nil {
		p, err := parseAmount(*price)
		if err != nil {
			return upd, fieldError("price", "price must be a number")
		}
		upd.Price = &p
	}

	if upd.Description, err = changed("Description", car.Description); err != nil {
		return upd, err
	}
	return upd, nil
}

func (a *App) DeleteListing(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	carID, err := parseID(args[0])
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete listing #%d?", carID), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.dashboardService.DeleteListing(ctx, carID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Listing #%d deleted.\n", carID)
	return nil
}
