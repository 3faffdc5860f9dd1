package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/guard"
	"github.com/dmitrijs2005/carmarket/internal/client/services"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
)

// errUsage makes the REPL print the command's usage line.
var errUsage = errors.New("usage")

// access says what a command needs before it runs.
type access int

const (
	public access = iota
	loggedIn
	adminOnly
)

type command struct {
	usage  string
	help   string
	access access
	// routed commands render a location whose view is guarded already.
	routed bool
	run    func(ctx context.Context, args []string) error
}

// executor is the surface the REPL loop needs. App satisfies it; tests can
// provide a lightweight stub.
type executor interface {
	Execute(ctx context.Context, name string, args []string) (quit bool)
}

func (a *App) commandTable() map[string]command {
	return map[string]command{
		"help":     {usage: "help", help: "show available commands", run: a.Help},
		"home":     {usage: "home", help: "go to the home view", run: a.Home},
		"about":    {usage: "about", help: "about the marketplace", run: a.About},
		"login":    {usage: "login", help: "sign in", run: a.Login},
		"register": {usage: "register", help: "create an account", run: a.Register},
		"logout":   {usage: "logout", help: "sign out", run: a.Logout},
		"whoami":   {usage: "whoami", help: "show the signed in user", run: a.WhoAmI},
		"back":     {usage: "back", help: "return to the previous view", run: a.Back},
		"url":      {usage: "url", help: "print the current location", run: a.URL},
		"open":     {usage: "open <location>", help: "go to a location, e.g. /cars/list?make=BMW", run: a.Open},

		"cars":    {usage: "cars [query]", help: "browse cars, optionally from an encoded filter query", run: a.Cars},
		"filter":  {usage: "filter <key> <value>", help: "set one filter (empty value clears it)", run: a.Filter},
		"feature": {usage: "feature <name>", help: "toggle a required feature", run: a.Feature},
		"page":    {usage: "page <n>", help: "go to a result page", run: a.Page},
		"reset":   {usage: "reset", help: "clear all filters", run: a.ResetFilters},
		"refresh": {usage: "refresh", help: "reload the current car list", run: a.Refresh},
		"show":    {usage: "show <id>", help: "show car details", run: a.Show},

		"bid":       {usage: "bid <id> <amount>", help: "place a bid", access: loggedIn, run: a.Bid},
		"testdrive": {usage: "testdrive <id> <YYYY-MM-DD HH:MM>", help: "book a test drive", access: loggedIn, run: a.TestDrive},
		"sell":      {usage: "sell", help: "list your car for sale", routed: true, access: loggedIn, run: a.Sell},

		"dashboard":     {usage: "dashboard [listings|bids|testdrives|profile]", help: "your dashboard", routed: true, access: loggedIn, run: a.Dashboard},
		"profile":       {usage: "profile", help: "edit your profile", access: loggedIn, run: a.EditProfile},
		"deleteaccount": {usage: "deleteaccount", help: "delete your account", access: loggedIn, run: a.DeleteAccount},
		"editlisting":   {usage: "editlisting <id>", help: "edit one of your listings", access: loggedIn, run: a.EditListing},
		"deletelisting": {usage: "deletelisting <id>", help: "delete one of your listings", access: loggedIn, run: a.DeleteListing},

		"admin":       {usage: "admin [users|cars|testdrives|bids]", help: "admin dashboard", routed: true, access: adminOnly, run: a.Admin},
		"setrole":     {usage: "setrole <user id> <user|admin>", help: "change a user's role", access: adminOnly, run: a.SetRole},
		"deleteuser":  {usage: "deleteuser <id>", help: "delete a user", access: adminOnly, run: a.DeleteUser},
		"deletecar":   {usage: "deletecar <id>", help: "delete any listing", access: adminOnly, run: a.AdminDeleteCar},
		"drivestatus": {usage: "drivestatus <id> <pending|approved|rejected>", help: "review a test drive", access: adminOnly, run: a.SetTestDriveStatus},
		"deletedrive": {usage: "deletedrive <id>", help: "delete a test drive", access: adminOnly, run: a.DeleteTestDrive},
		"bidstatus":   {usage: "bidstatus <id> <pending|approved|rejected>", help: "review a bid", access: adminOnly, run: a.SetBidStatus},
		"deletebid":   {usage: "deletebid <id>", help: "delete a bid", access: adminOnly, run: a.DeleteBid},
	}
}

// runREPL starts a simple read-eval-print loop for the carmarket CLI.
//
// It prints the prompt (from statusFn) to w, reads a line from the scanner,
// splits it into a command name and arguments and hands them to e. The loop
// exits on scanner EOF or when the executor reports quit.
func runREPL(ctx context.Context, e executor, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		fmt.Fprintf(w, "carmarket %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if e.Execute(ctx, parts[0], parts[1:]) {
			return
		}
	}
}

// Execute runs one command. Failures are reported to the user here so the
// loop keeps going.
func (a *App) Execute(ctx context.Context, name string, args []string) bool {
	switch name {
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	case "l":
		name = "cars"
	}

	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprintln(a.out, "Unknown command:", name)
		return false
	}

	view := guard.View(func(ctx context.Context) error { return cmd.run(ctx, args) })
	switch {
	case cmd.routed:
	case cmd.access == loggedIn:
		view = a.guard.Wrap(view)
	case cmd.access == adminOnly:
		view = a.guard.RequireRole(session.RoleAdmin, view)
	}

	if err := view(ctx); err != nil {
		a.report(ctx, cmd, err)
	}
	return false
}

// report shows err as a blocking notice. Redirects are reported by the
// navigation listener, so guard refusals only log.
func (a *App) report(ctx context.Context, cmd command, err error) {
	var inputErr *services.InputError
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.out, "Usage:", cmd.usage)
	case errors.Is(err, guard.ErrLoginRequired):
		a.log.Debug(ctx, "guarded command refused", "command", cmd.usage)
	case errors.Is(err, guard.ErrForbidden):
		fmt.Fprintln(a.out, "error: admin access required")
	case errors.Is(err, client.ErrUnauthorized):
		a.log.Debug(ctx, "request rejected, session cleared", "command", cmd.usage)
	case errors.As(err, &inputErr):
		fmt.Fprintln(a.out, "error:", inputErr.Error())
	default:
		a.log.Debug(ctx, "command failed", "command", cmd.usage, "error", err)
		fmt.Fprintln(a.out, "error:", client.UserMessage(err, ""))
	}
}

// Help lists the commands usable right now.
func (a *App) Help(ctx context.Context, _ []string) error {
	logged := a.isLoggedIn(ctx)
	admin := logged && a.sessions.CurrentRole(ctx) == session.RoleAdmin

	names := make([]string, 0, len(a.commands))
	for name, c := range a.commands {
		switch {
		case c.access == loggedIn && !logged,
			c.access == adminOnly && !admin,
			name == "login" && logged,
			name == "register" && logged,
			name == "logout" && !logged:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.out, "Available commands:")
	for _, name := range names {
		c := a.commands[name]
		fmt.Fprintf(a.out, "  %-46s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(a.out, "  %-46s %s\n", "exit | quit", "leave the program")
	return nil
}
