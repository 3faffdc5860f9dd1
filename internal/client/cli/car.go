package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/nav"
)

func carLocation(carID int64) nav.Location {
	return nav.Location{Path: fmt.Sprintf("/cars/%d", carID)}
}

// Show opens the details of one car.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	carID, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.visit(ctx, carLocation(carID))
}

func (a *App) showCar(ctx context.Context, carID int64) error {
	car, err := a.carService.Get(ctx, carID)
	if err != nil {
		return err
	}
	renderCar(a.out, car, a.now())
	return nil
}

// Bid places a bid on a car. The car is loaded first so the amount can be
// checked against its current price.
func (a *App) Bid(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	carID, err := parseID(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	car, err := a.carService.Get(ctx, carID)
	if err != nil {
		return err
	}
	bid, err := a.carService.PlaceBid(ctx, car, amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Bid of %s placed on %s.\n", money(bid.Amount), car.Title)
	if a.nav.Current() == carLocation(carID) {
		return a.showCar(ctx, carID)
	}
	return nil
}

// TestDrive books a test drive; the time is read in the local zone.
func (a *App) TestDrive(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	carID, err := parseID(args[0])
	if err != nil {
		return err
	}
	at, err := parseDateTime(strings.Join(args[1:], " "), time.Local)
	if err != nil {
		return err
	}

	car, err := a.carService.Get(ctx, carID)
	if err != nil {
		return err
	}
	td, err := a.carService.BookTestDrive(ctx, car, at)
	if err != nil {
		return err
	}

	scheduled := td.ScheduledTime
	if scheduled.IsZero() {
		scheduled = at
	}
	fmt.Fprintf(a.out, "Test drive booked successfully for %s.\n", when(scheduled))
	return nil
}
