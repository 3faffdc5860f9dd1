package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carmarket/internal/common"
)

// Admin opens the admin dashboard on the given tab (users by default).
func (a *App) Admin(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	tab := tabUsers
	if len(args) == 1 {
		tab = args[0]
	}
	if !oneOf(tab, tabUsers, tabCars, tabTestDrives, tabBids) {
		return errUsage
	}
	return a.visit(ctx, tabLocation(common.PathAdminDashboard, tab, tabUsers))
}

func (a *App) adminDashboard(ctx context.Context, rawQuery string) error {
	sum, err := a.adminService.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Users: %d  Cars: %d  Test drives: %d  Bids: %d\n\n",
		sum.Users, sum.Cars, sum.TestDrives, sum.Bids)

	switch tabOf(rawQuery, tabUsers) {
	case tabCars:
		cars, err := a.adminService.Cars(ctx)
		if err != nil {
			return err
		}
		renderCars(a.out, cars)

	case tabTestDrives:
		tds, err := a.adminService.TestDrives(ctx)
		if err != nil {
			return err
		}
		renderTestDrives(a.out, tds, true)

	case tabBids:
		bids, err := a.adminService.Bids(ctx)
		if err != nil {
			return err
		}
		renderBids(a.out, bids, true)

	default:
		users, err := a.adminService.Users(ctx)
		if err != nil {
			return err
		}
		renderUsers(a.out, users)
	}
	return nil
}

// adminAction parses "<id> [value]" arguments, asks for confirmation when
// prompt is set and runs fn.
func (a *App) adminAction(args []string, withValue bool, prompt string, fn func(id int64, value string) error) error {
	want := 1
	if withValue {
		want = 2
	}
	if len(args) != want {
		return errUsage
	}
	targetID, err := parseID(args[0])
	if err != nil {
		return err
	}
	var value string
	if withValue {
		value = args[1]
	}
	if prompt != "" {
		ok, err := GetYesNo(a.reader, fmt.Sprintf(prompt, targetID), a.out)
		if err != nil || !ok {
			return err
		}
	}
	return fn(targetID, value)
}

func (a *App) SetRole(ctx context.Context, args []string) error {
	return a.adminAction(args, true, "", func(userID int64, role string) error {
		if err := a.adminService.SetUserRole(ctx, userID, role); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User #%d is now %s.\n", userID, role)
		return nil
	})
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	return a.adminAction(args, false, "Delete user #%d?", func(userID int64, _ string) error {
		if err := a.adminService.DeleteUser(ctx, userID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User #%d deleted.\n", userID)
		return nil
	})
}

func (a *App) AdminDeleteCar(ctx context.Context, args []string) error {
	return a.adminAction(args, false, "Delete car #%d?", func(carID int64, _ string) error {
		if err := a.adminService.DeleteCar(ctx, carID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Car #%d deleted.\n", carID)
		return nil
	})
}

func (a *App) SetTestDriveStatus(ctx context.Context, args []string) error {
	return a.adminAction(args, true, "", func(tdID int64, status string) error {
		if err := a.adminService.SetTestDriveStatus(ctx, tdID, status); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Test drive #%d %s.\n", tdID, status)
		return nil
	})
}

func (a *App) DeleteTestDrive(ctx context.Context, args []string) error {
	return a.adminAction(args, false, "Delete test drive #%d?", func(tdID int64, _ string) error {
		if err := a.adminService.DeleteTestDrive(ctx, tdID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Test drive #%d deleted.\n", tdID)
		return nil
	})
}

func (a *App) SetBidStatus(ctx context.Context, args []string) error {
	return a.adminAction(args, true, "", func(bidID int64, status string) error {
		if err := a.adminService.SetBidStatus(ctx, bidID, status); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Bid #%d %s.\n", bidID, status)
		return nil
	})
}

func (a *App) DeleteBid(ctx context.Context, args []string) error {
	return a.adminAction(args, false, "Delete bid #%d?", func(bidID int64, _ string) error {
		if err := a.adminService.DeleteBid(ctx, bidID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Bid #%d deleted.\n", bidID)
		return nil
	})
}
