package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// Summary holds the counters shown at the top of the admin dashboard.
type Summary struct {
	Users      int
	Cars       int
	TestDrives int
	Bids       int
}

// AdminService backs the admin dashboard.
type AdminService interface {
	Summary(ctx context.Context) (Summary, error)

	Users(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error

	Cars(ctx context.Context) ([]models.Car, error)
	DeleteCar(ctx context.Context, id int64) error

	TestDrives(ctx context.Context) ([]models.TestDrive, error)
	SetTestDriveStatus(ctx context.Context, id int64, status string) error
	DeleteTestDrive(ctx context.Context, id int64) error

	Bids(ctx context.Context) ([]models.Bid, error)
	SetBidStatus(ctx context.Context, id int64, status string) error
	DeleteBid(ctx context.Context, id int64) error
}

type adminService struct {
	client   client.Client
	validate *validator.Validate
}

func NewAdminService(c client.Client) AdminService {
	return &adminService{client: c, validate: newValidator()}
}

// Summary loads the four admin lists concurrently and counts them. The first
// failure cancels the rest.
func (s *adminService) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.client.AdminUsers(ctx)
		sum.Users = len(v)
		return err
	})
	g.Go(func() error {
		v, err := s.client.AdminCars(ctx)
		sum.Cars = len(v)
		return err
	})
	g.Go(func() error {
		v, err := s.client.AdminTestDrives(ctx)
		sum.TestDrives = len(v)
		return err
	})
	g.Go(func() error {
		v, err := s.client.AdminBids(ctx)
		sum.Bids = len(v)
		return err
	})

	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("error loading summary: %w", err)
	}
	return sum, nil
}

func (s *adminService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.client.AdminUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	return users, nil
}

func (s *adminService) SetUserRole(ctx context.Context, id int64, role string) error {
	if err := check(s.validate, models.RoleUpdate{Role: role}); err != nil {
		return err
	}
	if err := s.client.AdminUpdateUserRole(ctx, id, role); err != nil {
		return fmt.Errorf("error updating user %d: %w", id, err)
	}
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.client.AdminDeleteUser(ctx, id); err != nil {
		return fmt.Errorf("error deleting user %d: %w", id, err)
	}
	return nil
}

func (s *adminService) Cars(ctx context.Context) ([]models.Car, error) {
	cars, err := s.client.AdminCars(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving cars: %w", err)
	}
	return cars, nil
}

func (s *adminService) DeleteCar(ctx context.Context, id int64) error {
	if err := s.client.AdminDeleteCar(ctx, id); err != nil {
		return fmt.Errorf("error deleting car %d: %w", id, err)
	}
	return nil
}

func (s *adminService) TestDrives(ctx context.Context) ([]models.TestDrive, error) {
	tds, err := s.client.AdminTestDrives(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving test drives: %w", err)
	}
	return tds, nil
}

func (s *adminService) SetTestDriveStatus(ctx context.Context, id int64, status string) error {
	if err := check(s.validate, models.StatusUpdate{Status: status}); err != nil {
		return err
	}
	if err := s.client.AdminUpdateTestDriveStatus(ctx, id, status); err != nil {
		return fmt.Errorf("error updating test drive %d: %w", id, err)
	}
	return nil
}

func (s *adminService) DeleteTestDrive(ctx context.Context, id int64) error {
	if err := s.client.AdminDeleteTestDrive(ctx, id); err != nil {
		return fmt.Errorf("error deleting test drive %d: %w", id, err)
	}
	return nil
}

func (s *adminService) Bids(ctx context.Context) ([]models.Bid, error) {
	bids, err := s.client.AdminBids(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving bids: %w", err)
	}
	return bids, nil
}

func (s *adminService) SetBidStatus(ctx context.Context, id int64, status string) error {
	if err := check(s.validate, models.StatusUpdate{Status: status}); err != nil {
		return err
	}
	if err := s.client.AdminUpdateBidStatus(ctx, id, status); err != nil {
		return fmt.Errorf("error updating bid %d: %w", id, err)
	}
	return nil
}

func (s *adminService) DeleteBid(ctx context.Context, id int64) error {
	if err := s.client.AdminDeleteBid(ctx, id); err != nil {
		return fmt.Errorf("error deleting bid %d: %w", id, err)
	}
	return nil
}
