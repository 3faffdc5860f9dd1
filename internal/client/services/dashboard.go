package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/go-playground/validator/v10"
)

// DashboardService backs the user dashboard: own listings, bids, test
// drives and profile.
type DashboardService interface {
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, p models.Profile) (models.User, error)
	DeleteAccount(ctx context.Context) error

	Listings(ctx context.Context) ([]models.Car, error)
	UpdateListing(ctx context.Context, id int64, upd models.CarUpdate) (models.Car, error)
	DeleteListing(ctx context.Context, id int64) error

	Bids(ctx context.Context) ([]models.Bid, error)
	TestDrives(ctx context.Context) ([]models.TestDrive, error)
}

type dashboardService struct {
	client   client.Client
	sessions session.TokenSource
	validate *validator.Validate
}

func NewDashboardService(c client.Client, sessions session.TokenSource) DashboardService {
	return &dashboardService{client: c, sessions: sessions, validate: newValidator()}
}

func (s *dashboardService) Profile(ctx context.Context) (models.User, error) {
	u, err := s.client.Profile(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("error retrieving profile: %w", err)
	}
	return u, nil
}

func (s *dashboardService) UpdateProfile(ctx context.Context, p models.Profile) (models.User, error) {
	if err := check(s.validate, p); err != nil {
		return models.User{}, err
	}
	u, err := s.client.UpdateProfile(ctx, p)
	if err != nil {
		return models.User{}, fmt.Errorf("error updating profile: %w", err)
	}
	return u, nil
}

// DeleteAccount removes the account and then the local session.
func (s *dashboardService) DeleteAccount(ctx context.Context) error {
	if err := s.client.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

func (s *dashboardService) Listings(ctx context.Context) ([]models.Car, error) {
	cars, err := s.client.UserListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving listings: %w", err)
	}
	return cars, nil
}

func (s *dashboardService) UpdateListing(ctx context.Context, id int64, upd models.CarUpdate) (models.Car, error) {
	if upd == (models.CarUpdate{}) {
		return models.Car{}, &InputError{Fields: []FieldError{{Field: "listing", Message: "nothing to update"}}}
	}
	car, err := s.client.UpdateCar(ctx, id, upd)
	if err != nil {
		return models.Car{}, fmt.Errorf("error updating listing %d: %w", id, err)
	}
	return car, nil
}

func (s *dashboardService) DeleteListing(ctx context.Context, id int64) error {
	if err := s.client.DeleteCar(ctx, id); err != nil {
		return fmt.Errorf("error deleting listing %d: %w", id, err)
	}
	return nil
}

func (s *dashboardService) Bids(ctx context.Context) ([]models.Bid, error) {
	bids, err := s.client.UserBids(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving bids: %w", err)
	}
	return bids, nil
}

func (s *dashboardService) TestDrives(ctx context.Context) ([]models.TestDrive, error) {
	tds, err := s.client.UserTestDrives(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving test drives: %w", err)
	}
	return tds, nil
}
