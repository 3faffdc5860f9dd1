package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/go-playground/validator/v10"
)

var (
	ErrCarSold   = errors.New("this car is sold")
	ErrBidTooLow = errors.New("bid too low")
	ErrPastTime  = errors.New("test drive time is in the past")
)

// CarService covers the car detail view and the sell form.
type CarService interface {
	Get(ctx context.Context, id int64) (models.Car, error)
	PlaceBid(ctx context.Context, car models.Car, amount float64) (models.Bid, error)
	BookTestDrive(ctx context.Context, car models.Car, at time.Time) (models.TestDrive, error)
	CreateListing(ctx context.Context, form models.ListingForm) (models.Car, error)
}

type carService struct {
	client   client.Client
	validate *validator.Validate
	now      func() time.Time
}

func NewCarService(c client.Client) CarService {
	return &carService{client: c, validate: newValidator(), now: time.Now}
}

func (s *carService) Get(ctx context.Context, id int64) (models.Car, error) {
	car, err := s.client.GetCar(ctx, id)
	if err != nil {
		return models.Car{}, fmt.Errorf("error retrieving car %d: %w", id, err)
	}
	return car, nil
}

// PlaceBid refuses sold cars and amounts not above the listed price before
// anything is sent.
func (s *carService) PlaceBid(ctx context.Context, car models.Car, amount float64) (models.Bid, error) {
	if car.Sold() {
		return models.Bid{}, fmt.Errorf("%w: bidding is disabled", ErrCarSold)
	}
	if amount <= car.Price {
		return models.Bid{}, fmt.Errorf("%w: bid amount must be more than $%.0f", ErrBidTooLow, car.Price)
	}

	bid, err := s.client.PlaceBid(ctx, car.ID, amount)
	if err != nil {
		return models.Bid{}, fmt.Errorf("error placing bid: %w", err)
	}
	return bid, nil
}

func (s *carService) BookTestDrive(ctx context.Context, car models.Car, at time.Time) (models.TestDrive, error) {
	if car.Sold() {
		return models.TestDrive{}, fmt.Errorf("%w: test drive booking is disabled", ErrCarSold)
	}
	if !at.After(s.now()) {
		return models.TestDrive{}, ErrPastTime
	}

	td, err := s.client.BookTestDrive(ctx, car.ID, at)
	if err != nil {
		return models.TestDrive{}, fmt.Errorf("error booking test drive: %w", err)
	}
	return td, nil
}

func (s *carService) CreateListing(ctx context.Context, form models.ListingForm) (models.Car, error) {
	if err := check(s.validate, form); err != nil {
		return models.Car{}, err
	}

	car, err := s.client.CreateCar(ctx, form)
	if err != nil {
		return models.Car{}, fmt.Errorf("error creating listing: %w", err)
	}
	return car, nil
}
