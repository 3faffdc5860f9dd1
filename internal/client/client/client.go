package client

import (
	"context"
	"net/url"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
)

// Client is the API surface the services layer needs.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error

	ListCars(ctx context.Context, params url.Values) (models.Page[models.Car], error)
	GetCar(ctx context.Context, id int64) (models.Car, error)
	CreateCar(ctx context.Context, form models.ListingForm) (models.Car, error)
	UpdateCar(ctx context.Context, id int64, upd models.CarUpdate) (models.Car, error)
	DeleteCar(ctx context.Context, id int64) error
	PlaceBid(ctx context.Context, carID int64, amount float64) (models.Bid, error)
	BookTestDrive(ctx context.Context, carID int64, at time.Time) (models.TestDrive, error)

	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, p models.Profile) (models.User, error)
	DeleteAccount(ctx context.Context) error
	UserListings(ctx context.Context) ([]models.Car, error)
	UserBids(ctx context.Context) ([]models.Bid, error)
	UserTestDrives(ctx context.Context) ([]models.TestDrive, error)

	AdminUsers(ctx context.Context) ([]models.User, error)
	AdminUpdateUserRole(ctx context.Context, id int64, role string) error
	AdminDeleteUser(ctx context.Context, id int64) error
	AdminCars(ctx context.Context) ([]models.Car, error)
	AdminUpdateCar(ctx context.Context, id int64, upd models.CarUpdate) error
	AdminDeleteCar(ctx context.Context, id int64) error
	AdminTestDrives(ctx context.Context) ([]models.TestDrive, error)
	AdminUpdateTestDriveStatus(ctx context.Context, id int64, status string) error
	AdminDeleteTestDrive(ctx context.Context, id int64) error
	AdminBids(ctx context.Context) ([]models.Bid, error)
	AdminUpdateBidStatus(ctx context.Context, id int64, status string) error
	AdminDeleteBid(ctx context.Context, id int64) error
}

var _ Client = (*HTTPClient)(nil)
