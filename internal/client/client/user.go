package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
)

func (c *HTTPClient) Profile(ctx context.Context) (models.User, error) {
	var u models.User
	if err := c.get(ctx, "/user", nil, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, p models.Profile) (models.User, error) {
	var u models.User
	if err := c.send(ctx, http.MethodPut, "/user", p, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	return c.remove(ctx, "/user")
}

func (c *HTTPClient) UserListings(ctx context.Context) ([]models.Car, error) {
	return getList[models.Car](ctx, c, "/user/listings")
}

func (c *HTTPClient) UserBids(ctx context.Context) ([]models.Bid, error) {
	return getList[models.Bid](ctx, c, "/user/bids")
}

func (c *HTTPClient) UserTestDrives(ctx context.Context) ([]models.TestDrive, error) {
	return getList[models.TestDrive](ctx, c, "/user/test-drives")
}

func getList[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	var list models.List[T]
	if err := c.get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
