package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
)

func adminPath(resource string, id int64) string {
	return fmt.Sprintf("/admin/%s/%d", resource, id)
}

func (c *HTTPClient) AdminUsers(ctx context.Context) ([]models.User, error) {
	return getList[models.User](ctx, c, "/admin/users")
}

func (c *HTTPClient) AdminUpdateUserRole(ctx context.Context, id int64, role string) error {
	return c.send(ctx, http.MethodPut, adminPath("users", id), models.RoleUpdate{Role: role}, nil)
}

func (c *HTTPClient) AdminDeleteUser(ctx context.Context, id int64) error {
	return c.remove(ctx, adminPath("users", id))
}

func (c *HTTPClient) AdminCars(ctx context.Context) ([]models.Car, error) {
	return getList[models.Car](ctx, c, "/admin/cars")
}

func (c *HTTPClient) AdminUpdateCar(ctx context.Context, id int64, upd models.CarUpdate) error {
	return c.send(ctx, http.MethodPut, adminPath("cars", id), upd, nil)
}

func (c *HTTPClient) AdminDeleteCar(ctx context.Context, id int64) error {
	return c.remove(ctx, adminPath("cars", id))
}

func (c *HTTPClient) AdminTestDrives(ctx context.Context) ([]models.TestDrive, error) {
	return getList[models.TestDrive](ctx, c, "/admin/test-drives")
}

func (c *HTTPClient) AdminUpdateTestDriveStatus(ctx context.Context, id int64, status string) error {
	return c.send(ctx, http.MethodPut, adminPath("test-drives", id), models.StatusUpdate{Status: status}, nil)
}

func (c *HTTPClient) AdminDeleteTestDrive(ctx context.Context, id int64) error {
	return c.remove(ctx, adminPath("test-drives", id))
}

func (c *HTTPClient) AdminBids(ctx context.Context) ([]models.Bid, error) {
	return getList[models.Bid](ctx, c, "/admin/bids")
}

func (c *HTTPClient) AdminUpdateBidStatus(ctx context.Context, id int64, status string) error {
	return c.send(ctx, http.MethodPut, adminPath("bids", id), models.StatusUpdate{Status: status}, nil)
}

func (c *HTTPClient) AdminDeleteBid(ctx context.Context, id int64) error {
	return c.remove(ctx, adminPath("bids", id))
}
