package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
)

func carPath(id int64) string { return fmt.Sprintf("/cars/%d", id) }

// ListCars fetches one page of listings; params are the API filter
// parameters (see filter.State.APIParams).
func (c *HTTPClient) ListCars(ctx context.Context, params url.Values) (models.Page[models.Car], error) {
	var page models.Page[models.Car]
	if err := c.get(ctx, "/cars", params, &page); err != nil {
		return models.Page[models.Car]{}, err
	}
	page.Normalize()
	return page, nil
}

func (c *HTTPClient) GetCar(ctx context.Context, id int64) (models.Car, error) {
	var car models.Car
	if err := c.get(ctx, carPath(id), nil, &car); err != nil {
		return models.Car{}, err
	}
	return car, nil
}

// CreateCar publishes a listing as multipart/form-data with the images
// attached as images[].
func (c *HTTPClient) CreateCar(ctx context.Context, form models.ListingForm) (models.Car, error) {
	body, contentType, err := encodeListingForm(form)
	if err != nil {
		return models.Car{}, err
	}

	var car models.Car
	r := request{method: http.MethodPost, path: "/cars", body: body, contentType: contentType}
	if err := c.do(ctx, r, &car); err != nil {
		return models.Car{}, err
	}
	return car, nil
}

func (c *HTTPClient) UpdateCar(ctx context.Context, id int64, upd models.CarUpdate) (models.Car, error) {
	var car models.Car
	if err := c.send(ctx, http.MethodPut, carPath(id), upd, &car); err != nil {
		return models.Car{}, err
	}
	return car, nil
}

func (c *HTTPClient) DeleteCar(ctx context.Context, id int64) error {
	return c.remove(ctx, carPath(id))
}

func (c *HTTPClient) PlaceBid(ctx context.Context, carID int64, amount float64) (models.Bid, error) {
	var bid models.Bid
	if err := c.send(ctx, http.MethodPost, carPath(carID)+"/bids", models.BidRequest{Amount: amount}, &bid); err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}

func (c *HTTPClient) BookTestDrive(ctx context.Context, carID int64, at time.Time) (models.TestDrive, error) {
	var td models.TestDrive
	req := models.TestDriveRequest{CarID: carID, ScheduledTime: at}
	if err := c.send(ctx, http.MethodPost, "/test-drives", req, &td); err != nil {
		return models.TestDrive{}, err
	}
	return td, nil
}
