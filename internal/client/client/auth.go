package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/carmarket/internal/client/models"
)

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.send(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return models.LoginResponse{}, err
	}
	return resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.send(ctx, http.MethodPost, "/register", req, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/logout", nil, nil)
}
