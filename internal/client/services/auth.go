package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/logging"
	"github.com/go-playground/validator/v10"
)

// ErrNoToken is returned when a login response carries no token.
var ErrNoToken = errors.New("login response has no token")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the API and store the returned session.
//   - Register: create an account; the form is checked locally first.
//   - Logout: notify the API (best effort) and clear the local session.
//   - Current: the stored session and whether its token is still valid.
type AuthService interface {
	Login(ctx context.Context, email, password string, remember bool) (session.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) (session.Session, bool)
}

type authService struct {
	client   client.Client
	sessions session.Store
	validate *validator.Validate
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, sessions session.Store, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		sessions: sessions,
		validate: newValidator(),
		log:      log.With("component", "auth"),
	}
}

// Login posts the credentials and writes token, role and name as one group.
func (a *authService) Login(ctx context.Context, email, password string, remember bool) (session.Session, error) {
	req := models.LoginRequest{Email: email, Password: password, Remember: remember}
	if err := check(a.validate, req); err != nil {
		return session.Session{}, err
	}

	resp, err := a.client.Login(ctx, req)
	if err != nil {
		return session.Session{}, fmt.Errorf("login error: %w", err)
	}
	if resp.Token == "" {
		return session.Session{}, ErrNoToken
	}

	s := session.Session{
		Token:       resp.Token,
		Role:        session.ParseRole(resp.Role),
		DisplayName: resp.Name,
	}
	if err := a.sessions.Set(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("session saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "role", s.Role)
	return s, nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := check(a.validate, req); err != nil {
		return err
	}
	if err := a.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Logout clears the local session even when the API call fails.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout request failed", "error", err)
	}
	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

func (a *authService) Current(ctx context.Context) (session.Session, bool) {
	s, err := a.sessions.Get(ctx)
	if err != nil {
		a.log.Warn(ctx, "session read failed", "error", err)
		return session.Session{}, false
	}
	return s, a.sessions.IsValid(ctx)
}
