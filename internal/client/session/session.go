// Package session keeps the authenticated user's bearer token, role and
// display name between client runs and answers whether the token is still
// usable.
//
// The token is never verified locally: only its "exp" claim is decoded.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the privilege level reported by the API at login.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string to a Role. Anything unknown is the
// lowest privilege.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Session is the logical group written at login and removed at logout.
// Role and DisplayName are meaningful only when Token is set.
type Session struct {
	Token       string
	Role        Role
	DisplayName string
}

// Empty reports whether no token is present.
func (s Session) Empty() bool { return s.Token == "" }

// Validator is the part of the store the auth guard depends on.
type Validator interface {
	IsValid(ctx context.Context) bool
}

// TokenSource is the part of the store the API client depends on.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Store is the session service handed to every consumer.
type Store interface {
	Validator
	TokenSource
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, s Session) error
	CurrentRole(ctx context.Context) Role
}

// Clock returns the current wall-clock time.
type Clock func() time.Time

// Option configures a store.
type Option func(*options)

type options struct {
	now Clock
}

// WithClock overrides time.Now, used for expiry checks.
func WithClock(c Clock) Option {
	return func(o *options) { o.now = c }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// ExpiresAt decodes the "exp" claim of a JWT without checking its signature.
func ExpiresAt(token string) (exp time.Time, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("decode token: %v", p)
		}
	}()

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("decode token: %w", err)
	}
	nd, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("decode exp: %w", err)
	}
	if nd == nil {
		return time.Time{}, fmt.Errorf("decode exp: claim missing")
	}
	return nd.Time, nil
}

// tokenValid is the fail-closed validity rule shared by all stores.
func tokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, err := ExpiresAt(token)
	if err != nil {
		return false
	}
	return exp.After(now)
}
