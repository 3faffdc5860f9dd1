// Package guard gates views behind a valid session.
//
// Every evaluation asks the session store once; nothing is cached, so a token
// that expires while a view is open is noticed on the next evaluation.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/common"
)

var (
	ErrLoginRequired = errors.New("login required")
	ErrForbidden     = errors.New("insufficient role")
)

// Redirector replaces the current location without adding history.
type Redirector interface {
	Replace(loc nav.Location)
}

// Sessions is what the guard reads from the session store.
type Sessions interface {
	session.Validator
	CurrentRole(ctx context.Context) session.Role
}

// View renders a guarded screen.
type View func(ctx context.Context) error

type Guard struct {
	sessions     Sessions
	nav          Redirector
	loginPath    string
	fallbackPath string
}

type Option func(*Guard)

// WithLoginPath sets where unauthenticated users are sent.
func WithLoginPath(p string) Option {
	return func(g *Guard) { g.loginPath = p }
}

// WithFallbackPath sets where RequireRole sends users without the role.
func WithFallbackPath(p string) Option {
	return func(g *Guard) { g.fallbackPath = p }
}

func New(sessions Sessions, r Redirector, opts ...Option) *Guard {
	g := &Guard{
		sessions:     sessions,
		nav:          r,
		loginPath:    common.PathLogin,
		fallbackPath: common.PathDashboard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow reports whether the session is valid. When it is not, the current
// location is replaced by the login view.
func (g *Guard) Allow(ctx context.Context) bool {
	if g.sessions.IsValid(ctx) {
		return true
	}
	g.nav.Replace(nav.Location{Path: g.loginPath})
	return false
}

// Wrap returns a view that renders v only while Allow holds. It is evaluated
// on every call.
func (g *Guard) Wrap(v View) View {
	return func(ctx context.Context) error {
		if !g.Allow(ctx) {
			return ErrLoginRequired
		}
		return v(ctx)
	}
}

// RequireRole wraps v like Wrap and additionally requires role. A logged-in
// user without it is moved to the fallback view.
func (g *Guard) RequireRole(role session.Role, v View) View {
	return g.Wrap(func(ctx context.Context) error {
		if g.sessions.CurrentRole(ctx) != role {
			g.nav.Replace(nav.Location{Path: g.fallbackPath})
			return ErrForbidden
		}
		return v(ctx)
	})
}
