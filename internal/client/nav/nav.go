// Package nav tracks where the user is in the client: the current location
// and the history behind it.
package nav

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/carmarket/internal/common"
	"github.com/dmitrijs2005/carmarket/internal/logging"
)

// Location is a view path plus its raw query, e.g. /cars/list?make=bmw.
type Location struct {
	Path  string
	Query string
}

// ParseLocation splits s at the first "?". A missing leading slash is added
// and an empty path means home.
func ParseLocation(s string) Location {
	s = strings.TrimSpace(s)
	path, query, _ := strings.Cut(s, "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return Location{Path: path, Query: query}
}

func (l Location) String() string {
	if l.Query == "" {
		return l.Path
	}
	return l.Path + "?" + l.Query
}

// Listener is told about every location change.
type Listener func(from, to Location)

type Navigator struct {
	mu        sync.Mutex
	current   Location
	history   []Location
	listeners []Listener
	log       logging.Logger
	loginPath string
}

type Option func(*Navigator)

func WithLogger(l logging.Logger) Option {
	return func(n *Navigator) { n.log = l.With("component", "nav") }
}

// WithLoginPath overrides where Unauthorized sends the user.
func WithLoginPath(p string) Option {
	return func(n *Navigator) { n.loginPath = p }
}

func New(start Location, opts ...Option) *Navigator {
	n := &Navigator{
		current:   start,
		log:       logging.Discard(),
		loginPath: common.PathLogin,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OnChange registers l; listeners run after the navigator lock is released.
func (n *Navigator) OnChange(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History returns the entries Back would return, oldest first.
func (n *Navigator) History() []Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Location, len(n.history))
	copy(out, n.history)
	return out
}

// Push moves to loc and keeps the current location in history. Navigating to
// the current location is a no-op and reports false.
func (n *Navigator) Push(loc Location) bool {
	n.mu.Lock()
	from := n.current
	if loc == from {
		n.mu.Unlock()
		return false
	}
	n.history = append(n.history, from)
	n.current = loc
	listeners := n.listeners
	n.mu.Unlock()

	n.emit(listeners, from, loc)
	return true
}

// Replace moves to loc without adding a history entry, so Back skips the
// location being left.
func (n *Navigator) Replace(loc Location) {
	n.mu.Lock()
	from := n.current
	n.current = loc
	listeners := n.listeners
	n.mu.Unlock()

	if from != loc {
		n.emit(listeners, from, loc)
	}
}

// ReplaceQuery swaps the query of the current location in place.
func (n *Navigator) ReplaceQuery(rawQuery string) {
	loc := n.Current()
	loc.Query = rawQuery
	n.Replace(loc)
}

// Back returns to the previous location, if any.
func (n *Navigator) Back() (Location, bool) {
	n.mu.Lock()
	if len(n.history) == 0 {
		cur := n.current
		n.mu.Unlock()
		return cur, false
	}
	from := n.current
	n.current = n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	to := n.current
	listeners := n.listeners
	n.mu.Unlock()

	n.emit(listeners, from, to)
	return to, true
}

// Unauthorized is the single listener for 401 responses: it sends the user
// to the login view. Repeated calls while already there do nothing.
func (n *Navigator) Unauthorized(ctx context.Context) {
	login := Location{Path: n.loginPath}
	if n.Push(login) {
		n.log.Info(ctx, "session rejected by the API, redirecting to login")
	}
}

func (n *Navigator) emit(listeners []Listener, from, to Location) {
	for _, l := range listeners {
		l(from, to)
	}
}
