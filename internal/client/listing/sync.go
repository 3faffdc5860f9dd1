// Package listing keeps the car list view, its query string and the active
// fetch in step.
//
// Every transition produces a new filter.State snapshot, writes its complete
// encoding through the QueryWriter and fetches the page for it. Fetches are
// keyed by snapshot value: equal snapshots share a cached page and a single
// in-flight request, and a result that arrives after a newer snapshot became
// current is dropped.
package listing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/filter"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ErrSuperseded is returned to a caller whose fetch finished after the
// filters had already moved on.
var ErrSuperseded = errors.New("listing superseded by newer filters")

const DefaultCacheTTL = 5 * time.Minute

// Fetcher loads one page of cars for the given API parameters.
type Fetcher interface {
	ListCars(ctx context.Context, params url.Values) (models.Page[models.Car], error)
}

// QueryWriter receives the full encoded query after each transition.
type QueryWriter interface {
	ReplaceQuery(rawQuery string)
}

// QueryWriterFunc adapts a function to QueryWriter.
type QueryWriterFunc func(rawQuery string)

func (f QueryWriterFunc) ReplaceQuery(rawQuery string) { f(rawQuery) }

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "idle"
}

// View is what the list shows for State. Page is only set when Ready.
type View struct {
	Status Status
	State  filter.State
	Page   models.Page[models.Car]
	Err    error
}

type cached struct {
	page      models.Page[models.Car]
	fetchedAt time.Time
}

type Synchronizer struct {
	fetcher  Fetcher
	query    QueryWriter
	log      logging.Logger
	now      func() time.Time
	ttl      time.Duration
	observer func(View)

	group singleflight.Group

	mu      sync.Mutex
	state   filter.State
	current filter.Key
	view    View
	cache   map[filter.Key]cached
}

type Option func(*Synchronizer)

func WithQueryWriter(w QueryWriter) Option {
	return func(s *Synchronizer) { s.query = w }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Synchronizer) { s.log = l.With("component", "listing") }
}

func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// WithCacheTTL bounds how long a fetched page is reused. Zero disables the
// cache; in-flight requests are still shared.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Synchronizer) { s.ttl = d }
}

// WithObserver registers a callback for every view change, Loading included.
func WithObserver(fn func(View)) Option {
	return func(s *Synchronizer) { s.observer = fn }
}

func New(fetcher Fetcher, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		fetcher: fetcher,
		log:     logging.Discard(),
		now:     time.Now,
		ttl:     DefaultCacheTTL,
		cache:   make(map[filter.Key]cached),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = filter.Defaults(s.now())
	s.current = s.state.Key()
	return s
}

// Mount decodes rawQuery into the initial state and loads it. The query is
// not rewritten on mount.
func (s *Synchronizer) Mount(ctx context.Context, rawQuery string) (View, error) {
	return s.load(ctx, filter.Decode(rawQuery, s.now()), false)
}

// Apply changes one filter key.
func (s *Synchronizer) Apply(ctx context.Context, key, value string) (View, error) {
	next, err := s.State().With(key, value)
	if err != nil {
		return s.View(), err
	}
	return s.load(ctx, next, true)
}

func (s *Synchronizer) ToggleFeature(ctx context.Context, name string) (View, error) {
	next, err := s.State().ToggleFeature(name)
	if err != nil {
		return s.View(), err
	}
	return s.load(ctx, next, true)
}

// Refresh drops the cached page of the current state and fetches it again.
func (s *Synchronizer) Refresh(ctx context.Context) (View, error) {
	s.mu.Lock()
	delete(s.cache, s.current)
	st := s.state
	s.mu.Unlock()
	return s.load(ctx, st, false)
}

// State returns the current snapshot.
func (s *Synchronizer) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns the latest published view.
func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Query returns the encoding of the current snapshot.
func (s *Synchronizer) Query() string { return filter.Encode(s.State()) }

func (s *Synchronizer) load(ctx context.Context, st filter.State, writeQuery bool) (View, error) {
	key := st.Key()

	s.mu.Lock()
	s.state = st
	s.current = key
	if c, ok := s.cache[key]; ok && s.fresh(c) {
		v := s.publishLocked(View{Status: StatusReady, State: st, Page: c.page})
		s.mu.Unlock()
		s.afterTransition(st, writeQuery, v)
		return v, nil
	}
	loading := s.publishLocked(View{Status: StatusLoading, State: st})
	s.mu.Unlock()
	s.afterTransition(st, writeQuery, loading)

	// callers that join the flight must not inherit the first caller's cancellation
	flightCtx := context.WithoutCancel(ctx)
	res, err, shared := s.group.Do(flightKey(key), func() (any, error) {
		return s.fetcher.ListCars(flightCtx, st.APIParams())
	})

	s.mu.Lock()
	if key != s.current {
		v := s.view
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale listing response", "query", filter.Encode(st), "shared", shared)
		return v, ErrSuperseded
	}

	var v View
	if err != nil {
		v = s.publishLocked(View{Status: StatusFailed, State: st, Err: err})
	} else {
		page := res.(models.Page[models.Car])
		if s.ttl > 0 {
			s.evictLocked()
			s.cache[key] = cached{page: page, fetchedAt: s.now()}
		}
		v = s.publishLocked(View{Status: StatusReady, State: st, Page: page})
	}
	s.mu.Unlock()

	s.notify(v)
	if err != nil {
		return v, fmt.Errorf("list cars: %w", err)
	}
	return v, nil
}

func (s *Synchronizer) afterTransition(st filter.State, writeQuery bool, v View) {
	if writeQuery && s.query != nil {
		s.query.ReplaceQuery(filter.Encode(st))
	}
	s.notify(v)
}

func (s *Synchronizer) publishLocked(v View) View {
	s.view = v
	return v
}

func (s *Synchronizer) notify(v View) {
	if s.observer != nil {
		s.observer(v)
	}
}

func (s *Synchronizer) fresh(c cached) bool {
	return s.ttl > 0 && s.now().Sub(c.fetchedAt) < s.ttl
}

func (s *Synchronizer) evictLocked() {
	for k, c := range s.cache {
		if !s.fresh(c) {
			delete(s.cache, k)
		}
	}
}

func flightKey(k filter.Key) string {
	return fmt.Sprintf("%#v", k)
}
