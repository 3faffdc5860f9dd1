package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/guard"
	"github.com/dmitrijs2005/carmarket/internal/client/listing"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/client/services"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/common"
	"github.com/dmitrijs2005/carmarket/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// ------------ fakes ------------

type fakeAuth struct {
	services.AuthService
	sessions session.Store

	loginSession session.Session
	loginErr     error
	loginEmail   string
	loginPass    string
	remember     bool

	registered  *models.RegisterRequest
	registerErr error

	logoutCalls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string, remember bool) (session.Session, error) {
	f.loginEmail, f.loginPass, f.remember = email, password, remember
	if f.loginErr != nil {
		return session.Session{}, f.loginErr
	}
	if err := f.sessions.Set(ctx, f.loginSession); err != nil {
		return session.Session{}, err
	}
	return f.loginSession, nil
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) error {
	f.registered = &req
	return f.registerErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.sessions.Clear(ctx)
}

func (f *fakeAuth) Current(ctx context.Context) (session.Session, bool) {
	s, err := f.sessions.Get(ctx)
	if err != nil || s.Empty() {
		return session.Session{}, false
	}
	return s, f.sessions.IsValid(ctx)
}

type fakeCars struct {
	services.CarService

	car    models.Car
	getErr error
	getIDs []int64

	bidAmount float64
	bidErr    error

	driveAt  time.Time
	driveErr error

	listed    *models.ListingForm
	listedErr error
}

func (f *fakeCars) Get(_ context.Context, id int64) (models.Car, error) {
	f.getIDs = append(f.getIDs, id)
	if f.getErr != nil {
		return models.Car{}, f.getErr
	}
	c := f.car
	c.ID = id
	return c, nil
}

func (f *fakeCars) PlaceBid(_ context.Context, car models.Car, amount float64) (models.Bid, error) {
	f.bidAmount = amount
	if f.bidErr != nil {
		return models.Bid{}, f.bidErr
	}
	return models.Bid{ID: 1, CarID: car.ID, Amount: amount}, nil
}

func (f *fakeCars) BookTestDrive(_ context.Context, _ models.Car, at time.Time) (models.TestDrive, error) {
	f.driveAt = at
	if f.driveErr != nil {
		return models.TestDrive{}, f.driveErr
	}
	return models.TestDrive{ID: 1, ScheduledTime: at, Status: models.StatusPending}, nil
}

func (f *fakeCars) CreateListing(_ context.Context, form models.ListingForm) (models.Car, error) {
	f.listed = &form
	if f.listedErr != nil {
		return models.Car{}, f.listedErr
	}
	return models.Car{ID: 77, Title: form.Title}, nil
}

type fakeDashboard struct {
	services.DashboardService

	user     models.User
	listings []models.Car
	bids     []models.Bid
	drives   []models.TestDrive

	profile   *models.Profile
	update    *models.CarUpdate
	deletedID int64
	deleted   bool
}

func (f *fakeDashboard) Profile(context.Context) (models.User, error) { return f.user, nil }

func (f *fakeDashboard) UpdateProfile(_ context.Context, p models.Profile) (models.User, error) {
	f.profile = &p
	return models.User{ID: f.user.ID, Name: p.Name, Email: p.Email}, nil
}

func (f *fakeDashboard) DeleteAccount(context.Context) error { f.deleted = true; return nil }

func (f *fakeDashboard) Listings(context.Context) ([]models.Car, error) { return f.listings, nil }

func (f *fakeDashboard) UpdateListing(_ context.Context, id int64, upd models.CarUpdate) (models.Car, error) {
	f.update = &upd
	return models.Car{ID: id, Title: "Updated", Price: 9000}, nil
}

func (f *fakeDashboard) DeleteListing(_ context.Context, id int64) error {
	f.deletedID = id
	return nil
}

func (f *fakeDashboard) Bids(context.Context) ([]models.Bid, error)             { return f.bids, nil }
func (f *fakeDashboard) TestDrives(context.Context) ([]models.TestDrive, error) { return f.drives, nil }

type fakeAdmin struct {
	services.AdminService

	users []models.User
	cars  []models.Car

	calls []string
}

func (f *fakeAdmin) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeAdmin) Summary(context.Context) (services.Summary, error) {
	return services.Summary{Users: len(f.users), Cars: len(f.cars), TestDrives: 2, Bids: 3}, nil
}
func (f *fakeAdmin) Users(context.Context) ([]models.User, error) { return f.users, nil }
func (f *fakeAdmin) Cars(context.Context) ([]models.Car, error)   { return f.cars, nil }
func (f *fakeAdmin) TestDrives(context.Context) ([]models.TestDrive, error) {
	return nil, nil
}
func (f *fakeAdmin) Bids(context.Context) ([]models.Bid, error) { return nil, nil }

func (f *fakeAdmin) SetUserRole(_ context.Context, id int64, role string) error {
	f.record("role %d %s", id, role)
	return nil
}
func (f *fakeAdmin) DeleteUser(_ context.Context, id int64) error {
	f.record("deleteuser %d", id)
	return nil
}
func (f *fakeAdmin) DeleteCar(_ context.Context, id int64) error {
	f.record("deletecar %d", id)
	return nil
}
func (f *fakeAdmin) SetTestDriveStatus(_ context.Context, id int64, status string) error {
	f.record("drive %d %s", id, status)
	return nil
}
func (f *fakeAdmin) DeleteTestDrive(_ context.Context, id int64) error {
	f.record("deletedrive %d", id)
	return nil
}
func (f *fakeAdmin) SetBidStatus(_ context.Context, id int64, status string) error {
	f.record("bid %d %s", id, status)
	return nil
}
func (f *fakeAdmin) DeleteBid(_ context.Context, id int64) error {
	f.record("deletebid %d", id)
	return nil
}

type fakeFetcher struct {
	mu     sync.Mutex
	page   models.Page[models.Car]
	err    error
	params []url.Values
}

func (f *fakeFetcher) ListCars(_ context.Context, params url.Values) (models.Page[models.Car], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, params)
	return f.page, f.err
}

func (f *fakeFetcher) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.params) == 0 {
		return nil
	}
	return f.params[len(f.params)-1]
}

// ------------ helpers ------------

type testEnv struct {
	app      *App
	out      *bytes.Buffer
	sessions *session.MemoryStore
	nav      *nav.Navigator
	auth     *fakeAuth
	cars     *fakeCars
	dash     *fakeDashboard
	admin    *fakeAdmin
	fetcher  *fakeFetcher
}

// newTestEnv builds an App over fakes; input is what the user types.
func newTestEnv(t *testing.T, input string) *testEnv {
	t.Helper()

	sessions := session.NewMemoryStore()
	navigator := nav.New(nav.Location{Path: common.PathHome})
	e := &testEnv{
		out:      &bytes.Buffer{},
		sessions: sessions,
		nav:      navigator,
		auth:     &fakeAuth{sessions: sessions},
		cars:     &fakeCars{car: models.Car{Title: "BMW 320d", Make: "BMW", Model: "320d", Year: 2019, Price: 10000, Status: models.CarStatusAvailable}},
		dash:     &fakeDashboard{},
		admin:    &fakeAdmin{},
		fetcher: &fakeFetcher{page: models.Page[models.Car]{
			Data:        []models.Car{{ID: 1, Title: "Audi A4", Year: 2018, Price: 15000}},
			CurrentPage: 1, LastPage: 1, Total: 1,
		}},
	}

	e.app = &App{
		out:    e.out,
		reader: rdr(input),
		log:    logging.Discard(),
		now:    func() time.Time { return testNow },

		sessions: sessions,
		nav:      navigator,
		guard:    guard.New(sessions, navigator),
		listing: listing.New(e.fetcher,
			listing.WithQueryWriter(navigator),
			listing.WithClock(func() time.Time { return testNow }),
		),

		authService:      e.auth,
		carService:       e.cars,
		dashboardService: e.dash,
		adminService:     e.admin,
	}
	e.app.init()
	return e
}

func (e *testEnv) login(t *testing.T, role session.Role) {
	t.Helper()
	require.NoError(t, e.sessions.Set(context.Background(), session.Session{
		Token:       signedToken(t, time.Now().Add(time.Hour)),
		Role:        role,
		DisplayName: "Ann",
	}))
}

func (e *testEnv) run(cmds ...string) {
	for _, c := range cmds {
		parts := strings.Fields(c)
		e.app.Execute(context.Background(), parts[0], parts[1:])
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(pws) == 0 {
			return nil, io.EOF
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
}
