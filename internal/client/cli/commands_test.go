package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/config"
	"github.com/dmitrijs2005/carmarket/internal/client/models"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/client/services"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/common"
	"github.com/dmitrijs2005/carmarket/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultQuery = "make=&model=&minPrice=0&maxPrice=100000&minYear=2000&maxYear=2026" +
	"&transmission=&fuelType=&color=&bodyType=&ownerNumber=&features=&page=1"

type stubExec struct {
	calls []string
}

func (s *stubExec) Execute(_ context.Context, name string, args []string) bool {
	s.calls = append(s.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return name == "exit"
}

func TestRunREPL_DispatchAndQuit(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"help",
		"",
		"   ",
		"show 12",
		"filter make Land Rover",
		"exit",
		"help",
	}, "\n"))

	exec := &stubExec{}
	var out strings.Builder
	runREPL(context.Background(), exec, func() string { return "/" }, bufio.NewScanner(input), &out)

	assert.Equal(t, []string{"help", "show 12", "filter make Land Rover", "exit"}, exec.calls)
	assert.Contains(t, out.String(), "carmarket /> ")
}

func TestExecute_UnknownAndQuit(t *testing.T) {
	e := newTestEnv(t, "")

	assert.False(t, e.app.Execute(context.Background(), "frobnicate", nil))
	assert.Contains(t, e.out.String(), "Unknown command: frobnicate")

	assert.True(t, e.app.Execute(context.Background(), "quit", nil))
	assert.Contains(t, e.out.String(), "Bye!")
}

func TestExecute_UsageOnBadArguments(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("show")
	assert.Contains(t, e.out.String(), "Usage: show <id>")

	e.out.Reset()
	e.run("show abc")
	assert.Contains(t, e.out.String(), `error: invalid id "abc"`)
}

func TestHelp_DependsOnSession(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("help")
	out := e.out.String()
	assert.Contains(t, out, "login")
	assert.Contains(t, out, "cars [query]")
	assert.NotContains(t, out, "bid <id> <amount>")
	assert.NotContains(t, out, "setrole")

	e.out.Reset()
	e.login(t, session.RoleUser)
	e.run("help")
	out = e.out.String()
	assert.Contains(t, out, "bid <id> <amount>")
	assert.Contains(t, out, "logout")
	assert.NotContains(t, out, "setrole")

	e.out.Reset()
	e.login(t, session.RoleAdmin)
	e.run("help")
	assert.Contains(t, e.out.String(), "setrole")
}

func TestGuardedCommand_ReplacesWithLogin(t *testing.T) {
	e := newTestEnv(t, "")

	e.run("cars", "sell")

	assert.Equal(t, nav.Location{Path: common.PathLogin}, e.nav.Current())
	assert.Contains(t, e.out.String(), "Please log in to continue")
	assert.Nil(t, e.cars.listed)

	// the sell view was replaced, so back skips it
	loc, ok := e.nav.Back()
	require.True(t, ok)
	assert.Equal(t, common.PathCarList, loc.Path)
}

func TestGuardedAction_NoNetworkWithoutSession(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("bid 5 12000")

	assert.Empty(t, e.cars.getIDs)
	assert.Equal(t, common.PathLogin, e.nav.Current().Path)
}

func TestGuard_ExpiredTokenIsRefused(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, e.sessions.Set(context.Background(), session.Session{
		Token: signedToken(t, time.Now().Add(-time.Minute)), Role: session.RoleUser, DisplayName: "Ann",
	}))

	e.run("dashboard")
	assert.Equal(t, common.PathLogin, e.nav.Current().Path)
}

func TestAdmin_RequiresRole(t *testing.T) {
	e := newTestEnv(t, "")
	e.login(t, session.RoleUser)

	e.run("admin")
	assert.Equal(t, common.PathDashboard, e.nav.Current().Path)
	assert.Contains(t, e.out.String(), "error: admin access required")

	e.out.Reset()
	e.run("deleteuser 3")
	assert.Contains(t, e.out.String(), "admin access required")
	assert.Empty(t, e.admin.calls)
}

func TestCars_FilterTransitionsRewriteQuery(t *testing.T) {
	e := newTestEnv(t, "")

	e.run("cars")
	assert.Equal(t, nav.Location{Path: common.PathCarList}, e.nav.Current(), "mount keeps the query as given")
	assert.Contains(t, e.out.String(), "Audi A4")
	assert.Contains(t, e.out.String(), "Page 1 of 1 (1 cars)")

	e.run("filter make BMW")
	assert.Equal(t, strings.Replace(defaultQuery, "make=", "make=BMW", 1), e.nav.Current().Query)
	assert.Equal(t, "BMW", e.fetcher.last().Get("make"))
	assert.Equal(t, "1", e.fetcher.last().Get("page"))

	e.run("page 3")
	assert.True(t, strings.HasSuffix(e.nav.Current().Query, "&page=3"))
	assert.Equal(t, "3", e.fetcher.last().Get("page"))

	e.run("feature Rear Camera")
	q := e.nav.Current().Query
	assert.Contains(t, q, "features=Rear+Camera")
	assert.True(t, strings.HasSuffix(q, "&page=1"), "filter changes reset the page")
	assert.Equal(t, "Rear Camera", e.fetcher.last().Get("features"))

	// transitions replace the location, history only has home
	assert.Equal(t, []nav.Location{{Path: common.PathHome}}, e.nav.History())
}

func TestCars_MountFromQuery(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("cars ?make=Audi&page=2&features=ABS,Sunroof")

	assert.Equal(t, "make=Audi&page=2&features=ABS,Sunroof", e.nav.Current().Query)
	p := e.fetcher.last()
	assert.Equal(t, "Audi", p.Get("make"))
	assert.Equal(t, "2", p.Get("page"))
	assert.Equal(t, "ABS,Sunroof", p.Get("features"))
	assert.Equal(t, "100000", p.Get("max_price"))
}

func TestCars_FilterFromElsewhereOpensList(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("filter color red")

	assert.Equal(t, common.PathCarList, e.nav.Current().Path)
	assert.Contains(t, e.nav.Current().Query, "color=red")
}

func TestCars_UnknownFilterAndFailure(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("cars", "filter wheels 4")
	assert.Contains(t, e.out.String(), `Unknown filter "wheels"`)

	e.out.Reset()
	e.fetcher.err = fmt.Errorf("list: %w", client.ErrUnavailable)
	e.run("filter make Kia")
	assert.Contains(t, e.out.String(), "error: service unavailable, try again later")
	assert.NotContains(t, e.out.String(), "Audi A4", "no stale data after a failure")
}

func TestCars_EmptyResult(t *testing.T) {
	e := newTestEnv(t, "")
	e.fetcher.page = models.Page[models.Car]{CurrentPage: 1, LastPage: 1}
	e.run("cars")
	assert.Contains(t, e.out.String(), "No cars match these filters.")
}

func TestShowAndBack(t *testing.T) {
	e := newTestEnv(t, "")
	e.run("cars", "show 5")

	assert.Equal(t, nav.Location{Path: "/cars/5"}, e.nav.Current())
	assert.Contains(t, e.out.String(), "BMW 320d (#5)")
	assert.Contains(t, e.out.String(), "$10,000")
	assert.Contains(t, e.out.String(), "No bids yet.")

	e.out.Reset()
	e.run("back")
	assert.Equal(t, common.PathCarList, e.nav.Current().Path)
	assert.Contains(t, e.out.String(), "Audi A4")

	e.run("back", "back")
	assert.Contains(t, e.out.String(), "Nothing to go back to.")
}

func TestOpen(t *testing.T) {
	e := newTestEnv(t, "")

	e.run("open /nowhere")
	assert.Contains(t, e.out.String(), "No such page: /nowhere")

	e.run("open cars/list?make=Seat")
	assert.Equal(t, nav.Location{Path: common.PathCarList, Query: "make=Seat"}, e.nav.Current())
	assert.Equal(t, "Seat", e.fetcher.last().Get("make"))

	e.run("open /admin")
	assert.Equal(t, common.PathLogin, e.nav.Current().Path)
}

func TestBid(t *testing.T) {
	e := newTestEnv(t, "")
	e.login(t, session.RoleUser)

	e.run("show 5", "bid 5 $12,000")
	assert.Equal(t, 12000.0, e.cars.bidAmount)
	assert.Contains(t, e.out.String(), "Bid of $12,000 placed on BMW 320d.")
	assert.Equal(t, []int64{5, 5, 5}, e.cars.getIDs, "the car view is reloaded after a bid")

	e.out.Reset()
	e.cars.bidErr = fmt.Errorf("%w: bid amount must be more than $10000", services.ErrBidTooLow)
	e.run("bid 5 100")
	assert.Contains(t, e.out.String(), "error: bid too low: bid amount must be more than $10000")
}

func TestBid_APIMessageShown(t *testing.T) {
	e := newTestEnv(t, "")
	e.login(t, session.RoleUser)
	e.cars.bidErr = fmt.Errorf("error placing bid: %w", &client.APIError{Status: 422, Message: "Bidding has closed"})

	e.run("bid 5 20000")
	assert.Contains(t, e.out.String(), "error: Bidding has closed")
}

func TestTestDrive(t *testing.T) {
	e := newTestEnv(t, "")
	e.login(t, session.RoleUser)

	e.run("testdrive 5 2026-04-01 10:30")
	want := time.Date(2026, 4, 1, 10, 30, 0, 0, time.Local)
	assert.True(t, want.Equal(e.cars.driveAt), "got %v", e.cars.driveAt)
	assert.Contains(t, e.out.String(), "Test drive booked successfully for 2026-04-01 10:30.")

	e.out.Reset()
	e.run("testdrive 5 soon")
	assert.Contains(t, e.out.String(), "invalid date")
}

func TestLogin(t *testing.T) {
	stubPasswords(t, "s3cret-pass")
	e := newTestEnv(t, "ann@example.com\ny\n")
	e.auth.loginSession = session.Session{
		Token: signedToken(t, time.Now().Add(time.Hour)), Role: session.RoleUser, DisplayName: "Ann",
	}

	e.run("login")

	assert.Equal(t, "ann@example.com", e.auth.loginEmail)
	assert.Equal(t, "s3cret-pass", e.auth.loginPass)
	assert.True(t, e.auth.remember)
	assert.Contains(t, e.out.String(), "Welcome, Ann!")
	assert.Equal(t, common.PathDashboard, e.nav.Current().Path)
	assert.Equal(t, "Ann "+common.PathDashboard, e.app.getStatus())
}

func TestLogin_AdminLandsOnAdminDashboard(t *testing.T) {
	stubPasswords(t, "pw")
	e := newTestEnv(t, "root@example.com\n\n")
	e.auth.loginSession = session.Session{
		Token: signedToken(t, time.Now().Add(time.Hour)), Role: session.RoleAdmin, DisplayName: "Root",
	}

	e.run("login")
	assert.False(t, e.auth.remember)
	assert.Equal(t, common.PathAdminDashboard, e.nav.Current().Path)
}

func TestLogin_Failure(t *testing.T) {
	stubPasswords(t, "wrong")
	e := newTestEnv(t, "ann@example.com\nn\n")
	e.auth.loginErr = fmt.Errorf("login error: %w", &client.APIError{Status: 401, Message: "Invalid credentials"})

	e.run("login")
	out := e.out.String()
	assert.Contains(t, out, "Login failed.")
	assert.Equal(t, common.PathHome, e.nav.Current().Path)
}

func TestRegister(t *testing.T) {
	stubPasswords(t, "password1", "password1")
	e := newTestEnv(t, "Ann\nann@example.com\n")

	e.run("register")

	require.NotNil(t, e.auth.registered)
	assert.Equal(t, models.RegisterRequest{
		Name: "Ann", Email: "ann@example.com", Password: "password1", PasswordConfirmation: "password1",
	}, *e.auth.registered)
	assert.Equal(t, common.PathLogin, e.nav.Current().Path)
}

func TestRegister_ValidationShown(t *testing.T) {
	stubPasswords(t, "password1", "password2")
	e := newTestEnv(t, "Ann\nann@example.com\n")
	e.auth.registerErr = &services.InputError{Fields: []services.FieldError{{Field: "password_confirmation", Message: "passwords do not match"}}}

	e.run("register")
	assert.Contains(t, e.out.String(), "error: passwords do not match")
	assert.Equal(t, common.PathHome, e.nav.Current().Path)
}

func TestLogoutAndWhoAmI(t *testing.T) {
	e := newTestEnv(t, "")
	e.login(t, session.RoleUser)

	e.run("whoami")
	assert.Contains(t, e.out.String(), "Ann (user)")

	e.run("logout", "whoami")
	assert.Equal(t, 1, e.auth.logoutCalls)
	assert.Equal(t, common.PathLogin, e.nav.Current().Path)
	assert.Contains(t, e.out.String(), "Not logged in.")
	assert.Equal(t, common.PathLogin, e.app.getStatus())
}

func TestSell(t *testing.T) {
	input := strings.Join([]string{
		"Nice car", "Toyota", "Corolla", "Riga", "2018", "$8,500",
		"One owner, full history", "",
		"y",
		"120000", "km", "Petrol", "Manual", "1", "Blue", "Sedan", "2018", "2026-12-31", "1600", "GL",
		"abs, Rear Camera",
		"/tmp/a.jpg", "/tmp/b.png", "",
	}, "\n") + "\n"
	e := newTestEnv(t, input)
	e.login(t, session.RoleUser)

	e.run("sell")

	require.NotNil(t, e.cars.listed)
	f := *e.cars.listed
	assert.Equal(t, "Nice car", f.Title)
	assert.Equal(t, 2018, f.Year)
	assert.Equal(t, 8500.0, f.Price)
	assert.Equal(t, "One owner, full history", f.Description)
	assert.Equal(t, int64(120000), f.Mileage)
	assert.Equal(t, "GL", f.Variant)
	require.NotNil(t, f.ABS)
	assert.True(t, *f.ABS)
	require.NotNil(t, f.RearCamera)
	assert.True(t, *f.RearCamera)
	require.NotNil(t, f.Sunroof)
	assert.False(t, *f.Sunroof)
	assert.Equal(t, []string{"/tmp/a.jpg", "/tmp/b.png"}, f.Images)

	assert.Contains(t, e.out.String(), "Car listed successfully! (#77)")
	assert.Equal(t, common.PathDashboard, e.nav.Current().Path)
}

func TestSell_BadNumber(t *testing.T) {
	e := newTestEnv(t, "Nice car\nToyota\nCorolla\nRiga\nlast year\n")
	e.login(t, session.RoleUser)

	e.run("sell")
	assert.Nil(t, e.cars.listed)
	assert.Contains(t, e.out.String(), "error: year must be a number")
}

func TestDashboardTabs(t *testing.T) {
	e := newTestEnv(t, "")
	e.login(t, session.RoleUser)
	e.dash.listings = []models.Car{{ID: 3, Title: "Golf", Year: 2015, Price: 7000}}
	e.dash.bids = []models.Bid{{ID: 9, Amount: 7500, Status: models.StatusPending, Car: &models.CarRef{Title: "Polo"}}}

	e.run("dashboard")
	assert.Equal(t, nav.Location{Path: common.PathDashboard}, e.nav.Current())
	assert.Contains(t, e.out.String(), "Golf")

	e.run("dashboard bids")
	assert.Equal(t, nav.Location{Path: common.PathDashboard, Query: "tab=bids"}, e.nav.Current())
	assert.Contains(t, e.out.String(), "Polo")
	assert.Contains(t, e.out.String(), "$7,500")

	e.run("dashboard testdrives")
	assert.Contains(t, e.out.String(), "No test drives.")

	e.out.Reset()
	e.run("dashboard garage")
	assert.Contains(t, e.out.String(), "Usage: dashboard")
}

func TestEditProfile(t *testing.T) {
	stubPasswords(t, "")
	e := newTestEnv(t, "\nnew@example.com\n")
	e.login(t, session.RoleUser)
	e.dash.user = models.User{ID: 1, Name: "Ann", Email: "ann@example.com"}

	e.run("profile")

	require.NotNil(t, e.dash.profile)
	assert.Equal(t, models.Profile{Name: "Ann", Email: "new@example.com"}, *e.dash.profile)
	assert.Contains(t, e.out.String(), "Profile updated: Ann <new@example.com>")
}

func TestEditListing_SendsOnlyChanges(t *testing.T) {
	e := newTestEnv(t, "\nAudi\n\n2020\n\n\n")
	e.login(t, session.RoleUser)

	e.run("editlisting 4")

	require.NotNil(t, e.dash.update)
	upd := *e.dash.update
	assert.Nil(t, upd.Title)
	require.NotNil(t, upd.Make)
	assert.Equal(t, "Audi", *upd.Make)
	require.NotNil(t, upd.Year)
	assert.Equal(t, 2020, *upd.Year)
	assert.Nil(t, upd.Price)
	assert.Nil(t, upd.Description)
}

func TestDeleteListingAndAccount(t *testing.T) {
	e := newTestEnv(t, "n\ny\ny\n")
	e.login(t, session.RoleUser)

	e.run("deletelisting 4")
	assert.Zero(t, e.dash.deletedID, "declined")

	e.run("deletelisting 4")
	assert.Equal(t, int64(4), e.dash.deletedID)

	e.run("deleteaccount")
	assert.True(t, e.dash.deleted)
	assert.Equal(t, common.PathHome, e.nav.Current().Path)
}

func TestAdminDashboardAndActions(t *testing.T) {
	e := newTestEnv(t, "y\nn\n")
	e.login(t, session.RoleAdmin)
	e.admin.users = []models.User{{ID: 3, Name: "Bob", Email: "bob@example.com", Role: "user"}}

	e.run("dashboard")
	assert.Equal(t, common.PathAdminDashboard, e.nav.Current().Path)
	out := e.out.String()
	assert.Contains(t, out, "Users: 1  Cars: 0  Test drives: 2  Bids: 3")
	assert.Contains(t, out, "bob@example.com")

	e.run("admin bids")
	assert.Equal(t, nav.Location{Path: common.PathAdminDashboard, Query: "tab=bids"}, e.nav.Current())
	assert.Contains(t, e.out.String(), "No bids.")

	e.run(
		"setrole 3 admin",
		"deleteuser 3", // y
		"deletecar 8",  // n
		"drivestatus 2 approved",
		"bidstatus 4 rejected",
	)
	assert.Equal(t, []string{"role 3 admin", "deleteuser 3", "drive 2 approved", "bid 4 rejected"}, e.admin.calls)

	e.out.Reset()
	e.run("setrole 3")
	assert.Contains(t, e.out.String(), "Usage: setrole")
}

func TestNewApp_UnauthorizedRedirectsToLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	defer srv.Close()

	cfg := &config.Config{APIBaseURL: srv.URL + "/api", RequestTimeout: time.Second}
	a, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	var out strings.Builder
	a.out = &out
	ctx := context.Background()
	require.NoError(t, a.sessions.Set(ctx, session.Session{
		Token: signedToken(t, time.Now().Add(time.Hour)), Role: session.RoleUser, DisplayName: "Ann",
	}))

	a.Execute(ctx, "show", []string{"1"})

	assert.Equal(t, nav.Location{Path: common.PathLogin}, a.nav.Current())
	assert.Contains(t, out.String(), "Please log in to continue")
	assert.False(t, a.sessions.IsValid(ctx))
	s, err := a.sessions.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.Empty())

	// back returns to the view that failed
	history := a.nav.History()
	require.NotEmpty(t, history)
	assert.Equal(t, "/cars/1", history[len(history)-1].Path)
}

func TestNewApp_ListingOverHTTP(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"title":"Skoda Octavia","year":2017,"price":9900}],"meta":{"current_page":1,"last_page":4,"total":37}}`))
	}))
	defer srv.Close()

	cfg := &config.Config{APIBaseURL: srv.URL, RequestTimeout: time.Second}
	a, err := NewApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	var out strings.Builder
	a.out = &out
	a.Execute(context.Background(), "cars", []string{"make=Skoda"})

	assert.Contains(t, gotQuery, "make=Skoda")
	assert.Contains(t, gotQuery, "min_year=2000")
	assert.Contains(t, out.String(), "Loading...")
	assert.Contains(t, out.String(), "Skoda Octavia")
	assert.Contains(t, out.String(), "Page 1 of 4 (37 cars)")
}

func TestNewApp_BadConfig(t *testing.T) {
	_, err := NewApp(context.Background(), &config.Config{APIBaseURL: "not a url"}, logging.Discard())
	require.Error(t, err)

	_, err = NewApp(context.Background(), &config.Config{
		APIBaseURL:    "http://localhost",
		SessionDBPath: t.TempDir() + "/missing/dir/s.db",
	}, logging.Discard())
	require.Error(t, err)
}

func TestReport_UnauthorizedIsQuiet(t *testing.T) {
	e := newTestEnv(t, "")
	e.app.report(context.Background(), command{usage: "x"}, fmt.Errorf("wrapped: %w", &client.APIError{Status: 401}))
	assert.Empty(t, e.out.String())

	e.app.report(context.Background(), command{usage: "x"}, errors.New("boom"))
	assert.Equal(t, "error: boom\n", e.out.String())
}
