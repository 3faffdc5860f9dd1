package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/carmarket/internal/client/client"
	"github.com/dmitrijs2005/carmarket/internal/client/config"
	"github.com/dmitrijs2005/carmarket/internal/client/guard"
	"github.com/dmitrijs2005/carmarket/internal/client/listing"
	"github.com/dmitrijs2005/carmarket/internal/client/nav"
	"github.com/dmitrijs2005/carmarket/internal/client/services"
	"github.com/dmitrijs2005/carmarket/internal/client/session"
	"github.com/dmitrijs2005/carmarket/internal/client/storage"
	"github.com/dmitrijs2005/carmarket/internal/common"
	"github.com/dmitrijs2005/carmarket/internal/logging"
)

type App struct {
	out    io.Writer
	reader *bufio.Reader
	log    logging.Logger
	now    func() time.Time

	sessions session.Store
	nav      *nav.Navigator
	guard    *guard.Guard
	listing  *listing.Synchronizer

	authService      services.AuthService
	carService       services.CarService
	dashboardService services.DashboardService
	adminService     services.AdminService

	commands map[string]command
	closeFn  func() error
}

// NewApp opens the session store named by c.SessionDBPath (in memory when
// empty) and builds the API client, the navigator and the services on top
// of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	sessions, closeFn, err := openSessions(ctx, c.SessionDBPath)
	if err != nil {
		log.Error(ctx, "error initializing session store", "error", err)
		return nil, err
	}

	navigator := nav.New(nav.Location{Path: common.PathHome}, nav.WithLogger(log))

	api, err := client.New(c.APIBaseURL, sessions,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
		client.WithUnauthorizedHandler(navigator.Unauthorized),
	)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	a := &App{
		out:    os.Stdout,
		reader: bufio.NewReader(os.Stdin),
		log:    log,
		now:    time.Now,

		sessions: sessions,
		nav:      navigator,
		guard:    guard.New(sessions, navigator),

		authService:      services.NewAuthService(api, sessions, log),
		carService:       services.NewCarService(api),
		dashboardService: services.NewDashboardService(api, sessions),
		adminService:     services.NewAdminService(api),

		closeFn: closeFn,
	}
	a.listing = listing.New(api,
		listing.WithQueryWriter(navigator),
		listing.WithLogger(log),
		listing.WithObserver(a.onListingView),
	)
	a.init()
	return a, nil
}

// init registers the command table and the navigation listener. Tests that
// build an App by hand call it too.
func (a *App) init() {
	if a.now == nil {
		a.now = time.Now
	}
	if a.log == nil {
		a.log = logging.Discard()
	}
	a.commands = a.commandTable()
	a.nav.OnChange(a.onNavigate)
}

func openSessions(ctx context.Context, path string) (session.Store, func() error, error) {
	if path == "" {
		return session.NewMemoryStore(), func() error { return nil }, nil
	}
	db, err := storage.InitDatabase(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return session.NewStore(db), db.Close, nil
}

// Run prints the welcome banner and blocks in the REPL until the user exits
// or the input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to carmarket CLI (type 'help' for commands)")
	if s, ok := a.authService.Current(ctx); ok {
		fmt.Fprintf(a.out, "Signed in as %s\n", s.DisplayName)
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader), a.out)
}

func (a *App) Close() {
	if a.closeFn == nil {
		return
	}
	if err := a.closeFn(); err != nil {
		a.log.Error(context.Background(), "error closing session store", "error", err)
	}
	a.closeFn = nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.sessions.IsValid(ctx)
}

// getStatus renders the prompt prefix: current location and user name.
func (a *App) getStatus() string {
	ctx := context.Background()
	s := a.nav.Current().String()
	if sess, err := a.sessions.Get(ctx); err == nil && !sess.Empty() && a.isLoggedIn(ctx) {
		s = sess.DisplayName + " " + s
	}
	return s
}

// onNavigate tells the user when they were sent to the login view by
// something other than their own command.
func (a *App) onNavigate(from, to nav.Location) {
	if to.Path == common.PathLogin && from.Path != common.PathLogin {
		fmt.Fprintln(a.out, "Please log in to continue ('login').")
	}
}

func (a *App) onListingView(v listing.View) {
	if v.Status == listing.StatusLoading {
		fmt.Fprintln(a.out, "Loading...")
	}
}

// dashboardPath is where "dashboard" leads for the stored role.
func (a *App) dashboardPath(ctx context.Context) string {
	if a.sessions.CurrentRole(ctx) == session.RoleAdmin {
		return common.PathAdminDashboard
	}
	return common.PathDashboard
}
