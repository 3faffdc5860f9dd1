// Package cli provides the interactive carmarket command-line client.
//
// It wires configuration, the local session store, the API client, the
// navigator and the services, and runs a REPL on top of them. Every view of
// the marketplace is a location (path plus query) the navigator moves to;
// commands such as "cars", "show" or "dashboard" push a location and render
// it, "back" returns to the previous one.
//
// Key features:
//   - Login / Register / Logout with the session kept in SQLite
//   - Car list with filters mirrored into the location query
//   - Car details, bids and test drive booking
//   - Selling a car with photo upload
//   - User and admin dashboards
//
// Views that need a session are wrapped by the auth guard; the admin views
// additionally require the admin role. A 401 from the API anywhere sends the
// user to the login view.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
