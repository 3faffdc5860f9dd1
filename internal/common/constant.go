// Package common contains shared constants and helpers used across
// the carmarket client components.
package common

// Outbound HTTP header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Keys under which the session is kept in the local key/value store.
// The names follow the ones the web client used in browser storage.
const (
	StorageKeyToken    = "access_token"
	StorageKeyRole     = "user_role"
	StorageKeyUserName = "user_name"
)

// Well-known view paths of the client.
const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathCarList        = "/cars/list"
	PathSellCar        = "/sell-car"
	PathDashboard      = "/dashboard"
	PathAdminDashboard = "/admin"
)
