// Package client talks to the marketplace REST API.
//
// # Overview
//
// HTTPClient is the single shared client. Every request gets the default
// JSON headers, a fresh X-Request-ID, and the stored bearer token when one is
// present (public endpoints included). Typed endpoint methods on top of it
// form the Client interface used by the services layer.
//
// # Unauthorized responses
//
// A 401 from any endpoint clears the session store, notifies the handler
// registered with WithUnauthorizedHandler, and is still returned to the
// caller as an error matching ErrUnauthorized. The client itself does not
// navigate anywhere.
//
// # Errors
//
//   - ErrUnavailable: transport failure (connection refused, timeout ...).
//   - *APIError: any non-2xx response; errors.Is matches ErrUnauthorized,
//     ErrForbidden, ErrNotFound and ErrValidation by status.
//
// Nothing is retried.
package client
