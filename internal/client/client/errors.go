package client

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable  = errors.New("service unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status    int
	Message   string
	Errors    map[string][]string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(http.StatusText(e.Status))
	}
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, msg)
	}

	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	details := make([]string, 0, len(fields))
	for _, f := range fields {
		details = append(details, f+": "+strings.Join(e.Errors[f], ", "))
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, msg, strings.Join(details, "; "))
}

// Is maps the status code onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// UserMessage returns the text to show a user for err: the API message when
// there is one, otherwise a generic description.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrUnavailable):
		return "service unavailable, try again later"
	case err != nil && fallback == "":
		return err.Error()
	}
	return fallback
}
