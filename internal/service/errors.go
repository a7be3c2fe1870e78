package service

import "errors"

// Sentinel errors raised at the service boundary. Handlers translate these
// to HTTP statuses; anything else surfaces as a generic 500.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrInvalid     = errors.New("invalid request")
	ErrConflict    = errors.New("conflicting state")
	ErrForbidden   = errors.New("not allowed")
	ErrUnavailable = errors.New("upstream service unavailable")
)
