package domain

import (
	"errors"
	"fmt"
)

// Directions provider failures. The generation workflow does not retry any
// of these; the editor retries manually.
var (
	// ErrProviderUnavailable covers network failures, timeouts, and 5xx
	// responses from the directions provider.
	ErrProviderUnavailable = errors.New("directions provider unavailable")

	// ErrNoRouteFound means the provider answered but could not connect the
	// given points by road.
	ErrNoRouteFound = errors.New("no route found between the given points")

	// ErrInvalidRequest means the provider rejected the request, or the
	// caller violated the two-point minimum.
	ErrInvalidRequest = errors.New("invalid directions request")
)

// ErrGeometryNotSaved marks a generation that succeeded but whose result
// could not be persisted. It is deliberately distinct from provider errors:
// the editor must know the new geometry is not live, not that generation
// failed.
var ErrGeometryNotSaved = errors.New("route generated but not saved")

// ErrDocumentNotFound is returned by the document store when no document
// exists for a day index.
var ErrDocumentNotFound = errors.New("route document not found")

// ValidationError reports an editor input problem caught before any network
// call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
