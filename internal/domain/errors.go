package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by services. Wrap them with fmt.Errorf("...: %w", ErrX)
// and test with errors.Is; handlers map them onto HTTP status codes.
var (
	// ErrValidation marks malformed or missing input
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced entity that does not exist
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable marks a market data or news failure
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrPersistence marks a failed read or write against the store
	ErrPersistence = errors.New("persistence error")
)

// WrapPersistence tags a store failure with ErrPersistence while keeping the cause inspectable
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
