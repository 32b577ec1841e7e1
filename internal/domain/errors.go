package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrInvalidInput = errors.New("domain: invalid input")

	// ErrRoutingUnavailable distinguishes directory read/write failures from
	// the valid no-candidate outcome, so callers queue the case instead of
	// silently dropping it.
	ErrRoutingUnavailable = errors.New("domain: routing unavailable")
)
