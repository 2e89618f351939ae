package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrCheckInProgress indicates a check for the same domain is already running.
	ErrCheckInProgress = errors.New("check in progress")

	// Provider Errors.

	// ErrProviderNotConfigured indicates the ranking provider cannot be called,
	// typically because no API key is set. It aborts a check run before any lookup.
	ErrProviderNotConfigured = errors.New("ranking provider API key not configured")

	// ErrRateLimited indicates the provider rejected the request with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotRanked indicates the domain does not appear in the returned results.
	ErrNotRanked = fmt.Errorf("not found in first %d", ResultCount)
)

// ProviderStatusError is returned by a ranking provider for a non-2xx response.
type ProviderStatusError struct {
	StatusCode int
}

// Error renders the status the way it appears in reports.
func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrRateLimited) match a 429 response.
func (e *ProviderStatusError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == 429
}
