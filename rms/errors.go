/*
errors.go - Centralized error types for the rate-management engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Validation errors - Invariant violations rejected synchronously
  2. Reconciliation errors - Save exclusion per rate code
  3. Persistence errors - Store get/set failures (always recoverable)

USAGE:
    if errors.Is(err, rms.ErrSaveInProgress) {
        // retry after the in-flight save resolves
    }

SEE ALSO:
  - matrix.go: Rejects non-positive prices
  - grid.go: Enforces at-most-one pending save per rate code
*/
package rms

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPrice is returned when a non-positive price is passed to a
	// set operation. Zero or negative means "no price"; delete instead.
	ErrInvalidPrice = errors.New("invalid price: must be positive")

	// ErrInvalidCoefficient is returned for a non-positive multiplier.
	ErrInvalidCoefficient = errors.New("invalid coefficient: must be positive")

	// ErrInvalidBasePrice is returned when a suggestion is requested from a
	// non-positive base price.
	ErrInvalidBasePrice = errors.New("invalid base price: must be positive")

	// ErrUnknownSeason is returned when a season is absent from the
	// catalogue or has no configured multiplier. Non-fatal for derivation:
	// callers skip the season rather than abort.
	ErrUnknownSeason = errors.New("unknown season")

	// ErrSaveInProgress is returned when a second save is attempted for a
	// rate code while one is already pending. Retry once it resolves.
	ErrSaveInProgress = errors.New("save already in progress")

	// ErrPersistenceFailure is returned when the backing store rejects a
	// read or write. Edits are retained for a manual retry.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrInvalidDateRange is returned for a season range ending before it starts.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrBaseSeasonLocked is returned when removing or overriding the base
	// season's multiplier, which is pinned to 1.
	ErrBaseSeasonLocked = errors.New("base season multiplier is fixed at 1")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PriceError identifies the cell that received an invalid price.
type PriceError struct {
	Season   SeasonName
	RateCode RateCode
	Vehicle  VehicleID
	Price    decimal.Decimal
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("invalid price %v for %s/%s/%s (use delete for no price)",
		e.Price, e.Season, e.RateCode, e.Vehicle)
}

func (e *PriceError) Unwrap() error { return ErrInvalidPrice }

// SaveInProgressError identifies which rate code's save is still pending.
type SaveInProgressError struct {
	RateCode RateCode
}

func (e *SaveInProgressError) Error() string {
	return fmt.Sprintf("save already in progress for rate code %s", e.RateCode)
}

func (e *SaveInProgressError) Unwrap() error { return ErrSaveInProgress }

// PersistenceError wraps a store failure with the key that was touched.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure on %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistenceFailure }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input that the
// caller should have validated.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCoefficient) ||
		errors.Is(err, ErrInvalidBasePrice) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrBaseSeasonLocked)
}

// IsRecoverable returns true if the operation might succeed on retry.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrSaveInProgress) ||
		errors.Is(err, ErrPersistenceFailure)
}
