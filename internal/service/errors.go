// Package service implements the reservation assignment core: time
// window validation, duplicate-booking guards and the locked best-fit
// table assignment.  This file defines the sentinel errors handlers
// use to tell validation failures, conflicts and missing records
// apart.
package service

import "errors"

// Validation failures; rejected before any storage interaction.
var (
	ErrInvalidGuestsCount = errors.New("guests count must be at least 1")
	ErrStartNotInFuture   = errors.New("reservation must start in the future")
	ErrOutsideOpeningTime = errors.New("reservations must start between 11:00 and 20:30 and not on Sundays")
)

// Conflicts; the enclosing transaction is rolled back.
var (
	ErrDuplicateReservation = errors.New("a conflicting reservation already exists for this requester")
	ErrNoTableAvailable     = errors.New("no available table found")
)

// IsValidationError reports whether err is one of the pre-storage
// validation sentinels.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidGuestsCount) ||
		errors.Is(err, ErrStartNotInFuture) ||
		errors.Is(err, ErrOutsideOpeningTime)
}

// IsConflictError reports whether err is one of the conflict
// sentinels.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateReservation) || errors.Is(err, ErrNoTableAvailable)
}
