// Package repository implements data access on top of database/sql.
// This file holds sentinel errors shared by the repositories so that
// handlers and services can branch on failure kinds with errors.Is.
package repository

import "errors"

// ErrReservationNotFound is returned when an operation references a
// reservation id that does not exist or is already cancelled.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrPhoneExists signals a unique-constraint violation on users.phone.
var ErrPhoneExists = errors.New("phone already exists")

// ErrEmailExists signals a unique-constraint violation on users.email.
var ErrEmailExists = errors.New("email already exists")
