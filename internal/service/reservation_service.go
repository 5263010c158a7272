package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/tablebook/restaurant-reservation/internal/model"
	"github.com/tablebook/restaurant-reservation/internal/repository"
)

// ReservationService orchestrates reservation creation and
// cancellation.  Creation runs as a single transaction: the locked
// candidate scan, the duplicate guard for the requester and the insert
// all share one tx, so two concurrent requests can never end up with
// the same table for overlapping slots.  Cheap input validation (party
// size, time window) happens before the transaction since it touches
// no shared state.
type ReservationService struct {
	db           *sql.DB
	tables       *repository.TableRepo
	reservations *repository.ReservationRepo
}

// NewReservationService constructs a ReservationService.  All
// dependencies must be non-nil.
func NewReservationService(db *sql.DB, tables *repository.TableRepo, reservations *repository.ReservationRepo) *ReservationService {
	if db == nil || tables == nil || reservations == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{db: db, tables: tables, reservations: reservations}
}

// guardFunc checks, inside the assignment transaction, whether the
// requester already holds a conflicting reservation.  It must run
// after the locked table scan: under REPEATABLE READ the transaction's
// read view is established by its first consistent read, and only the
// scan's row locks guarantee that point lies after any competing
// booking committed.  A guard run first would read a pre-commit
// snapshot and let two concurrent same-identity requests both pass.
type guardFunc func(ctx context.Context, tx *sql.Tx) (bool, error)

// CreateForGuest books a table for a registered guest acting on their
// own behalf.  The guard is the strict one: any active reservation
// starting on the same calendar day blocks the request.
func (s *ReservationService) CreateForGuest(ctx context.Context, userID uint64, guests uint32, startsAt time.Time, note *string) (*model.Reservation, error) {
	guard := func(ctx context.Context, tx *sql.Tx) (bool, error) {
		return s.reservations.HasForUserOnDateTx(ctx, tx, userID, startsAt)
	}
	return s.create(ctx, model.ForUser(userID), guests, startsAt, note, guard)
}

// CreateForUser books a table for a registered user on an admin's
// behalf.  Only an active reservation with the exact same start time
// blocks the request; same-day bookings at other hours are allowed on
// this path, deliberately looser than the self-booking guard.
func (s *ReservationService) CreateForUser(ctx context.Context, userID uint64, guests uint32, startsAt time.Time, note *string) (*model.Reservation, error) {
	guard := func(ctx context.Context, tx *sql.Tx) (bool, error) {
		return s.reservations.HasForUserAtTx(ctx, tx, userID, startsAt)
	}
	return s.create(ctx, model.ForUser(userID), guests, startsAt, note, guard)
}

// CreateByPhone books a table for an unregistered guest identified by
// phone and name.  The guard mirrors CreateForUser but is keyed by the
// phone number.
func (s *ReservationService) CreateByPhone(ctx context.Context, phone, firstName, lastName string, guests uint32, startsAt time.Time, note *string) (*model.Reservation, error) {
	guard := func(ctx context.Context, tx *sql.Tx) (bool, error) {
		return s.reservations.HasForPhoneAtTx(ctx, tx, phone, startsAt)
	}
	return s.create(ctx, model.ForPhone(phone, firstName, lastName), guests, startsAt, note, guard)
}

// create validates the request, then finds and books a table inside a
// single transaction.  Any error after BeginTx rolls everything back;
// no partial reservation survives a failure.
func (s *ReservationService) create(ctx context.Context, requester model.Requester, guests uint32, startsAt time.Time, note *string, guard guardFunc) (*model.Reservation, error) {
	if guests < 1 {
		return nil, ErrInvalidGuestsCount
	}
	if !startsAt.After(time.Now()) {
		return nil, ErrStartNotInFuture
	}
	if !IsValidReservationTime(startsAt) {
		return nil, ErrOutsideOpeningTime
	}
	endsAt := startsAt.Add(model.ReservationDuration)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table, err := s.tables.FindAvailableTx(ctx, tx, guests, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrNoTableAvailable
	}

	dup, err := guard(ctx, tx)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateReservation
	}

	res := &model.Reservation{
		TableID:     table.ID,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		GuestsCount: guests,
		Note:        note,
	}
	if userID, ok := requester.User(); ok {
		res.UserID = &userID
	} else if phone, first, last, ok := requester.Contact(); ok {
		res.Phone = &phone
		res.LastName = &last
		if first != "" {
			res.FirstName = &first
		}
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// Cancel soft-deletes a reservation, freeing its table and time slot
// for future assignment.  Cancellation is terminal; there is no
// un-cancel.  Returns repository.ErrReservationNotFound for unknown or
// already cancelled ids.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) error {
	return s.reservations.SoftDelete(ctx, id)
}
