package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tablebook/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Rows are
// never updated in place: a reservation is created once and terminated
// by soft deletion only.  Every query that feeds the duplicate guards
// or the availability scan excludes soft-deleted rows, so a cancelled
// reservation immediately frees its slot while staying on record.  All
// timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateTx inserts a reservation within the scope of an existing
// transaction and populates the generated ID and creation timestamp on
// the passed record.  The caller must commit or roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
               (user_id, table_id, starts_at, ends_at, guests_count, note, phone, first_name, last_name)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.UserID, res.TableID, res.StartsAt.UTC(), res.EndsAt.UTC(),
		res.GuestsCount, res.Note, res.Phone, res.FirstName, res.LastName,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// SoftDelete cancels a reservation by stamping deleted_at.  It returns
// ErrReservationNotFound when the id does not exist or the reservation
// is already cancelled.  The operation is deliberately unlocked; it
// only leaves state behind for future assignment transactions to see.
func (r *ReservationRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE reservations SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// HasForUserOnDateTx reports whether the user holds any active
// reservation starting on the same calendar day as startsAt.  This is
// the self-booking guard: one reservation per guest per day.
func (r *ReservationRepo) HasForUserOnDateTx(ctx context.Context, tx *sql.Tx, userID uint64, startsAt time.Time) (bool, error) {
	day := time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day(), 0, 0, 0, 0, startsAt.Location())
	const q = `SELECT EXISTS(SELECT 1 FROM reservations
               WHERE user_id = ? AND deleted_at IS NULL AND starts_at >= ? AND starts_at < ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, userID, day.UTC(), day.AddDate(0, 0, 1).UTC()).Scan(&exists)
	return exists, err
}

// HasForUserAtTx reports whether the user holds an active reservation
// with exactly the given start timestamp.  Admin bookings on behalf of
// a user only guard the exact slot; same-day different-hour bookings
// are allowed on this path.
func (r *ReservationRepo) HasForUserAtTx(ctx context.Context, tx *sql.Tx, userID uint64, startsAt time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reservations
               WHERE user_id = ? AND deleted_at IS NULL AND starts_at = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, userID, startsAt.UTC()).Scan(&exists)
	return exists, err
}

// HasForPhoneAtTx is the exact-slot guard keyed by phone number, used
// when an admin books for an unregistered guest.
func (r *ReservationRepo) HasForPhoneAtTx(ctx context.Context, tx *sql.Tx, phone string, startsAt time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reservations
               WHERE phone = ? AND deleted_at IS NULL AND starts_at = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, phone, startsAt.UTC()).Scan(&exists)
	return exists, err
}

// AdminReservationRow is the listing shape returned to admins.  Names
// and phone come from the linked user when the reservation references
// one, otherwise from the reservation's own contact columns.
type AdminReservationRow struct {
	ID          uint64    `json:"id"`
	TableID     uint64    `json:"table_id"`
	CreatedAt   time.Time `json:"created_at"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	GuestsCount uint32    `json:"guests_count"`
	Note        *string   `json:"note"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Phone       *string   `json:"phone"`
}

// ListAll returns every active reservation with requester details, for
// the admin overview.  Ordered by start time ascending.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]AdminReservationRow, error) {
	const q = `SELECT r.id, r.table_id, r.created_at, r.starts_at, r.ends_at, r.guests_count, r.note,
                      COALESCE(u.first_name, r.first_name), COALESCE(u.last_name, r.last_name), COALESCE(u.phone, r.phone)
               FROM reservations r
               LEFT JOIN users u ON u.id = r.user_id
               WHERE r.deleted_at IS NULL
               ORDER BY r.starts_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminReservationRow, 0)
	for rows.Next() {
		var row AdminReservationRow
		if err := rows.Scan(
			&row.ID, &row.TableID, &row.CreatedAt, &row.StartsAt, &row.EndsAt,
			&row.GuestsCount, &row.Note, &row.FirstName, &row.LastName, &row.Phone,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListForRequester returns the active reservations belonging to a
// guest, matched by user id or, when the account has a phone number on
// file, by that phone (covers reservations an admin made for the guest
// before they registered).
func (r *ReservationRepo) ListForRequester(ctx context.Context, userID uint64, phone string) ([]model.Reservation, error) {
	q := `SELECT id, user_id, table_id, starts_at, ends_at, guests_count, note, phone, first_name, last_name, created_at, deleted_at
          FROM reservations
          WHERE deleted_at IS NULL AND (user_id = ?`
	args := []interface{}{userID}
	if phone != "" {
		q += ` OR phone = ?`
		args = append(args, phone)
	}
	q += `) ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.TableID, &res.StartsAt, &res.EndsAt,
			&res.GuestsCount, &res.Note, &res.Phone, &res.FirstName, &res.LastName,
			&res.CreatedAt, &res.DeletedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
