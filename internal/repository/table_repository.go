package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablebook/restaurant-reservation/internal/model"
)

// TableRepo provides read access to the table directory and the locked
// candidate scan used during reservation assignment.  Tables are
// reference data; apart from seeding they are never written.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// FindAvailableTx selects the best-fitting free table for the given
// party size and time slot.  It must run inside the caller's
// transaction: the first query takes exclusive row locks on every
// capacity-qualifying table (not just the winner), so that no
// concurrent transaction can pick a table from the same candidate set
// until this one commits or rolls back.  Among the unlocked-out
// candidates without an active overlapping reservation, the one with
// the smallest capacity wins.  It returns (nil, nil) when no table
// qualifies.
//
// Overlap uses the half-open test: an existing reservation collides
// when existing.starts_at < endsAt AND existing.ends_at > startsAt.
func (r *TableRepo) FindAvailableTx(ctx context.Context, tx *sql.Tx, guests uint32, startsAt, endsAt time.Time) (*model.Table, error) {
	const lockQ = `SELECT id, seats, name FROM tables WHERE seats >= ? ORDER BY seats, id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, lockQ, guests)
	if err != nil {
		return nil, err
	}
	var candidates []model.Table
	for rows.Next() {
		var t model.Table
		if scanErr := rows.Scan(&t.ID, &t.Seats, &t.Name); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		candidates = append(candidates, t)
	}
	// a mid-scan failure must not pass for an empty candidate set
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	const busyQ = `SELECT DISTINCT table_id FROM reservations
                   WHERE deleted_at IS NULL AND starts_at < ? AND ends_at > ?`
	brows, err := tx.QueryContext(ctx, busyQ, endsAt.UTC(), startsAt.UTC())
	if err != nil {
		return nil, err
	}
	defer brows.Close()
	busy := make(map[uint64]struct{})
	for brows.Next() {
		var id uint64
		if err := brows.Scan(&id); err != nil {
			return nil, err
		}
		busy[id] = struct{}{}
	}
	if err := brows.Err(); err != nil {
		return nil, err
	}
	return pickBestFit(candidates, busy), nil
}

// pickBestFit returns the first candidate not present in busy.  The
// candidates are already ordered by seats ascending, so the first free
// one is the smallest table that still fits the party.
func pickBestFit(candidates []model.Table, busy map[uint64]struct{}) *model.Table {
	for i := range candidates {
		if _, taken := busy[candidates[i].ID]; !taken {
			return &candidates[i]
		}
	}
	return nil
}

// DistinctSeats returns the distinct capacities present in the table
// directory, ascending.  The seat-options endpoint expands this into a
// contiguous party-size range for the booking form.
func (r *TableRepo) DistinctSeats(ctx context.Context) ([]uint32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT seats FROM tables ORDER BY seats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []uint32
	for rows.Next() {
		var s uint32
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// Create inserts a table and derives its display name from the new id,
// mirroring how the directory names tables on creation.
func (r *TableRepo) Create(ctx context.Context, seats uint32) (uint64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO tables (seats, name) VALUES (?, '')`, seats)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	name := fmt.Sprintf("Table %d", id)
	if _, err := r.db.ExecContext(ctx, `UPDATE tables SET name = ? WHERE id = ?`, name, id); err != nil {
		return 0, err
	}
	return uint64(id), nil
}
