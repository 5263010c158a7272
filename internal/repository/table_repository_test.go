package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tablebook/restaurant-reservation/internal/model"
)

func TestPickBestFit(t *testing.T) {
	candidates := []model.Table{
		{ID: 1, Seats: 2},
		{ID: 2, Seats: 4},
		{ID: 3, Seats: 6},
	}

	got := pickBestFit(candidates, map[uint64]struct{}{})
	if got == nil || got.ID != 1 {
		t.Fatalf("with no busy tables the smallest candidate wins, got %+v", got)
	}

	got = pickBestFit(candidates, map[uint64]struct{}{1: {}, 2: {}})
	if got == nil || got.ID != 3 {
		t.Fatalf("busy candidates must be skipped, got %+v", got)
	}

	got = pickBestFit(candidates, map[uint64]struct{}{1: {}, 2: {}, 3: {}})
	if got != nil {
		t.Fatalf("all-busy candidate set should yield nil, got %+v", got)
	}

	got = pickBestFit(nil, map[uint64]struct{}{})
	if got != nil {
		t.Fatalf("empty candidate set should yield nil, got %+v", got)
	}
}

func TestFindAvailableTx_QueriesOverlapWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTableRepo(db)

	startsAt := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)
	endsAt := startsAt.Add(150 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, seats, name FROM tables").
		WithArgs(uint32(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seats", "name"}).
			AddRow(1, 2, "Table 1").
			AddRow(2, 4, "Table 2"))
	// overlap test is half-open: starts_at < end AND ends_at > start
	mock.ExpectQuery("SELECT DISTINCT table_id FROM reservations").
		WithArgs(endsAt, startsAt).
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}).AddRow(1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	table, err := repo.FindAvailableTx(context.Background(), tx, 2, startsAt, endsAt)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if table == nil || table.ID != 2 {
		t.Fatalf("expected table 2, got %+v", table)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindAvailableTx_CandidateScanErrorSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTableRepo(db)

	startsAt := time.Date(2026, 9, 7, 18, 0, 0, 0, time.UTC)
	endsAt := startsAt.Add(150 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, seats, name FROM tables").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seats", "name"}).
			AddRow(1, 2, "Table 1").
			RowError(0, io.ErrUnexpectedEOF))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	table, err := repo.FindAvailableTx(context.Background(), tx, 2, startsAt, endsAt)
	if err == nil {
		t.Fatalf("a failed candidate scan must surface its error, got table=%+v", table)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected the row error, got %v", err)
	}
}

func TestDistinctSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTableRepo(db)

	mock.ExpectQuery("SELECT DISTINCT seats FROM tables").
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(2).AddRow(4).AddRow(8))

	seats, err := repo.DistinctSeats(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(seats) != 3 || seats[0] != 2 || seats[2] != 8 {
		t.Fatalf("unexpected capacities: %v", seats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
