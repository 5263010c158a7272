package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewReservationRepo(db), mock, func() { db.Close() }
}

func TestHasForUserOnDateTx_CoversWholeCalendarDay(t *testing.T) {
	repo, mock, closeDB := newRepoWithMock(t)
	defer closeDB()

	startsAt := time.Date(2026, 9, 7, 18, 30, 0, 0, time.UTC)
	dayStart := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(7), dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	found, err := repo.HasForUserOnDateTx(context.Background(), tx, 7, startsAt)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !found {
		t.Fatalf("expected same-day reservation to be reported")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasForUserAtTx_ExactSlotOnly(t *testing.T) {
	repo, mock, closeDB := newRepoWithMock(t)
	defer closeDB()

	startsAt := time.Date(2026, 9, 7, 18, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(7), startsAt).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	found, err := repo.HasForUserAtTx(context.Background(), tx, 7, startsAt)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if found {
		t.Fatalf("guard is keyed on the exact timestamp only")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasForPhoneAtTx(t *testing.T) {
	repo, mock, closeDB := newRepoWithMock(t)
	defer closeDB()

	startsAt := time.Date(2026, 9, 7, 18, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("+421910645309", startsAt).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	tx, err := repo.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	found, err := repo.HasForPhoneAtTx(context.Background(), tx, "+421910645309", startsAt)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !found {
		t.Fatalf("expected phone guard to report the existing slot")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSoftDelete_UnknownOrAlreadyCancelled(t *testing.T) {
	repo, mock, closeDB := newRepoWithMock(t)
	defer closeDB()

	mock.ExpectExec("UPDATE reservations SET deleted_at").
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SoftDelete(context.Background(), 99); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
