package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func tokenRow(userID uint64, expiresAt time.Time, revokedAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}).
		AddRow(1, userID, "hash", expiresAt, revokedAt, time.Now().UTC())
}

func TestValidateRefresh(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectQuery("FROM refresh_tokens").
		WithArgs("hash").
		WillReturnRows(tokenRow(7, time.Now().UTC().Add(time.Hour), nil))
	userID, err := repo.ValidateRefresh(context.Background(), "hash")
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected user 7, got %d", userID)
	}

	mock.ExpectQuery("FROM refresh_tokens").
		WithArgs("hash").
		WillReturnRows(tokenRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))
	if _, err := repo.ValidateRefresh(context.Background(), "hash"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("revoked token should be rejected, got %v", err)
	}

	mock.ExpectQuery("FROM refresh_tokens").
		WithArgs("hash").
		WillReturnRows(tokenRow(7, time.Now().UTC().Add(-time.Hour), nil))
	if _, err := repo.ValidateRefresh(context.Background(), "hash"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expired token should be rejected, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
