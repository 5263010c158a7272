package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/tablebook/restaurant-reservation/internal/repository"
	"github.com/tablebook/restaurant-reservation/internal/service"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	svc := service.NewReservationService(db, tables, reservations)
	return NewReservationHandler(svc, reservations, users), mock, func() { db.Close() }
}

func jsonPost(target, body string, uid uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	c.Set("role", role)
	return c, rec
}

func TestStore_RejectsNonGuestRole(t *testing.T) {
	h, _, closeDB := newReservationHandler(t)
	defer closeDB()

	c, rec := jsonPost("/api/reservations", `{"starts_at":"2026-09-07T18:00:00","guests_count":2}`, 1, "admin")
	if err := h.Store(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin self-booking, got %d", rec.Code)
	}
}

func TestStore_InvalidStartsAt(t *testing.T) {
	h, _, closeDB := newReservationHandler(t)
	defer closeDB()

	c, rec := jsonPost("/api/reservations", `{"starts_at":"next tuesday","guests_count":2}`, 9, "guest")
	if err := h.Store(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable starts_at, got %d", rec.Code)
	}
}

func TestStore_ValidationErrorsMapTo400(t *testing.T) {
	h, _, closeDB := newReservationHandler(t)
	defer closeDB()

	// zero guests is rejected by the service before any storage work
	c, rec := jsonPost("/api/reservations", `{"starts_at":"2030-09-02T18:00:00","guests_count":0}`, 9, "guest")
	if err := h.Store(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero guests, got %d", rec.Code)
	}

	// a start in the past is likewise a 400
	c, rec = jsonPost("/api/reservations", `{"starts_at":"2020-09-01T18:00:00","guests_count":2}`, 9, "guest")
	if err := h.Store(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for past start, got %d", rec.Code)
	}
}

func TestStore_DuplicateMapsTo409(t *testing.T) {
	h, mock, closeDB := newReservationHandler(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, seats, name FROM tables").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seats", "name"}).AddRow(3, 4, "Table 3"))
	mock.ExpectQuery("SELECT DISTINCT table_id FROM reservations").
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	// 2030-09-02 is a Monday
	c, rec := jsonPost("/api/reservations", `{"starts_at":"2030-09-02T18:00:00","guests_count":2}`, 9, "guest")
	if err := h.Store(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate booking, got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreByPhone_ValidatesPhoneAndName(t *testing.T) {
	h, _, closeDB := newReservationHandler(t)
	defer closeDB()

	c, rec := jsonPost("/api/reservations/by-phone",
		`{"starts_at":"2030-09-02T18:00:00","guests_count":2,"phone":"0800123456","last_name":"Novak"}`, 1, "admin")
	if err := h.StoreByPhone(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed phone, got %d", rec.Code)
	}

	c, rec = jsonPost("/api/reservations/by-phone",
		`{"starts_at":"2030-09-02T18:00:00","guests_count":2,"phone":"+421910645309"}`, 1, "admin")
	if err := h.StoreByPhone(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing last name, got %d", rec.Code)
	}
}

func TestDestroy(t *testing.T) {
	h, mock, closeDB := newReservationHandler(t)
	defer closeDB()

	e := echo.New()

	req := httptest.NewRequest(http.MethodDelete, "/api/reservations/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Destroy(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}

	mock.ExpectExec("UPDATE reservations SET deleted_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	req = httptest.NewRequest(http.MethodDelete, "/api/reservations/99", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := h.Destroy(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown reservation, got %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestParseStartsAt(t *testing.T) {
	if _, err := parseStartsAt("2026-09-07T18:00:00"); err != nil {
		t.Fatalf("datetime-local format should parse: %v", err)
	}
	if _, err := parseStartsAt("2026-09-07T18:00:00+02:00"); err != nil {
		t.Fatalf("RFC 3339 should parse: %v", err)
	}
	if _, err := parseStartsAt("07.09.2026 18:00"); err == nil {
		t.Fatalf("unsupported format should be rejected")
	}
}
