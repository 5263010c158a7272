package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tablebook/restaurant-reservation/internal/model"
	"github.com/tablebook/restaurant-reservation/internal/queue"
	"github.com/tablebook/restaurant-reservation/internal/repository"
	"github.com/tablebook/restaurant-reservation/internal/service"
)

// ReservationHandler exposes reservation booking, listing and
// cancellation over HTTP.  It translates the service sentinels into
// status codes: validation failures map to 400, booking conflicts to
// 409 and unknown ids to 404.
type ReservationHandler struct {
	Service      *service.ReservationService
	Reservations *repository.ReservationRepo
	Users        *repository.UserRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService, reservations *repository.ReservationRepo, users *repository.UserRepo) *ReservationHandler {
	if svc == nil || reservations == nil || users == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Service: svc, Reservations: reservations, Users: users}
}

type createReservationReq struct {
	StartsAt    string  `json:"starts_at"`
	GuestsCount uint32  `json:"guests_count"`
	Note        *string `json:"note"`
}

type createForUserReq struct {
	createReservationReq
	UserID uint64 `json:"user_id"`
}

type createByPhoneReq struct {
	createReservationReq
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type reservationResp struct {
	ID          uint64    `json:"id"`
	TableID     uint64    `json:"table_id"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	GuestsCount uint32    `json:"guests_count"`
	Note        *string   `json:"note"`
}

// parseStartsAt accepts RFC 3339 timestamps as well as the plain
// datetime-local format browsers submit, interpreted as server-local
// time.
func parseStartsAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
}

// List handles GET /api/reservations.  Admins see every active
// reservation with requester details; guests see only their own,
// including reservations an admin booked against their phone number
// before the account existed.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	if getRole(c) == model.RoleAdmin {
		rows, err := h.Reservations.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
		}
		return c.JSON(http.StatusOK, rows)
	}

	phone := ""
	if u, err := h.Users.GetByID(ctx, uid); err == nil {
		phone = u.Phone
	}
	rows, err := h.Reservations.ListForRequester(ctx, uid, phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	out := make([]reservationResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, reservationResp{ID: r.ID, TableID: r.TableID, StartsAt: r.StartsAt, EndsAt: r.EndsAt, GuestsCount: r.GuestsCount, Note: r.Note})
	}
	return c.JSON(http.StatusOK, out)
}

// Store handles POST /api/reservations, a guest booking for themselves.
func (h *ReservationHandler) Store(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if getRole(c) != model.RoleGuest {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only guests can book for themselves"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	startsAt, err := parseStartsAt(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Service.CreateForGuest(ctx, uid, req.GuestsCount, startsAt, req.Note)
	if err != nil {
		return reservationError(c, err)
	}
	h.publishCreated(res)
	return c.JSON(http.StatusCreated, reservationResp{ID: res.ID, TableID: res.TableID, StartsAt: res.StartsAt, EndsAt: res.EndsAt, GuestsCount: res.GuestsCount, Note: res.Note})
}

// StoreForUser handles POST /api/reservations/for-user (admin only).
// The target must be an existing user; the looser exact-slot guard
// applies.
func (h *ReservationHandler) StoreForUser(c echo.Context) error {
	var req createForUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	startsAt, err := parseStartsAt(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	res, err := h.Service.CreateForUser(ctx, req.UserID, req.GuestsCount, startsAt, req.Note)
	if err != nil {
		return reservationError(c, err)
	}
	h.publishCreated(res)
	return c.JSON(http.StatusCreated, reservationResp{ID: res.ID, TableID: res.TableID, StartsAt: res.StartsAt, EndsAt: res.EndsAt, GuestsCount: res.GuestsCount, Note: res.Note})
}

// StoreByPhone handles POST /api/reservations/by-phone (admin only),
// booking for a walk-in guest identified by phone and name.
func (h *ReservationHandler) StoreByPhone(c echo.Context) error {
	var req createByPhoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.LastName = strings.TrimSpace(req.LastName)
	if !phonePattern.MatchString(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
	}
	if req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "last_name is required"})
	}
	startsAt, err := parseStartsAt(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Service.CreateByPhone(ctx, req.Phone, strings.TrimSpace(req.FirstName), req.LastName, req.GuestsCount, startsAt, req.Note)
	if err != nil {
		return reservationError(c, err)
	}
	h.publishCreated(res)
	return c.JSON(http.StatusCreated, reservationResp{ID: res.ID, TableID: res.TableID, StartsAt: res.StartsAt, EndsAt: res.EndsAt, GuestsCount: res.GuestsCount, Note: res.Note})
}

// Destroy handles DELETE /api/reservations/:id (admin only).
// Cancellation is a soft delete; the slot frees up immediately.
func (h *ReservationHandler) Destroy(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation cancelled"})
}

// reservationError maps service sentinels to HTTP responses.
func reservationError(c echo.Context, err error) error {
	switch {
	case service.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case service.IsConflictError(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
}

// publishCreated emits the reservation.created event.  The booking is
// already committed at this point, so a broker failure is logged by the
// publisher and otherwise ignored.
func (h *ReservationHandler) publishCreated(res *model.Reservation) {
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		TableID:       res.TableID,
		UserID:        res.UserID,
		Phone:         res.Phone,
		StartsAt:      res.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:        res.EndsAt.UTC().Format(time.RFC3339),
		GuestsCount:   res.GuestsCount,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	if res.LastName != nil {
		name := *res.LastName
		if res.FirstName != nil {
			name = *res.FirstName + " " + name
		}
		ev.GuestName = name
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue.PublishReservationCreated(ctx, ev)
}
