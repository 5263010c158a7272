package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablebook/restaurant-reservation/internal/repository"
)

// TableHandler serves table directory reads for the booking form.
type TableHandler struct {
	Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo) *TableHandler {
	if tables == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables}
}

// SeatOptions handles GET /api/tables/seats.  It returns the
// selectable party sizes as the contiguous range 1..max capacity, so
// the form offers every size some table can fit even when no table has
// that exact seat count.
func (h *TableHandler) SeatOptions(c echo.Context) error {
	seats, err := h.Tables.DistinctSeats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seat options failed"})
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusOK, []uint32{})
	}
	max := seats[len(seats)-1]
	options := make([]uint32, 0, max)
	for n := uint32(1); n <= max; n++ {
		options = append(options, n)
	}
	return c.JSON(http.StatusOK, options)
}
