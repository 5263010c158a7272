package model

import "time"

// ReservationDuration is the fixed length of every sitting.  The end
// time of a reservation is always the start time plus this value.
const ReservationDuration = 150 * time.Minute

// Reservation records a booking of one table for one time slot.  The
// table reference is assigned at creation and never changes; there is
// no reschedule.  A reservation is terminated by soft deletion only,
// which frees the slot while keeping the row for history.
//
// Fields:
//  ID          – primary key identifier.
//  TableID     – table assigned at creation.
//  UserID      – registered requester, nil for phone-only guests.
//  Phone       – contact phone for unregistered guests, nil otherwise.
//  FirstName   – unregistered guest first name (optional).
//  LastName    – unregistered guest last name.
//  StartsAt    – slot start.
//  EndsAt      – always StartsAt + ReservationDuration.
//  GuestsCount – party size, always positive.
//  Note        – optional free-text note.
//  CreatedAt   – creation timestamp.
//  DeletedAt   – cancellation timestamp, nil while active.
type Reservation struct {
	ID          uint64     // reservations.id
	TableID     uint64     // reservations.table_id
	UserID      *uint64    // reservations.user_id (nullable)
	Phone       *string    // reservations.phone (nullable)
	FirstName   *string    // reservations.first_name (nullable)
	LastName    *string    // reservations.last_name (nullable)
	StartsAt    time.Time  // reservations.starts_at
	EndsAt      time.Time  // reservations.ends_at
	GuestsCount uint32     // reservations.guests_count
	Note        *string    // reservations.note (nullable)
	CreatedAt   time.Time  // reservations.created_at
	DeletedAt   *time.Time // reservations.deleted_at (nullable)
}

// Active reports whether the reservation has not been cancelled.
func (r *Reservation) Active() bool { return r.DeletedAt == nil }
