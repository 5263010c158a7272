// Package queue defines the message payloads exchanged over the
// broker, the publisher that emits them and the background consumer
// that logs them.
package queue

// ReservationCreatedEvent is published when a reservation has been
// committed.  It carries enough for downstream consumers (logging,
// notifications, analytics) to act without querying the database.
type ReservationCreatedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	TableID       uint64  `json:"table_id"`
	UserID        *uint64 `json:"user_id,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	GuestName     string  `json:"guest_name,omitempty"`
	StartsAt      string  `json:"starts_at"`
	EndsAt        string  `json:"ends_at"`
	GuestsCount   uint32  `json:"guests_count"`
	CreatedAt     string  `json:"created_at"`
}
