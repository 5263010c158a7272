package model

import "time"

// Table describes a physical table in the dining room.  Tables are
// mostly static reference data and are read-only for the assignment
// logic; the display name is derived from the id ("Table 7").
type Table struct {
	ID        uint64    // tables.id
	Seats     uint32    // tables.seats
	Name      string    // tables.name
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}
