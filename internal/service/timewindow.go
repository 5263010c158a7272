package service

import "time"

// Business-hour policy: the first bookable start is 11:00, the last is
// 20:30, and the restaurant is closed on Sundays.  Only the start time
// is constrained; with the fixed 150-minute sitting the last slot runs
// past closing, which is accepted on purpose.
const (
	openingHour     = 11
	openingMinute   = 0
	lastStartHour   = 20
	lastStartMinute = 30
)

var closedWeekday = time.Sunday

// IsValidReservationTime reports whether startsAt is an acceptable
// reservation start: not before 11:00 on its calendar day, not after
// 20:30, and not on the closed weekday.  The bounds themselves are
// accepted.  The check is done in startsAt's own location.
func IsValidReservationTime(startsAt time.Time) bool {
	if startsAt.Weekday() == closedWeekday {
		return false
	}
	y, m, d := startsAt.Date()
	opening := time.Date(y, m, d, openingHour, openingMinute, 0, 0, startsAt.Location())
	lastStart := time.Date(y, m, d, lastStartHour, lastStartMinute, 0, 0, startsAt.Location())
	return !startsAt.Before(opening) && !startsAt.After(lastStart)
}
