package domain

import "time"

// Default monthly capacity values, applied when a month is first accessed
const (
	DefaultMonthIsOpen           = false
	DefaultMaxReservationsPerDay = 2
	DefaultMaxDaysPerMonth       = 4
)

// Business validation constants
const (
	SlotDurationMinutes       = 40
	MinSlotsPerReservation    = 1
	MaxSlotsPerReservation    = 2
	MinParticipants           = 1
	MinReservationsPerDay     = 1
	MaxReservationsPerDay     = 100
	MinDaysPerMonth           = 1
	MaxDaysPerMonth           = 31
	MinOverrideReservations   = 0 // 0 = date blocked
	MaxOverrideReservations   = 100
	MaxGradeLength            = 50
	MaxLocationLength         = 200
	MaxReasonLength           = 500
	MaxAdvanceReservationDays = 31
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a seat and count towards the monthly quota
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
	StatusCancelRequested,
}

// ActiveStatusStrings returns ActiveStatuses as strings for SQL filters
func ActiveStatusStrings() []string {
	out := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// IsDateInPast reports whether date is before the calendar day of now
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}
