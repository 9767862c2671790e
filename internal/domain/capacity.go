package domain

import "time"

// MonthlyCapacitySetting is the per region and month capacity configuration.
// IsOpen is the legacy global flag, superseded by tier windows and kept for display.
type MonthlyCapacitySetting struct {
	ID                    int64
	RegionID              int64
	Year                  int
	Month                 time.Month
	IsOpen                bool
	MaxReservationsPerDay int
	MaxDaysPerMonth       int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultMonthlySetting returns the safe defaults used when a month is first accessed
func DefaultMonthlySetting(regionID int64, year int, month time.Month) MonthlyCapacitySetting {
	return MonthlyCapacitySetting{
		RegionID:              regionID,
		Year:                  year,
		Month:                 month,
		IsOpen:                DefaultMonthIsOpen,
		MaxReservationsPerDay: DefaultMaxReservationsPerDay,
		MaxDaysPerMonth:       DefaultMaxDaysPerMonth,
	}
}

// DailyCapacityOverride overrides the monthly capacity for one date; zero blocks the date
type DailyCapacityOverride struct {
	RegionID              int64
	Date                  time.Time
	MaxReservationsPerDay int
	UpdatedAt             time.Time
}

// IsBlocking returns true if the override closes the date
func (o *DailyCapacityOverride) IsBlocking() bool {
	return o.MaxReservationsPerDay <= 0
}

// BlockedDate is an explicit deny-list entry
type BlockedDate struct {
	RegionID  int64
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}

// DateStatusSource tells which rule produced the effective capacity
type DateStatusSource string

const (
	SourceBlocked  DateStatusSource = "blocked"
	SourceOverride DateStatusSource = "override"
	SourceMonthly  DateStatusSource = "monthly"
)

// DateStatus is the resolved availability of one calendar date
type DateStatus struct {
	Date      time.Time
	Current   int
	Max       int
	IsFull    bool
	IsOpen    bool
	IsBlocked bool
	Source    DateStatusSource
}

// HasFreeSeat returns true if a new reservation may be admitted capacity-wise
func (s DateStatus) HasFreeSeat() bool {
	return !s.IsBlocked && s.Current < s.Max
}

// DateStatusInput is everything needed to resolve one date, loaded by single or batch reads
type DateStatusInput struct {
	Date          time.Time
	ActiveCount   int
	Blocked       bool
	Override      *DailyCapacityOverride
	Monthly       MonthlyCapacitySetting
	AnyTierWindow bool
}

// ResolveDateStatus applies the resolution order: blocked date, then daily override,
// then monthly setting. Both DateStatus and MonthStatus go through it.
func ResolveDateStatus(in DateStatusInput) DateStatus {
	status := DateStatus{
		Date:    DateOnly(in.Date),
		Current: in.ActiveCount,
	}

	switch {
	case in.Override != nil:
		status.Max = in.Override.MaxReservationsPerDay
		status.IsOpen = in.Override.MaxReservationsPerDay > 0
		status.IsBlocked = in.Override.IsBlocking()
		status.Source = SourceOverride
	default:
		status.Max = in.Monthly.MaxReservationsPerDay
		status.IsOpen = in.Monthly.IsOpen || in.AnyTierWindow
		status.Source = SourceMonthly
	}

	if in.Blocked {
		status.IsOpen = false
		status.IsBlocked = true
		status.Source = SourceBlocked
	}

	status.IsFull = status.Current >= status.Max
	return status
}

// DateOnly truncates a time to midnight UTC of the same calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date as YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}

// MonthBounds returns the first and last dates of a month
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
