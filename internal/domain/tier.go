package domain

import (
	"errors"
	"time"
)

// ErrUnknownTier is returned when a tier identifier is not part of the enumeration
var ErrUnknownTier = errors.New("unknown membership tier")

// Tier identifies a requester class; compared by identifier, never by display name
type Tier string

const (
	TierPriority Tier = "priority"
	TierStandard Tier = "standard"
)

// ParseTier resolves a tier identifier once at lookup time
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierPriority:
		return TierPriority, nil
	case TierStandard:
		return TierStandard, nil
	}
	return "", ErrUnknownTier
}

// MembershipTier carries tier settings.
// AdvanceReservationDays is informational: it explains when a tier's window will open
// relative to Standard but is not enforced by admission.
type MembershipTier struct {
	Tier                   Tier
	DisplayName            string
	AdvanceReservationDays int
}

// TierWindow is the administrator-controlled booking window of one tier for a region and month.
// A missing window is closed.
type TierWindow struct {
	RegionID  int64
	Year      int
	Month     time.Month
	Tier      Tier
	IsOpen    bool
	OpenedAt  *time.Time
	UpdatedAt time.Time
}

// ClosedTierWindow returns the implicit default for a window that has never been toggled
func ClosedTierWindow(regionID int64, year int, month time.Month, tier Tier) TierWindow {
	return TierWindow{
		RegionID: regionID,
		Year:     year,
		Month:    month,
		Tier:     tier,
		IsOpen:   false,
	}
}
