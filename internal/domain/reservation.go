package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending         ReservationStatus = "pending"
	StatusApproved        ReservationStatus = "approved"
	StatusRejected        ReservationStatus = "rejected"
	StatusCancelled       ReservationStatus = "cancelled"
	StatusCancelRequested ReservationStatus = "cancel_requested"
	StatusAdminCancelled  ReservationStatus = "admin_cancelled"
)

// Actor is the party triggering a status transition
type Actor string

const (
	ActorOrganization  Actor = "organization"
	ActorAdministrator Actor = "administrator"
)

// Reservation represents a facility reservation made by an organization for one date
type Reservation struct {
	ID             int64
	OrganizationID int64
	RegionID       int64
	Date           time.Time
	Status         ReservationStatus
	Slots          []ReservationSlot
	CancelReason   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReservationSlot is a time slot of a reservation; never exists without its parent
type ReservationSlot struct {
	ID            int64
	ReservationID int64
	StartTime     types.TimeString
	EndTime       types.TimeString
	Grade         string
	Participants  int
	Location      string
}

// IsActive returns true if the reservation occupies capacity and quota
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// IsActive returns true for statuses that hold a seat.
// cancel_requested stays active until an administrator completes the cancellation.
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved || s == StatusCancelRequested
}

// IsTerminal returns true if no further transitions are possible
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusAdminCancelled
}

// IsValid returns true for known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCancelRequested, StatusAdminCancelled:
		return true
	}
	return false
}

type transition struct {
	from  ReservationStatus
	to    ReservationStatus
	actor Actor
}

// allowedTransitions is the full lifecycle table
var allowedTransitions = map[transition]struct{}{
	{StatusPending, StatusCancelled, ActorOrganization}:               {},
	{StatusApproved, StatusCancelRequested, ActorOrganization}:        {},
	{StatusPending, StatusApproved, ActorAdministrator}:               {},
	{StatusPending, StatusRejected, ActorAdministrator}:               {},
	{StatusApproved, StatusAdminCancelled, ActorAdministrator}:        {},
	{StatusCancelRequested, StatusAdminCancelled, ActorAdministrator}: {},
	{StatusCancelRequested, StatusApproved, ActorAdministrator}:       {},
}

// CanTransition reports whether actor may move a reservation from one status to another
func CanTransition(from, to ReservationStatus, actor Actor) bool {
	_, ok := allowedTransitions[transition{from: from, to: to, actor: actor}]
	return ok
}

// IsTransitionKnown reports whether the transition exists for any actor
func IsTransitionKnown(from, to ReservationStatus) bool {
	return CanTransition(from, to, ActorOrganization) || CanTransition(from, to, ActorAdministrator)
}

// DeletesOnTransition returns true for transitions that hard-delete the reservation
func DeletesOnTransition(to ReservationStatus) bool {
	return to == StatusRejected || to == StatusAdminCancelled
}

// ReservationFilter filters reservation listings
type ReservationFilter struct {
	OrganizationID *int64
	RegionID       *int64
	StartDate      *time.Time
	EndDate        *time.Time
	Status         *ReservationStatus
	ActiveOnly     bool
}
