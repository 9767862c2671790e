package admin_reservation_action

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

const (
	ActionApprove             = "approve"
	ActionReject              = "reject"
	ActionCancel              = "cancel"
	ActionResolveCancellation = "resolve-cancellation"
)

// ResolveCancellationRequest решение по запросу отмены
type ResolveCancellationRequest struct {
	Approve *bool `json:"approve"`
}

// TransitionResponse результат перехода
type TransitionResponse struct {
	Reservation handlers.ReservationResponse `json:"reservation"`
	From        string                       `json:"from"`
	Deleted     bool                         `json:"deleted"`
}

func fromResult(result *lifecycle.TransitionResult) *TransitionResponse {
	return &TransitionResponse{
		Reservation: handlers.FromDomainReservation(result.Reservation),
		From:        string(result.From),
		Deleted:     result.Deleted,
	}
}
