package admin_reservation_action

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgUnknownAction        = "неизвестное действие, ожидается approve, reject, cancel или resolve-cancellation"
	msgApproveRequired      = "требуется поле approve"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgInvalidTransition    = "действие недопустимо для текущего статуса бронирования"
)

type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/reservations/{reservationId}/{action}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /admin/reservations/{id}/{action} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	action := mux.Vars(r)["action"]

	var result *lifecycle.TransitionResult
	switch action {
	case ActionApprove:
		result, err = h.service.Approve(r.Context(), reservationID)
	case ActionReject:
		result, err = h.service.Reject(r.Context(), reservationID)
	case ActionCancel:
		result, err = h.service.AdminCancel(r.Context(), reservationID)
	case ActionResolveCancellation:
		var req ResolveCancellationRequest
		if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil || req.Approve == nil {
			h.logger.Warn("PATCH /admin/reservations/{id}/%s - Missing approve flag: %v", action, decodeErr)
			handlers.RespondBadRequest(w, msgApproveRequired)
			return
		}
		result, err = h.service.ResolveCancellationRequest(r.Context(), reservationID, *req.Approve)
	default:
		h.logger.Warn("PATCH /admin/reservations/{id}/{action} - Unknown action: %q", action)
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrReservationNotFound):
			h.logger.Warn("PATCH /admin/reservations/{id}/%s - Reservation not found: reservation_id=%d", action, reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			h.logger.Warn("PATCH /admin/reservations/{id}/%s - Invalid transition: reservation_id=%d, %v", action, reservationID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("PATCH /admin/reservations/{id}/%s - Access denied: reservation_id=%d", action, reservationID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /admin/reservations/{id}/%s - Failed to apply action: reservation_id=%d, error=%v",
				action, reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/reservations/{id}/%s - reservation_id=%d, %s -> %s, deleted=%t",
		action, reservationID, result.From, result.Reservation.Status, result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, fromResult(result))
}
