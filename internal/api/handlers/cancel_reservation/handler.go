package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgOrganizationRequired = "отмена доступна только от имени организации"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgCannotCancel         = "бронирование нельзя отменить в текущем статусе"
	msgCannotRequest        = "запрос отмены возможен только для одобренного бронирования"
	msgInvalidReason        = "причина отмены слишком длинная"
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

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
// Отмена бронирования в статусе pending; запись остаётся в истории
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, organizationID, ok := h.parse(w, r, "PATCH /reservations/{id}/cancel")
	if !ok {
		return
	}

	result, err := h.service.CancelByOrganization(r.Context(), reservationID, organizationID)
	if err != nil {
		h.respondError(w, "PATCH /reservations/{id}/cancel", err, reservationID, organizationID, msgCannotCancel)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d, organization_id=%d",
		reservationID, organizationID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservation(result.Reservation))
}

// HandleRequest PATCH /api/v1/reservations/{reservationId}/cancel-request
// Запрос отмены одобренного бронирования; место занято до решения администратора
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	reservationID, organizationID, ok := h.parse(w, r, "PATCH /reservations/{id}/cancel-request")
	if !ok {
		return
	}

	var req CancellationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /reservations/{id}/cancel-request - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.RequestCancellation(r.Context(), reservationID, organizationID, req.Reason)
	if err != nil {
		h.respondError(w, "PATCH /reservations/{id}/cancel-request", err, reservationID, organizationID, msgCannotRequest)
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel-request - Cancellation requested: reservation_id=%d, organization_id=%d",
		reservationID, organizationID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservation(result.Reservation))
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, route string) (int64, int64, bool) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("%s - Invalid reservation ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return 0, 0, false
	}

	p, _ := middleware.PrincipalFromContext(r.Context())
	if !p.HasOrganization() {
		h.logger.Warn("%s - Missing organization: user_id=%d", route, p.UserID)
		handlers.RespondForbidden(w, msgOrganizationRequired)
		return 0, 0, false
	}

	return reservationID, p.OrganizationID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error, reservationID, organizationID int64, msgTransition string) {
	switch {
	case errors.Is(err, lifecycle.ErrReservationNotFound):
		h.logger.Warn("%s - Reservation not found: reservation_id=%d", route, reservationID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, lifecycle.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: reservation_id=%d, organization_id=%d", route, reservationID, organizationID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, lifecycle.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: reservation_id=%d, %v", route, reservationID, err)
		handlers.RespondConflict(w, msgTransition)

	case errors.Is(err, lifecycle.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidReason)

	default:
		h.logger.Error("%s - Failed to cancel reservation: reservation_id=%d, error=%v", route, reservationID, err)
		handlers.RespondInternalError(w)
	}
}
