package get_organization_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidQuery          = "некорректные параметры фильтра"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathInt64(r, "organizationId")
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/reservations - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	p, _ := middleware.PrincipalFromContext(r.Context())
	if !p.IsAdmin && p.OrganizationID != organizationID {
		h.logger.Warn("GET /organizations/{id}/reservations - Access denied: user_id=%d, organization_id=%d", p.UserID, organizationID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	filter, err := ToListFilter(r)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/reservations - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	reservations, err := h.service.ListByOrganization(r.Context(), organizationID, filter)
	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidInput) {
			h.logger.Warn("GET /organizations/{id}/reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		h.logger.Error("GET /organizations/{id}/reservations - Failed to list reservations: organization_id=%d, error=%v",
			organizationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /organizations/{id}/reservations - organization_id=%d, count=%d", organizationID, len(reservations))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservations(reservations))
}
