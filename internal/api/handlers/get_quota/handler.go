package get_quota

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidRegionID       = "некорректный или отсутствующий regionId"
	msgInvalidYearMonth      = "некорректные параметры year и month"
	msgForbidden             = "доступ запрещен"
)

type Handler struct {
	service QuotaService
	logger  Logger
}

func NewHandler(service QuotaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/quota?regionId=&year=&month=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathInt64(r, "organizationId")
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/quota - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	p, _ := middleware.PrincipalFromContext(r.Context())
	if !p.IsAdmin && p.OrganizationID != organizationID {
		h.logger.Warn("GET /organizations/{id}/quota - Access denied: user_id=%d, organization_id=%d", p.UserID, organizationID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	regionID, err := handlers.QueryInt64(r, "regionId")
	if err != nil || regionID == nil {
		h.logger.Warn("GET /organizations/{id}/quota - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	year, month, err := handlers.QueryYearMonth(r)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/quota - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	usage, err := h.service.MonthUsage(r.Context(), organizationID, *regionID, year, month)
	if err != nil {
		if errors.Is(err, quota.ErrInvalidInput) {
			h.logger.Warn("GET /organizations/{id}/quota - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidYearMonth)
			return
		}
		h.logger.Error("GET /organizations/{id}/quota - Failed to get quota: organization_id=%d, error=%v", organizationID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /organizations/{id}/quota - organization_id=%d, region_id=%d, used=%d, max=%d",
		organizationID, *regionID, usage.Used, usage.Max)
	handlers.RespondJSON(w, http.StatusOK, fromUsage(organizationID, *regionID, year, int(month), usage))
}
