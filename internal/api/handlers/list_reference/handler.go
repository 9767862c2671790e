package list_reference

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleRegions GET /api/v1/regions
func (h *Handler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.ListRegions(r.Context())
	if err != nil {
		h.logger.Error("GET /regions - Failed to list regions: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /regions - count=%d", len(regions))
	handlers.RespondJSON(w, http.StatusOK, fromRegions(regions))
}

// HandleTiers GET /api/v1/tiers
func (h *Handler) HandleTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service.ListTiers(r.Context())
	if err != nil {
		h.logger.Error("GET /tiers - Failed to list tiers: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tiers - count=%d", len(tiers))
	handlers.RespondJSON(w, http.StatusOK, fromTiers(tiers))
}
