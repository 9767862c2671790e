package set_tier_window

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

const (
	msgInvalidRegionID    = "некорректный ID региона"
	msgInvalidYearMonth   = "некорректные год или месяц"
	msgInvalidRequestBody = "требуется поле isOpen"
	msgInvalidInput       = "некорректные параметры окна уровня"
	msgRegionNotFound     = "регион не найден"
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

// Handle PUT /api/v1/admin/regions/{regionId}/tier-windows/{year}/{month}/{tier}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/tier-windows - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	year, month, err := handlers.PathYearMonth(r)
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/tier-windows - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	var req SetTierWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.IsOpen == nil {
		h.logger.Warn("PUT /admin/regions/{id}/tier-windows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	tier := mux.Vars(r)["tier"]
	window, err := h.service.SetTierWindow(r.Context(), &settings.SetTierWindowRequest{
		RegionID: regionID,
		Year:     year,
		Month:    month,
		Tier:     tier,
		IsOpen:   *req.IsOpen,
	})
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrRegionNotFound):
			h.logger.Warn("PUT /admin/regions/{id}/tier-windows - Region not found: region_id=%d", regionID)
			handlers.RespondNotFound(w, msgRegionNotFound)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /admin/regions/{id}/tier-windows - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /admin/regions/{id}/tier-windows - Failed to set window: region_id=%d, tier=%s, error=%v",
				regionID, tier, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/regions/{id}/tier-windows - region_id=%d, %04d-%02d, tier=%s, open=%t",
		regionID, year, int(month), window.Tier, window.IsOpen)
	handlers.RespondJSON(w, http.StatusOK, fromDomain(window))
}
