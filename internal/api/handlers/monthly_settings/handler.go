package monthly_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

const (
	msgInvalidRegionID    = "некорректный ID региона"
	msgInvalidYearMonth   = "некорректные год или месяц"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные значения: мест в день 1..100, дней в месяц 1..31"
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

// HandleGet GET /api/v1/admin/regions/{regionId}/settings/{year}/{month}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("GET /admin/regions/{id}/settings - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	year, month, err := handlers.PathYearMonth(r)
	if err != nil {
		h.logger.Warn("GET /admin/regions/{id}/settings - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	setting, err := h.service.GetMonthlySetting(r.Context(), regionID, year, month)
	if err != nil {
		h.respondError(w, "GET /admin/regions/{id}/settings", regionID, err)
		return
	}

	h.logger.Info("GET /admin/regions/{id}/settings - region_id=%d, %04d-%02d", regionID, year, int(month))
	handlers.RespondJSON(w, http.StatusOK, fromDomain(setting))
}

// HandleUpdate PUT /api/v1/admin/regions/{regionId}/settings/{year}/{month}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/settings - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	year, month, err := handlers.PathYearMonth(r)
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/settings - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	var req UpdateMonthlySettingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	setting, err := h.service.UpdateMonthlySetting(r.Context(), req.ToServiceRequest(regionID, year, month))
	if err != nil {
		h.respondError(w, "PUT /admin/regions/{id}/settings", regionID, err)
		return
	}

	h.logger.Info("PUT /admin/regions/{id}/settings - Updated: region_id=%d, %04d-%02d", regionID, year, int(month))
	handlers.RespondJSON(w, http.StatusOK, fromDomain(setting))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, regionID int64, err error) {
	switch {
	case errors.Is(err, settings.ErrRegionNotFound):
		h.logger.Warn("%s - Region not found: region_id=%d", route, regionID)
		handlers.RespondNotFound(w, msgRegionNotFound)

	case errors.Is(err, settings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: region_id=%d, error=%v", route, regionID, err)
		handlers.RespondInternalError(w)
	}
}
