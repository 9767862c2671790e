package daily_overrides

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

const (
	msgInvalidRegionID    = "некорректный ID региона"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidYearMonth   = "некорректные параметры year и month"
	msgInvalidRequestBody = "требуется поле maxReservationsPerDay"
	msgInvalidData        = "вместимость на дату должна быть от 0 до 100"
	msgRegionNotFound     = "регион не найден"
	msgOverrideNotFound   = "переопределение на дату не найдено"
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

// HandleList GET /api/v1/admin/regions/{regionId}/overrides?year=&month=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("GET /admin/regions/{id}/overrides - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	year, month, err := handlers.QueryYearMonth(r)
	if err != nil {
		h.logger.Warn("GET /admin/regions/{id}/overrides - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	overrides, err := h.service.ListDailyOverrides(r.Context(), regionID, year, month)
	if err != nil {
		h.respondError(w, "GET /admin/regions/{id}/overrides", regionID, err)
		return
	}

	h.logger.Info("GET /admin/regions/{id}/overrides - region_id=%d, %04d-%02d, count=%d", regionID, year, int(month), len(overrides))
	handlers.RespondJSON(w, http.StatusOK, fromDomainList(overrides))
}

// HandleSet PUT /api/v1/admin/regions/{regionId}/overrides/{date}
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/overrides/{date} - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/overrides/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req SetOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.MaxReservationsPerDay == nil {
		h.logger.Warn("PUT /admin/regions/{id}/overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	override, err := h.service.SetDailyOverride(r.Context(), &settings.SetDailyOverrideRequest{
		RegionID:              regionID,
		Date:                  date,
		MaxReservationsPerDay: *req.MaxReservationsPerDay,
	})
	if err != nil {
		h.respondError(w, "PUT /admin/regions/{id}/overrides/{date}", regionID, err)
		return
	}

	h.logger.Info("PUT /admin/regions/{id}/overrides/{date} - region_id=%d, date=%s, max=%d",
		regionID, domain.DateKey(date), override.MaxReservationsPerDay)
	handlers.RespondJSON(w, http.StatusOK, fromDomain(override))
}

// HandleDelete DELETE /api/v1/admin/regions/{regionId}/overrides/{date}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("DELETE /admin/regions/{id}/overrides/{date} - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("DELETE /admin/regions/{id}/overrides/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.DeleteDailyOverride(r.Context(), regionID, date); err != nil {
		h.respondError(w, "DELETE /admin/regions/{id}/overrides/{date}", regionID, err)
		return
	}

	h.logger.Info("DELETE /admin/regions/{id}/overrides/{date} - region_id=%d, date=%s", regionID, domain.DateKey(date))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, regionID int64, err error) {
	switch {
	case errors.Is(err, settings.ErrRegionNotFound):
		h.logger.Warn("%s - Region not found: region_id=%d", route, regionID)
		handlers.RespondNotFound(w, msgRegionNotFound)

	case errors.Is(err, settings.ErrOverrideNotFound):
		h.logger.Warn("%s - Override not found: region_id=%d", route, regionID)
		handlers.RespondNotFound(w, msgOverrideNotFound)

	case errors.Is(err, settings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: region_id=%d, error=%v", route, regionID, err)
		handlers.RespondInternalError(w)
	}
}
