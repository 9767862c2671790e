package blocked_dates

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "причина блокировки слишком длинная"
	msgRegionNotFound     = "регион не найден"
	msgNotBlocked         = "дата не заблокирована"
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

// HandleList GET /api/v1/admin/regions/{regionId}/blocked-dates
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("GET /admin/regions/{id}/blocked-dates - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	blocked, err := h.service.ListBlockedDates(r.Context(), regionID)
	if err != nil {
		h.respondError(w, "GET /admin/regions/{id}/blocked-dates", regionID, err)
		return
	}

	h.logger.Info("GET /admin/regions/{id}/blocked-dates - region_id=%d, count=%d", regionID, len(blocked))
	handlers.RespondJSON(w, http.StatusOK, fromDomainList(blocked))
}

// HandleBlock PUT /api/v1/admin/regions/{regionId}/blocked-dates/{date}
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/blocked-dates/{date} - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("PUT /admin/regions/{id}/blocked-dates/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req BlockDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PUT /admin/regions/{id}/blocked-dates/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	blocked, err := h.service.BlockDate(r.Context(), &settings.BlockDateRequest{
		RegionID: regionID,
		Date:     date,
		Reason:   req.Reason,
	})
	if err != nil {
		h.respondError(w, "PUT /admin/regions/{id}/blocked-dates/{date}", regionID, err)
		return
	}

	h.logger.Info("PUT /admin/regions/{id}/blocked-dates/{date} - Blocked: region_id=%d, date=%s", regionID, domain.DateKey(date))
	handlers.RespondJSON(w, http.StatusOK, fromDomain(blocked))
}

// HandleUnblock DELETE /api/v1/admin/regions/{regionId}/blocked-dates/{date}
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("DELETE /admin/regions/{id}/blocked-dates/{date} - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("DELETE /admin/regions/{id}/blocked-dates/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.UnblockDate(r.Context(), regionID, date); err != nil {
		h.respondError(w, "DELETE /admin/regions/{id}/blocked-dates/{date}", regionID, err)
		return
	}

	h.logger.Info("DELETE /admin/regions/{id}/blocked-dates/{date} - Unblocked: region_id=%d, date=%s", regionID, domain.DateKey(date))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, regionID int64, err error) {
	switch {
	case errors.Is(err, settings.ErrRegionNotFound):
		h.logger.Warn("%s - Region not found: region_id=%d", route, regionID)
		handlers.RespondNotFound(w, msgRegionNotFound)

	case errors.Is(err, settings.ErrBlockedDateNotFound):
		h.logger.Warn("%s - Date not blocked: region_id=%d", route, regionID)
		handlers.RespondNotFound(w, msgNotBlocked)

	case errors.Is(err, settings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: region_id=%d, error=%v", route, regionID, err)
		handlers.RespondInternalError(w)
	}
}
