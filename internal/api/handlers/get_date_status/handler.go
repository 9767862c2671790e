package get_date_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
)

const (
	msgInvalidRegionID = "некорректный ID региона"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgRegionNotFound  = "регион не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/regions/{regionId}/dates/{date}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("GET /regions/{id}/dates/{date}/status - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /regions/{id}/dates/{date}/status - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	status, err := h.service.DateStatus(r.Context(), regionID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrRegionNotFound):
			h.logger.Warn("GET /regions/{id}/dates/{date}/status - Region not found: region_id=%d", regionID)
			handlers.RespondNotFound(w, msgRegionNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /regions/{id}/dates/{date}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRegionID)

		default:
			h.logger.Error("GET /regions/{id}/dates/{date}/status - Failed to get status: region_id=%d, date=%s, error=%v",
				regionID, domain.DateKey(date), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /regions/{id}/dates/{date}/status - region_id=%d, date=%s, current=%d, max=%d",
		regionID, domain.DateKey(date), status.Current, status.Max)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainDateStatus(status))
}
