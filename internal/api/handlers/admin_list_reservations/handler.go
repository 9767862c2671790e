package admin_list_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

const (
	msgInvalidRegionID = "некорректный ID региона"
	msgInvalidDate     = "требуется параметр date в формате YYYY-MM-DD"
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

// Handle GET /api/v1/admin/regions/{regionId}/reservations?date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("GET /admin/regions/{id}/reservations - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil || date == nil {
		h.logger.Warn("GET /admin/regions/{id}/reservations - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	reservations, err := h.service.ListByDate(r.Context(), regionID, *date)
	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidInput) {
			h.logger.Warn("GET /admin/regions/{id}/reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRegionID)
			return
		}
		h.logger.Error("GET /admin/regions/{id}/reservations - Failed to list reservations: region_id=%d, date=%s, error=%v",
			regionID, domain.DateKey(*date), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/regions/{id}/reservations - region_id=%d, date=%s, count=%d",
		regionID, domain.DateKey(*date), len(reservations))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainReservations(reservations))
}
