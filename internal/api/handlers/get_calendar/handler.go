package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	getMonthCalendar "github.com/m04kA/SMC-ReservationService/internal/usecase/get_month_calendar"
)

const (
	msgInvalidRegionID       = "некорректный ID региона"
	msgInvalidYearMonth      = "некорректные параметры year и month"
	msgInvalidOrganizationID = "некорректный ID организации"
	msgRegionNotFound        = "регион не найден"
	msgForbidden             = "доступ к квоте другой организации запрещен"
)

type Handler struct {
	useCase GetMonthCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/regions/{regionId}/calendar?year=&month=&organizationId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	regionID, err := handlers.PathInt64(r, "regionId")
	if err != nil {
		h.logger.Warn("GET /regions/{id}/calendar - Invalid region ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRegionID)
		return
	}

	year, month, err := handlers.QueryYearMonth(r)
	if err != nil {
		h.logger.Warn("GET /regions/{id}/calendar - Invalid year/month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	organizationID, err := handlers.QueryInt64(r, "organizationId")
	if err != nil {
		h.logger.Warn("GET /regions/{id}/calendar - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	// Квоту организации видит только сама организация или администратор
	if organizationID != nil {
		p, _ := middleware.PrincipalFromContext(r.Context())
		if !p.IsAdmin && p.OrganizationID != *organizationID {
			h.logger.Warn("GET /regions/{id}/calendar - Quota access denied: user_id=%d, organization_id=%d",
				p.UserID, *organizationID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getMonthCalendar.Request{
		RegionID:       regionID,
		Year:           year,
		Month:          month,
		OrganizationID: organizationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getMonthCalendar.ErrRegionNotFound):
			h.logger.Warn("GET /regions/{id}/calendar - Region not found: region_id=%d", regionID)
			handlers.RespondNotFound(w, msgRegionNotFound)

		case errors.Is(err, getMonthCalendar.ErrInvalidInput):
			h.logger.Warn("GET /regions/{id}/calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidYearMonth)

		default:
			h.logger.Error("GET /regions/{id}/calendar - Failed to build calendar: region_id=%d, error=%v", regionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /regions/{id}/calendar - region_id=%d, %04d-%02d, dates=%d", regionID, year, int(month), len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
