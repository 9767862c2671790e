package create_reservation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/membership"
	admitReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/admit_reservation"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidRequestData    = "некорректные данные бронирования: ожидается дата YYYY-MM-DD и время HH:MM"
	msgOrganizationRequired  = "бронирование доступно только от имени организации"
	msgOrganizationNotFound  = "организация не найдена"
	msgOrganizationNotActive = "организация не одобрена"
	msgMembershipUnavailable = "сервис членства недоступен"
	msgRegionNotFound        = "регион не найден"
	msgInvalidInput          = "некорректные данные бронирования"
	msgTierClosed            = "окно бронирования для уровня %q закрыто: его должен открыть администратор"
	msgQuotaExceeded         = "месячная квота организации исчерпана (%d из %d дней)"
	msgDateBlocked           = "дата закрыта для бронирования"
	msgDateFull              = "на выбранную дату нет свободных мест (максимум %d бронирований в день), выберите другую дату"
)

type Handler struct {
	useCase    AdmitReservationUseCase
	membership MembershipClient
	logger     Logger
}

func NewHandler(useCase AdmitReservationUseCase, membership MembershipClient, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		membership: membership,
		logger:     logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	if !p.HasOrganization() {
		h.logger.Warn("POST /reservations - Missing organization: user_id=%d", p.UserID)
		handlers.RespondForbidden(w, msgOrganizationRequired)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Уровень организации определяется сервисом членства, а не клиентом
	org, err := h.membership.GetOrganization(r.Context(), p.OrganizationID)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrOrganizationNotFound):
			h.logger.Warn("POST /reservations - Organization not found: organization_id=%d", p.OrganizationID)
			handlers.RespondNotFound(w, msgOrganizationNotFound)

		case errors.Is(err, membership.ErrUnavailable):
			h.logger.Error("POST /reservations - Membership service unavailable: organization_id=%d, error=%v", p.OrganizationID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgMembershipUnavailable)

		default:
			h.logger.Error("POST /reservations - Failed to get organization: organization_id=%d, error=%v", p.OrganizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if !org.IsApproved {
		h.logger.Warn("POST /reservations - Organization not approved: organization_id=%d", org.ID)
		handlers.RespondForbidden(w, msgOrganizationNotActive)
		return
	}

	tier, err := domain.ParseTier(org.Tier)
	if err != nil {
		h.logger.Error("POST /reservations - Unknown tier from membership service: organization_id=%d, tier=%q", org.ID, org.Tier)
		handlers.RespondInternalError(w)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(p.OrganizationID, tier)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestData)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var (
			tierClosed    *admitReservation.TierClosedError
			quotaExceeded *admitReservation.QuotaExceededError
			dateFull      *admitReservation.DateFullError
		)

		switch {
		case errors.As(err, &tierClosed):
			h.logger.Warn("POST /reservations - Tier closed: organization_id=%d, tier=%s", p.OrganizationID, tierClosed.Tier)
			handlers.RespondConflict(w, fmt.Sprintf(msgTierClosed, tierClosed.Tier))

		case errors.As(err, &quotaExceeded):
			h.logger.Warn("POST /reservations - Quota exceeded: organization_id=%d, %v", p.OrganizationID, err)
			handlers.RespondConflict(w, fmt.Sprintf(msgQuotaExceeded, quotaExceeded.Used, quotaExceeded.Max))

		case errors.Is(err, admitReservation.ErrDateBlocked):
			h.logger.Warn("POST /reservations - Date blocked: region_id=%d, date=%s", req.RegionID, req.Date)
			handlers.RespondConflict(w, msgDateBlocked)

		case errors.As(err, &dateFull):
			h.logger.Warn("POST /reservations - Date full: region_id=%d, date=%s", req.RegionID, req.Date)
			handlers.RespondConflict(w, fmt.Sprintf(msgDateFull, dateFull.Max))

		case errors.Is(err, admitReservation.ErrRegionNotFound):
			h.logger.Warn("POST /reservations - Region not found: region_id=%d", req.RegionID)
			handlers.RespondNotFound(w, msgRegionNotFound)

		case errors.Is(err, admitReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: organization_id=%d, region_id=%d, error=%v",
				p.OrganizationID, req.RegionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, organization_id=%d, region_id=%d, date=%s",
		result.ID, result.OrganizationID, result.RegionID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
