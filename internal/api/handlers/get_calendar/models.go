package get_calendar

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getMonthCalendar "github.com/m04kA/SMC-ReservationService/internal/usecase/get_month_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	RegionID int64                `json:"regionId"`
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Dates    []DateResponse       `json:"dates"`
	Tiers    []TierWindowResponse `json:"tiers"`
	Quota    *QuotaResponse       `json:"quota,omitempty"`
}

// DateResponse статус даты в календаре
type DateResponse struct {
	handlers.DateStatusResponse
	IsPast bool `json:"isPast"`
}

// TierWindowResponse окно уровня на месяц
type TierWindowResponse struct {
	Tier                   string  `json:"tier"`
	DisplayName            string  `json:"displayName"`
	AdvanceReservationDays int     `json:"advanceReservationDays"`
	IsOpen                 bool    `json:"isOpen"`
	OpenedAt               *string `json:"openedAt,omitempty"`
}

// QuotaResponse остаток квоты организации
type QuotaResponse struct {
	OrganizationID int64 `json:"organizationId"`
	Remaining      int   `json:"remaining"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthCalendar.Response) *CalendarResponse {
	result := &CalendarResponse{
		RegionID: resp.RegionID,
		Year:     resp.Year,
		Month:    int(resp.Month),
		Dates:    make([]DateResponse, 0, len(resp.Dates)),
		Tiers:    make([]TierWindowResponse, 0, len(resp.Tiers)),
	}

	for _, d := range resp.Dates {
		status := handlers.FromDomainDateStatus(d.DateStatus)
		status.Available = d.Available
		result.Dates = append(result.Dates, DateResponse{DateStatusResponse: status, IsPast: d.IsPast})
	}

	for _, t := range resp.Tiers {
		result.Tiers = append(result.Tiers, TierWindowResponse{
			Tier:                   string(t.Tier),
			DisplayName:            t.DisplayName,
			AdvanceReservationDays: t.AdvanceReservationDays,
			IsOpen:                 t.IsOpen,
			OpenedAt:               handlers.FormatOptionalTime(t.OpenedAt),
		})
	}

	if resp.Quota != nil {
		result.Quota = &QuotaResponse{
			OrganizationID: resp.Quota.OrganizationID,
			Remaining:      resp.Quota.Remaining,
		}
	}

	return result
}
