package daily_overrides

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SetOverrideRequest HTTP request model; 0 закрывает дату
type SetOverrideRequest struct {
	MaxReservationsPerDay *int `json:"maxReservationsPerDay"`
}

// OverrideResponse переопределение вместимости на дату
type OverrideResponse struct {
	RegionID              int64  `json:"regionId"`
	Date                  string `json:"date"`
	MaxReservationsPerDay int    `json:"maxReservationsPerDay"`
	IsBlocking            bool   `json:"isBlocking"`
	UpdatedAt             string `json:"updatedAt,omitempty"`
}

func fromDomain(o *domain.DailyCapacityOverride) OverrideResponse {
	return OverrideResponse{
		RegionID:              o.RegionID,
		Date:                  o.Date.Format(domain.DateFormat),
		MaxReservationsPerDay: o.MaxReservationsPerDay,
		IsBlocking:            o.IsBlocking(),
		UpdatedAt:             handlers.FormatTime(o.UpdatedAt),
	}
}

func fromDomainList(list []domain.DailyCapacityOverride) []OverrideResponse {
	result := make([]OverrideResponse, 0, len(list))
	for i := range list {
		result = append(result, fromDomain(&list[i]))
	}
	return result
}
