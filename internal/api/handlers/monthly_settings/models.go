package monthly_settings

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

// UpdateMonthlySettingRequest HTTP request model; отсутствующие поля не меняются
type UpdateMonthlySettingRequest struct {
	IsOpen                *bool `json:"isOpen,omitempty"`
	MaxReservationsPerDay *int  `json:"maxReservationsPerDay,omitempty"`
	MaxDaysPerMonth       *int  `json:"maxDaysPerMonth,omitempty"`
}

// MonthlySettingResponse HTTP response model
type MonthlySettingResponse struct {
	RegionID              int64  `json:"regionId"`
	Year                  int    `json:"year"`
	Month                 int    `json:"month"`
	IsOpen                bool   `json:"isOpen"`
	MaxReservationsPerDay int    `json:"maxReservationsPerDay"`
	MaxDaysPerMonth       int    `json:"maxDaysPerMonth"`
	UpdatedAt             string `json:"updatedAt,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateMonthlySettingRequest) ToServiceRequest(regionID int64, year int, month time.Month) *settings.UpdateMonthlySettingRequest {
	return &settings.UpdateMonthlySettingRequest{
		RegionID:              regionID,
		Year:                  year,
		Month:                 month,
		IsOpen:                r.IsOpen,
		MaxReservationsPerDay: r.MaxReservationsPerDay,
		MaxDaysPerMonth:       r.MaxDaysPerMonth,
	}
}

func fromDomain(s *domain.MonthlyCapacitySetting) *MonthlySettingResponse {
	return &MonthlySettingResponse{
		RegionID:              s.RegionID,
		Year:                  s.Year,
		Month:                 int(s.Month),
		IsOpen:                s.IsOpen,
		MaxReservationsPerDay: s.MaxReservationsPerDay,
		MaxDaysPerMonth:       s.MaxDaysPerMonth,
		UpdatedAt:             handlers.FormatTime(s.UpdatedAt),
	}
}
