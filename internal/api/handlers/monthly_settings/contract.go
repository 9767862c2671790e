package monthly_settings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

type SettingsService interface {
	GetMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, error)
	UpdateMonthlySetting(ctx context.Context, req *settings.UpdateMonthlySettingRequest) (*domain.MonthlyCapacitySetting, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
