package daily_overrides

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

type SettingsService interface {
	ListDailyOverrides(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.DailyCapacityOverride, error)
	SetDailyOverride(ctx context.Context, req *settings.SetDailyOverrideRequest) (*domain.DailyCapacityOverride, error)
	DeleteDailyOverride(ctx context.Context, regionID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
