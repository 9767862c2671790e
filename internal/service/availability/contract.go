package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CountActive(ctx context.Context, regionID int64, date time.Time) (int, error)
	CountActiveByDateInMonth(ctx context.Context, regionID int64, year int, month time.Month) (map[string]int, error)
}

// CapacityRepository интерфейс репозитория конфигурации вместимости
type CapacityRepository interface {
	GetRegion(ctx context.Context, id int64) (*domain.Region, error)
	GetOrInitMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, bool, error)
	GetDailyOverride(ctx context.Context, regionID int64, date time.Time) (*domain.DailyCapacityOverride, error)
	ListDailyOverrides(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.DailyCapacityOverride, error)
	IsBlocked(ctx context.Context, regionID int64, date time.Time) (bool, error)
	ListBlockedDates(ctx context.Context, regionID int64) ([]domain.BlockedDate, error)
	ListTierWindows(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.TierWindow, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
