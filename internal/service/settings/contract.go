package settings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// CapacityRepository интерфейс репозитория конфигурации вместимости
type CapacityRepository interface {
	GetRegion(ctx context.Context, id int64) (*domain.Region, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
	ListTiers(ctx context.Context) ([]domain.MembershipTier, error)

	GetTierWindow(ctx context.Context, regionID int64, year int, month time.Month, tier domain.Tier) (*domain.TierWindow, error)
	UpsertTierWindow(ctx context.Context, window *domain.TierWindow) (*domain.TierWindow, error)

	GetOrInitMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, bool, error)
	UpdateMonthlySetting(ctx context.Context, setting *domain.MonthlyCapacitySetting) (*domain.MonthlyCapacitySetting, error)

	ListDailyOverrides(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.DailyCapacityOverride, error)
	UpsertDailyOverride(ctx context.Context, override *domain.DailyCapacityOverride) (*domain.DailyCapacityOverride, error)
	DeleteDailyOverride(ctx context.Context, regionID int64, date time.Time) error

	ListBlockedDates(ctx context.Context, regionID int64) ([]domain.BlockedDate, error)
	BlockDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error)
	UnblockDate(ctx context.Context, regionID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
