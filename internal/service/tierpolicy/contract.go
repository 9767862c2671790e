package tierpolicy

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// CapacityRepository интерфейс репозитория окон уровней и уровней членства
type CapacityRepository interface {
	GetTier(ctx context.Context, tier domain.Tier) (*domain.MembershipTier, error)
	ListTiers(ctx context.Context) ([]domain.MembershipTier, error)
	GetTierWindow(ctx context.Context, regionID int64, year int, month time.Month, tier domain.Tier) (*domain.TierWindow, error)
	ListTierWindows(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.TierWindow, error)
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
