package admit_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
	"github.com/m04kA/SMC-ReservationService/internal/service/tierpolicy"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	LockOrganizationMonth(ctx context.Context, organizationID, regionID int64, year int, month time.Month) error
	LockDate(ctx context.Context, regionID int64, date time.Time) error
	InsertWithSlots(ctx context.Context, reservation *domain.Reservation, maxPerDay int) (*domain.Reservation, error)
}

// RegionRepository интерфейс справочника регионов
type RegionRepository interface {
	GetRegion(ctx context.Context, id int64) (*domain.Region, error)
}

// TierPolicy проверка окна уровня членства
type TierPolicy interface {
	CanTierReserve(ctx context.Context, tier domain.Tier, regionID int64, date time.Time) (*tierpolicy.Decision, error)
}

// QuotaTracker учёт месячной квоты организации
type QuotaTracker interface {
	Usage(ctx context.Context, organizationID, regionID int64, date time.Time) (*quota.Usage, error)
}

// AvailabilityResolver статус даты
type AvailabilityResolver interface {
	DateStatus(ctx context.Context, regionID int64, date time.Time) (domain.DateStatus, error)
}

// TransactionManager интерфейс для управления транзакциями.
// Допуск идёт в READ COMMITTED: каждый запрос после advisory-блокировки
// видит коммит предыдущего владельца блокировки.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder учёт результатов допуска
type MetricsRecorder interface {
	RecordAdmission(outcome string)
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
