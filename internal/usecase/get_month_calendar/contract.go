package get_month_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/tierpolicy"
)

// AvailabilityResolver статусы дат месяца
type AvailabilityResolver interface {
	MonthStatus(ctx context.Context, regionID int64, year int, month time.Month) (map[string]domain.DateStatus, error)
}

// TierPolicy окна уровней на месяц
type TierPolicy interface {
	WindowsForMonth(ctx context.Context, regionID int64, year int, month time.Month) ([]tierpolicy.WindowInfo, error)
}

// QuotaTracker остаток месячной квоты
type QuotaTracker interface {
	RemainingQuota(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (int, error)
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
