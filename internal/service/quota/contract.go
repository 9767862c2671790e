package quota

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CountDistinctActiveDatesForOrgInMonth(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (int, error)
	HasActiveOnDate(ctx context.Context, organizationID, regionID int64, date time.Time) (bool, error)
}

// SettingsRepository интерфейс репозитория месячных настроек
type SettingsRepository interface {
	GetOrInitMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
