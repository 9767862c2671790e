package blocked_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

type SettingsService interface {
	ListBlockedDates(ctx context.Context, regionID int64) ([]domain.BlockedDate, error)
	BlockDate(ctx context.Context, req *settings.BlockDateRequest) (*domain.BlockedDate, error)
	UnblockDate(ctx context.Context, regionID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
