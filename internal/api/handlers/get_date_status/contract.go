package get_date_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type AvailabilityService interface {
	DateStatus(ctx context.Context, regionID int64, date time.Time) (domain.DateStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
