package get_quota

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
)

type QuotaService interface {
	MonthUsage(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (*quota.Usage, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
