package cancel_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

type LifecycleService interface {
	CancelByOrganization(ctx context.Context, id, organizationID int64) (*lifecycle.TransitionResult, error)
	RequestCancellation(ctx context.Context, id, organizationID int64, reason string) (*lifecycle.TransitionResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
