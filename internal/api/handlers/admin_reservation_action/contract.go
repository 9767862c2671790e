package admin_reservation_action

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

type LifecycleService interface {
	Approve(ctx context.Context, id int64) (*lifecycle.TransitionResult, error)
	Reject(ctx context.Context, id int64) (*lifecycle.TransitionResult, error)
	AdminCancel(ctx context.Context, id int64) (*lifecycle.TransitionResult, error)
	ResolveCancellationRequest(ctx context.Context, id int64, approve bool) (*lifecycle.TransitionResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
