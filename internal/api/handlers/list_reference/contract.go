package list_reference

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type SettingsService interface {
	ListRegions(ctx context.Context) ([]domain.Region, error)
	ListTiers(ctx context.Context) ([]domain.MembershipTier, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
