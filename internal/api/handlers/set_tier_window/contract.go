package set_tier_window

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
)

type SettingsService interface {
	SetTierWindow(ctx context.Context, req *settings.SetTierWindowRequest) (*domain.TierWindow, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
