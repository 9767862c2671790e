package get_organization_reservations

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

type ReservationService interface {
	ListByOrganization(ctx context.Context, organizationID int64, filter lifecycle.ListFilter) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
