package create_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/integrations/membership"
	admitReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/admit_reservation"
)

type AdmitReservationUseCase interface {
	Execute(ctx context.Context, req *admitReservation.Request) (*admitReservation.Response, error)
}

// MembershipClient источник уровня и статуса одобрения организации
type MembershipClient interface {
	GetOrganization(ctx context.Context, organizationID int64) (*membership.Organization, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
