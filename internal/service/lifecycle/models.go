package lifecycle

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// TransitionResult результат перехода статуса
type TransitionResult struct {
	Reservation *domain.Reservation
	From        domain.ReservationStatus

	// Deleted бронирование физически удалено, место и квота освобождены
	Deleted bool
}

// ListFilter фильтр списка бронирований организации
type ListFilter struct {
	RegionID   *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *domain.ReservationStatus
	ActiveOnly bool
}

func transitionName(from, to domain.ReservationStatus) string {
	return string(from) + "->" + string(to)
}
