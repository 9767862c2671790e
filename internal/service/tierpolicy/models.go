package tierpolicy

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Decision результат проверки окна уровня
type Decision struct {
	Allowed bool
	Reason  string
	Window  domain.TierWindow

	// AdvanceReservationDays только для отображения, допуск не ограничивает
	AdvanceReservationDays int
}

// WindowInfo окно уровня на месяц вместе с настройками уровня (для календаря)
type WindowInfo struct {
	Tier   domain.MembershipTier
	Window domain.TierWindow
}
