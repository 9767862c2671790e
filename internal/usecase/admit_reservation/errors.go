package admit_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrTierClosed возвращается, когда окно уровня организации на месяц не открыто
	ErrTierClosed = errors.New("admit_reservation: tier window is not open")

	// ErrQuotaExceeded возвращается, когда месячная квота организации исчерпана
	ErrQuotaExceeded = errors.New("admit_reservation: monthly quota exceeded")

	// ErrDateBlocked возвращается для заблокированной даты или даты с нулевым переопределением
	ErrDateBlocked = errors.New("admit_reservation: date is blocked")

	// ErrDateFull возвращается, когда на дате нет свободных мест
	ErrDateFull = errors.New("admit_reservation: date is fully booked")

	// ErrRegionNotFound возвращается, когда регион не найден
	ErrRegionNotFound = errors.New("admit_reservation: region not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("admit_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("admit_reservation: internal error")
)

// TierClosedError отказ по окну уровня
type TierClosedError struct {
	Tier domain.Tier
}

func (e *TierClosedError) Error() string {
	return fmt.Sprintf("%s: tier=%s", ErrTierClosed.Error(), e.Tier)
}

func (e *TierClosedError) Unwrap() error {
	return ErrTierClosed
}

// QuotaExceededError отказ по месячной квоте
type QuotaExceededError struct {
	Used int
	Max  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s: %d of %d days used", ErrQuotaExceeded.Error(), e.Used, e.Max)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// DateFullError отказ по вместимости даты. Проигранная гонка на вставке
// возвращает ту же ошибку, что и предварительная проверка.
type DateFullError struct {
	Max int
}

func (e *DateFullError) Error() string {
	return fmt.Sprintf("%s: max %d reservations per day", ErrDateFull.Error(), e.Max)
}

func (e *DateFullError) Unwrap() error {
	return ErrDateFull
}
