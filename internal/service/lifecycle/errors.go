package lifecycle

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("lifecycle: reservation not found")

	// ErrAccessDenied возвращается, когда переход инициирует не та сторона
	// или организация обращается к чужому бронированию
	ErrAccessDenied = errors.New("lifecycle: access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("lifecycle: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle: internal error")
)
