package get_month_calendar

import "errors"

var (
	// ErrRegionNotFound возвращается, когда регион не найден
	ErrRegionNotFound = errors.New("get_month_calendar: region not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_month_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_month_calendar: internal error")
)
