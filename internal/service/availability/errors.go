package availability

import "errors"

var (
	// ErrRegionNotFound возвращается, когда регион не найден
	ErrRegionNotFound = errors.New("availability: region not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
