package settings

import "errors"

var (
	// ErrRegionNotFound возвращается, когда регион не найден
	ErrRegionNotFound = errors.New("settings: region not found")

	// ErrOverrideNotFound возвращается при удалении несуществующего переопределения
	ErrOverrideNotFound = errors.New("settings: daily override not found")

	// ErrBlockedDateNotFound возвращается при снятии блокировки с незаблокированной даты
	ErrBlockedDateNotFound = errors.New("settings: date is not blocked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
