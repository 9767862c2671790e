package tierpolicy

import "errors"

var (
	// ErrUnknownTier возвращается для уровня, которого нет в перечислении или в справочнике
	ErrUnknownTier = errors.New("tierpolicy: unknown membership tier")

	// ErrDateInPast возвращается, если дата бронирования уже прошла
	ErrDateInPast = errors.New("tierpolicy: date is in the past")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tierpolicy: internal error")
)

// ReasonWindowClosed причина отказа, когда окно уровня не открыто
const ReasonWindowClosed = "tier window not open"
