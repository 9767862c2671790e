package membership

import "errors"

var (
	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("membership client: organization not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("membership client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("membership client: invalid response")

	// ErrUnavailable возвращается, когда сервис не ответил после повторов
	ErrUnavailable = errors.New("membership client: service unavailable")
)
