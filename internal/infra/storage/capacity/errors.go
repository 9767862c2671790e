package capacity

import "errors"

var (
	// ErrRegionNotFound возвращается, когда регион не найден
	ErrRegionNotFound = errors.New("capacity.repository: region not found")

	// ErrTierNotFound возвращается, когда уровень членства не найден
	ErrTierNotFound = errors.New("capacity.repository: membership tier not found")

	// ErrTierWindowNotFound возвращается, когда окно уровня ни разу не настраивалось
	ErrTierWindowNotFound = errors.New("capacity.repository: tier window not found")

	// ErrSettingNotFound возвращается, когда месячная настройка не найдена
	ErrSettingNotFound = errors.New("capacity.repository: monthly setting not found")

	// ErrOverrideNotFound возвращается, когда переопределение на дату не найдено
	ErrOverrideNotFound = errors.New("capacity.repository: daily override not found")

	// ErrBlockedDateNotFound возвращается, когда дата не заблокирована
	ErrBlockedDateNotFound = errors.New("capacity.repository: blocked date not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacity.repository: failed to scan row")
)
