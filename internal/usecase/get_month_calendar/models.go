package get_month_calendar

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса календаря месяца
type Request struct {
	RegionID       int64
	Year           int
	Month          time.Month
	OrganizationID *int64 // если указан, в ответ добавляется остаток квоты
}

// Response календарь месяца
type Response struct {
	RegionID int64
	Year     int
	Month    time.Month
	Dates    []Date       // по возрастанию даты
	Tiers    []TierWindow // окна уровней на месяц
	Quota    *Quota       // nil, если организация не указана
}

// Date статус одной даты
type Date struct {
	domain.DateStatus
	Available int  // свободных мест
	IsPast    bool // дата уже прошла
}

// TierWindow окно уровня с днями раннего доступа (только для отображения)
type TierWindow struct {
	Tier                   domain.Tier
	DisplayName            string
	AdvanceReservationDays int
	IsOpen                 bool
	OpenedAt               *time.Time
}

// Quota месячная квота организации
type Quota struct {
	OrganizationID int64
	Remaining      int
}
