package settings

import "time"

// UpdateMonthlySettingRequest частичное обновление месячной настройки: nil-поля не меняются
type UpdateMonthlySettingRequest struct {
	RegionID              int64      `validate:"gt=0"`
	Year                  int        `validate:"gte=2000,lte=2100"`
	Month                 time.Month `validate:"gte=1,lte=12"`
	IsOpen                *bool
	MaxReservationsPerDay *int `validate:"omitempty,gte=1,lte=100"`
	MaxDaysPerMonth       *int `validate:"omitempty,gte=1,lte=31"`
}

// SetDailyOverrideRequest переопределение вместимости на дату; 0 блокирует дату
type SetDailyOverrideRequest struct {
	RegionID              int64 `validate:"gt=0"`
	Date                  time.Time
	MaxReservationsPerDay int `validate:"gte=0,lte=100"`
}

// BlockDateRequest блокировка даты
type BlockDateRequest struct {
	RegionID int64 `validate:"gt=0"`
	Date     time.Time
	Reason   string `validate:"max=500"`
}

// SetTierWindowRequest переключение окна уровня
type SetTierWindowRequest struct {
	RegionID int64      `validate:"gt=0"`
	Year     int        `validate:"gte=2000,lte=2100"`
	Month    time.Month `validate:"gte=1,lte=12"`
	Tier     string     `validate:"required"`
	IsOpen   bool
}
