package admit_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на бронирование
type Request struct {
	OrganizationID int64       `validate:"gt=0"`
	Tier           domain.Tier `validate:"required"` // уровень организации из сервиса членства
	RegionID       int64       `validate:"gt=0"`
	Date           time.Time   // дата бронирования (без времени)
	Slots          []SlotInput `validate:"min=1,max=2,dive"`
}

// SlotInput временной слот в запросе
type SlotInput struct {
	StartTime    types.TimeString  `validate:"required"`
	EndTime      *types.TimeString // вычисляется как начало + 40 минут, если указан - должен совпадать
	Grade        string            `validate:"required,max=50"`
	Participants int               `validate:"gte=1"`
	Location     string            `validate:"required,max=200"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	OrganizationID int64
	RegionID       int64
	Date           time.Time
	Status         string
	Slots          []domain.ReservationSlot

	// Состояние после допуска (для отображения)
	QuotaRemaining int
	DateCurrent    int
	DateMax        int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// outcome метка результата допуска в метриках
type outcome string

const (
	outcomeAdmitted      outcome = "admitted"
	outcomeInvalid       outcome = "invalid"
	outcomeTierClosed    outcome = "tier_closed"
	outcomeQuotaExceeded outcome = "quota_exceeded"
	outcomeDateBlocked   outcome = "date_blocked"
	outcomeDateFull      outcome = "date_full"
	outcomeError         outcome = "error"
)
