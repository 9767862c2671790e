package handlers

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// ReservationResponse бронирование в ответе API
type ReservationResponse struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organizationId"`
	RegionID       int64          `json:"regionId"`
	Date           string         `json:"date"`
	Status         string         `json:"status"`
	Slots          []SlotResponse `json:"slots"`
	CancelReason   *string        `json:"cancelReason,omitempty"`
	CreatedAt      string         `json:"createdAt,omitempty"`
	UpdatedAt      string         `json:"updatedAt,omitempty"`
}

// SlotResponse временной слот бронирования
type SlotResponse struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Grade        string `json:"grade"`
	Participants int    `json:"participants"`
	Location     string `json:"location"`
}

// FromDomainReservation конвертирует доменное бронирование в модель ответа
func FromDomainReservation(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		RegionID:       r.RegionID,
		Date:           r.Date.Format(domain.DateFormat),
		Status:         string(r.Status),
		Slots:          FromDomainSlots(r.Slots),
		CancelReason:   r.CancelReason,
		CreatedAt:      FormatTime(r.CreatedAt),
		UpdatedAt:      FormatTime(r.UpdatedAt),
	}
}

// FromDomainReservations конвертирует список бронирований
func FromDomainReservations(list []*domain.Reservation) []ReservationResponse {
	result := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		result = append(result, FromDomainReservation(r))
	}
	return result
}

// FromDomainSlots конвертирует слоты бронирования
func FromDomainSlots(slots []domain.ReservationSlot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, SlotResponse{
			StartTime:    s.StartTime.String(),
			EndTime:      s.EndTime.String(),
			Grade:        s.Grade,
			Participants: s.Participants,
			Location:     s.Location,
		})
	}
	return result
}

// DateStatusResponse статус даты в ответе API
type DateStatusResponse struct {
	Date      string `json:"date"`
	Current   int    `json:"current"`
	Max       int    `json:"max"`
	Available int    `json:"available"`
	IsFull    bool   `json:"isFull"`
	IsOpen    bool   `json:"isOpen"`
	IsBlocked bool   `json:"isBlocked"`
	Source    string `json:"source"`
}

// FromDomainDateStatus конвертирует статус даты в модель ответа
func FromDomainDateStatus(s domain.DateStatus) DateStatusResponse {
	available := s.Max - s.Current
	if available < 0 || s.IsBlocked {
		available = 0
	}
	return DateStatusResponse{
		Date:      s.Date.Format(domain.DateFormat),
		Current:   s.Current,
		Max:       s.Max,
		Available: available,
		IsFull:    s.IsFull,
		IsOpen:    s.IsOpen,
		IsBlocked: s.IsBlocked,
		Source:    string(s.Source),
	}
}

// FormatOptionalTime форматирует необязательное время
func FormatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return ptr.Ptr(FormatTime(*t))
}
