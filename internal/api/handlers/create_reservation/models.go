package create_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	admitReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/admit_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	RegionID int64         `json:"regionId"`
	Date     string        `json:"date"` // "2025-10-15"
	Slots    []SlotRequest `json:"slots"`
}

// SlotRequest временной слот в запросе
type SlotRequest struct {
	StartTime    string  `json:"startTime"`         // "10:00"
	EndTime      *string `json:"endTime,omitempty"` // если указан, должен быть startTime + 40 минут
	Grade        string  `json:"grade"`
	Participants int     `json:"participants"`
	Location     string  `json:"location"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	handlers.ReservationResponse
	QuotaRemaining int `json:"quotaRemaining"`
	DateCurrent    int `json:"dateCurrent"`
	DateMax        int `json:"dateMax"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(organizationID int64, tier domain.Tier) (*admitReservation.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	slots := make([]admitReservation.SlotInput, 0, len(r.Slots))
	for i, s := range r.Slots {
		start, err := types.NewTimeStringFromString(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("slot %d: invalid startTime: %w", i, err)
		}

		slot := admitReservation.SlotInput{
			StartTime:    start,
			Grade:        s.Grade,
			Participants: s.Participants,
			Location:     s.Location,
		}
		if s.EndTime != nil {
			end, err := types.NewTimeStringFromString(*s.EndTime)
			if err != nil {
				return nil, fmt.Errorf("slot %d: invalid endTime: %w", i, err)
			}
			slot.EndTime = ptr.Ptr(end)
		}
		slots = append(slots, slot)
	}

	return &admitReservation.Request{
		OrganizationID: organizationID,
		Tier:           tier,
		RegionID:       r.RegionID,
		Date:           date,
		Slots:          slots,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *admitReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationResponse: handlers.ReservationResponse{
			ID:             resp.ID,
			OrganizationID: resp.OrganizationID,
			RegionID:       resp.RegionID,
			Date:           resp.Date.Format(domain.DateFormat),
			Status:         resp.Status,
			Slots:          handlers.FromDomainSlots(resp.Slots),
			CreatedAt:      handlers.FormatTime(resp.CreatedAt),
			UpdatedAt:      handlers.FormatTime(resp.UpdatedAt),
		},
		QuotaRemaining: resp.QuotaRemaining,
		DateCurrent:    resp.DateCurrent,
		DateMax:        resp.DateMax,
	}
}
