package blocked_dates

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// BlockDateRequest HTTP request model
type BlockDateRequest struct {
	Reason string `json:"reason"`
}

// BlockedDateResponse заблокированная дата
type BlockedDateResponse struct {
	RegionID  int64  `json:"regionId"`
	Date      string `json:"date"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func fromDomain(b *domain.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		RegionID:  b.RegionID,
		Date:      b.Date.Format(domain.DateFormat),
		Reason:    b.Reason,
		CreatedAt: handlers.FormatTime(b.CreatedAt),
	}
}

func fromDomainList(list []domain.BlockedDate) []BlockedDateResponse {
	result := make([]BlockedDateResponse, 0, len(list))
	for i := range list {
		result = append(result, fromDomain(&list[i]))
	}
	return result
}
