package set_tier_window

import (
	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SetTierWindowRequest HTTP request model
type SetTierWindowRequest struct {
	IsOpen *bool `json:"isOpen"`
}

// TierWindowResponse окно уровня на месяц
type TierWindowResponse struct {
	RegionID  int64   `json:"regionId"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Tier      string  `json:"tier"`
	IsOpen    bool    `json:"isOpen"`
	OpenedAt  *string `json:"openedAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

func fromDomain(w *domain.TierWindow) *TierWindowResponse {
	return &TierWindowResponse{
		RegionID:  w.RegionID,
		Year:      w.Year,
		Month:     int(w.Month),
		Tier:      string(w.Tier),
		IsOpen:    w.IsOpen,
		OpenedAt:  handlers.FormatOptionalTime(w.OpenedAt),
		UpdatedAt: handlers.FormatTime(w.UpdatedAt),
	}
}
