package list_reference

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// RegionResponse регион
type RegionResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// TierResponse уровень членства; advanceReservationDays только для отображения
type TierResponse struct {
	Tier                   string `json:"tier"`
	DisplayName            string `json:"displayName"`
	AdvanceReservationDays int    `json:"advanceReservationDays"`
}

func fromRegions(regions []domain.Region) []RegionResponse {
	result := make([]RegionResponse, 0, len(regions))
	for _, r := range regions {
		result = append(result, RegionResponse{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return result
}

func fromTiers(tiers []domain.MembershipTier) []TierResponse {
	result := make([]TierResponse, 0, len(tiers))
	for _, t := range tiers {
		result = append(result, TierResponse{
			Tier:                   string(t.Tier),
			DisplayName:            t.DisplayName,
			AdvanceReservationDays: t.AdvanceReservationDays,
		})
	}
	return result
}
