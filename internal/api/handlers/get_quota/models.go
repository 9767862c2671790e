package get_quota

import "github.com/m04kA/SMC-ReservationService/internal/service/quota"

// QuotaResponse использование месячной квоты организации
type QuotaResponse struct {
	OrganizationID int64 `json:"organizationId"`
	RegionID       int64 `json:"regionId"`
	Year           int   `json:"year"`
	Month          int   `json:"month"`
	Used           int   `json:"used"`
	Max            int   `json:"max"`
	Remaining      int   `json:"remaining"`
}

func fromUsage(organizationID, regionID int64, year, month int, u *quota.Usage) *QuotaResponse {
	return &QuotaResponse{
		OrganizationID: organizationID,
		RegionID:       regionID,
		Year:           year,
		Month:          month,
		Used:           u.Used,
		Max:            u.Max,
		Remaining:      u.Remaining,
	}
}
