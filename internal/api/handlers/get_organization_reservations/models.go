package get_organization_reservations

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
)

// ToListFilter формирует фильтр из query параметров:
// regionId, startDate, endDate, status, activeOnly
func ToListFilter(r *http.Request) (lifecycle.ListFilter, error) {
	var (
		filter lifecycle.ListFilter
		err    error
	)

	if filter.RegionID, err = handlers.QueryInt64(r, "regionId"); err != nil {
		return filter, err
	}
	if filter.StartDate, err = handlers.QueryDate(r, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = handlers.QueryDate(r, "endDate"); err != nil {
		return filter, err
	}

	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status := domain.ReservationStatus(raw)
		if !status.IsValid() {
			return filter, fmt.Errorf("invalid status %q", raw)
		}
		filter.Status = &status
	}
	if raw := q.Get("activeOnly"); raw != "" {
		if filter.ActiveOnly, err = strconv.ParseBool(raw); err != nil {
			return filter, fmt.Errorf("invalid activeOnly value: %w", err)
		}
	}

	return filter, nil
}
