package admit_reservation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest проверяет запрос без обращения к хранилищу и возвращает слоты
// с вычисленным временем окончания
func validateRequest(validate *validator.Validate, req *Request) ([]domain.ReservationSlot, error) {
	for i := range req.Slots {
		req.Slots[i].Grade = strings.TrimSpace(req.Slots[i].Grade)
		req.Slots[i].Location = strings.TrimSpace(req.Slots[i].Location)
	}

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := domain.ParseTier(string(req.Tier)); err != nil {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, req.Tier)
	}

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(req.Slots))
	slots := make([]domain.ReservationSlot, 0, len(req.Slots))
	for i, in := range req.Slots {
		if err := in.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: slot %d: invalid startTime %q", ErrInvalidInput, i+1, in.StartTime)
		}

		end, err := in.StartTime.AddMinutes(domain.SlotDurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrInvalidInput, i+1, err)
		}
		if in.EndTime != nil && !in.EndTime.IsZero() && *in.EndTime != end {
			return nil, fmt.Errorf("%w: slot %d: endTime must be %s", ErrInvalidInput, i+1, end)
		}

		if _, dup := seen[in.StartTime.String()]; dup {
			return nil, fmt.Errorf("%w: duplicate slot startTime %s", ErrInvalidInput, in.StartTime)
		}
		seen[in.StartTime.String()] = struct{}{}

		slots = append(slots, domain.ReservationSlot{
			StartTime:    in.StartTime,
			EndTime:      end,
			Grade:        in.Grade,
			Participants: in.Participants,
			Location:     in.Location,
		})
	}

	return slots, nil
}
