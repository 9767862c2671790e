package quota

import (
	"context"
	"fmt"
	"time"
)

// Service считает месячную квоту организации: сколько различных дат месяца
// уже занято её активными бронированиями относительно maxDaysPerMonth
type Service struct {
	reservations ReservationRepository
	settings     SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса квот
func NewService(reservations ReservationRepository, settings SettingsRepository, logger Logger) *Service {
	return &Service{
		reservations: reservations,
		settings:     settings,
		logger:       logger,
	}
}

// RemainingQuota возвращает max(0, maxDaysPerMonth - число различных активных дат)
func (s *Service) RemainingQuota(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (int, error) {
	used, limit, err := s.usedAndMax(ctx, organizationID, regionID, year, month)
	if err != nil {
		return 0, err
	}
	return remaining(limit, used), nil
}

// MonthUsage возвращает использование квоты за месяц
func (s *Service) MonthUsage(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (*Usage, error) {
	used, limit, err := s.usedAndMax(ctx, organizationID, regionID, year, month)
	if err != nil {
		return nil, err
	}
	return &Usage{Used: used, Max: limit, Remaining: remaining(limit, used)}, nil
}

// Usage возвращает использование квоты на месяц даты и признак того,
// что на саму дату у организации уже есть активное бронирование
func (s *Service) Usage(ctx context.Context, organizationID, regionID int64, date time.Time) (*Usage, error) {
	used, limit, err := s.usedAndMax(ctx, organizationID, regionID, date.Year(), date.Month())
	if err != nil {
		return nil, err
	}

	booked, err := s.reservations.HasActiveOnDate(ctx, organizationID, regionID, date)
	if err != nil {
		s.logger.Error("Usage: failed to check org=%d date=%s: %v", organizationID, date.Format("2006-01-02"), err)
		return nil, fmt.Errorf("%w: Usage - has active on date: %w", ErrInternal, err)
	}

	return &Usage{
		Used:              used,
		Max:               limit,
		Remaining:         remaining(limit, used),
		DateAlreadyBooked: booked,
	}, nil
}

func (s *Service) usedAndMax(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (int, int, error) {
	if organizationID <= 0 || regionID <= 0 {
		return 0, 0, fmt.Errorf("%w: organizationID and regionID must be positive", ErrInvalidInput)
	}
	if month < time.January || month > time.December {
		return 0, 0, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	setting, _, err := s.settings.GetOrInitMonthlySetting(ctx, regionID, year, month)
	if err != nil {
		s.logger.Error("RemainingQuota: failed to get monthly setting region=%d %04d-%02d: %v", regionID, year, int(month), err)
		return 0, 0, fmt.Errorf("%w: get monthly setting: %w", ErrInternal, err)
	}

	used, err := s.reservations.CountDistinctActiveDatesForOrgInMonth(ctx, organizationID, regionID, year, month)
	if err != nil {
		s.logger.Error("RemainingQuota: failed to count dates org=%d region=%d: %v", organizationID, regionID, err)
		return 0, 0, fmt.Errorf("%w: count distinct active dates: %w", ErrInternal, err)
	}

	return used, setting.MaxDaysPerMonth, nil
}
