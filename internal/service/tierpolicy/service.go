package tierpolicy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/capacity"
)

// Service проверяет, открыто ли окно бронирования уровня членства
type Service struct {
	repo         CapacityRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса окон уровней
func NewService(repo CapacityRepository, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// CanTierReserve проверяет окно уровня на месяц даты.
// Отсутствующее или закрытое окно - отказ с причиной ReasonWindowClosed.
// Дни раннего доступа возвращаются только для отображения.
func (s *Service) CanTierReserve(ctx context.Context, tier domain.Tier, regionID int64, date time.Time) (*Decision, error) {
	if _, err := domain.ParseTier(string(tier)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}

	if domain.IsDateInPast(date, s.timeProvider.Now()) {
		return nil, ErrDateInPast
	}

	settings, err := s.repo.GetTier(ctx, tier)
	if err != nil {
		if errors.Is(err, capacityRepo.ErrTierNotFound) {
			s.logger.Warn("CanTierReserve: tier=%s is not configured", tier)
			return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
		}
		s.logger.Error("CanTierReserve: failed to get tier=%s: %v", tier, err)
		return nil, fmt.Errorf("%w: CanTierReserve - get tier: %v", ErrInternal, err)
	}

	year, month := date.Year(), date.Month()
	window, err := s.repo.GetTierWindow(ctx, regionID, year, month, tier)
	switch {
	case errors.Is(err, capacityRepo.ErrTierWindowNotFound):
		closed := domain.ClosedTierWindow(regionID, year, month, tier)
		window = &closed
	case err != nil:
		s.logger.Error("CanTierReserve: failed to get window region=%d %04d-%02d tier=%s: %v",
			regionID, year, int(month), tier, err)
		return nil, fmt.Errorf("%w: CanTierReserve - get tier window: %v", ErrInternal, err)
	}

	decision := &Decision{
		Allowed:                window.IsOpen,
		Window:                 *window,
		AdvanceReservationDays: settings.AdvanceReservationDays,
	}
	if !decision.Allowed {
		decision.Reason = ReasonWindowClosed
	}

	return decision, nil
}

// WindowsForMonth возвращает окно каждого уровня на месяц (по умолчанию закрытое)
func (s *Service) WindowsForMonth(ctx context.Context, regionID int64, year int, month time.Month) ([]WindowInfo, error) {
	tiers, err := s.repo.ListTiers(ctx)
	if err != nil {
		s.logger.Error("WindowsForMonth: failed to list tiers: %v", err)
		return nil, fmt.Errorf("%w: WindowsForMonth - list tiers: %v", ErrInternal, err)
	}

	windows, err := s.repo.ListTierWindows(ctx, regionID, year, month)
	if err != nil {
		s.logger.Error("WindowsForMonth: failed to list windows region=%d %04d-%02d: %v", regionID, year, int(month), err)
		return nil, fmt.Errorf("%w: WindowsForMonth - list tier windows: %v", ErrInternal, err)
	}

	byTier := make(map[domain.Tier]domain.TierWindow, len(windows))
	for _, w := range windows {
		byTier[w.Tier] = w
	}

	result := make([]WindowInfo, 0, len(tiers))
	for _, tier := range tiers {
		window, ok := byTier[tier.Tier]
		if !ok {
			window = domain.ClosedTierWindow(regionID, year, month, tier.Tier)
		}
		result = append(result, WindowInfo{Tier: tier, Window: window})
	}

	return result, nil
}
