package get_month_calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
)

// UseCase use case получения календаря месяца
type UseCase struct {
	availability AvailabilityResolver
	tierPolicy   TierPolicy
	quota        QuotaTracker
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availability AvailabilityResolver,
	tierPolicy TierPolicy,
	quota QuotaTracker,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability: availability,
		tierPolicy:   tierPolicy,
		quota:        quota,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthCalendar: region=%d, %04d-%02d", req.RegionID, req.Year, int(req.Month))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Статусы дат (создаёт месячную настройку при первом обращении)
	statuses, err := uc.availability.MonthStatus(ctx, req.RegionID, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, availability.ErrRegionNotFound) {
			uc.logger.Warn("GetMonthCalendar: region id=%d not found", req.RegionID)
			return nil, ErrRegionNotFound
		}
		if errors.Is(err, availability.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetMonthCalendar: failed to get month status: %v", err)
		return nil, fmt.Errorf("%w: failed to get month status: %v", ErrInternal, err)
	}

	// 3. Окна уровней и квота читаются параллельно
	resp := &Response{
		RegionID: req.RegionID,
		Year:     req.Year,
		Month:    req.Month,
		Dates:    buildDates(statuses, uc.timeProvider.Now()),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		windows, err := uc.tierPolicy.WindowsForMonth(gctx, req.RegionID, req.Year, req.Month)
		if err != nil {
			return fmt.Errorf("tier windows: %w", err)
		}
		resp.Tiers = make([]TierWindow, 0, len(windows))
		for _, w := range windows {
			resp.Tiers = append(resp.Tiers, TierWindow{
				Tier:                   w.Tier.Tier,
				DisplayName:            w.Tier.DisplayName,
				AdvanceReservationDays: w.Tier.AdvanceReservationDays,
				IsOpen:                 w.Window.IsOpen,
				OpenedAt:               w.Window.OpenedAt,
			})
		}
		return nil
	})
	if req.OrganizationID != nil {
		g.Go(func() error {
			remaining, err := uc.quota.RemainingQuota(gctx, *req.OrganizationID, req.RegionID, req.Year, req.Month)
			if err != nil {
				return fmt.Errorf("remaining quota: %w", err)
			}
			resp.Quota = &Quota{OrganizationID: *req.OrganizationID, Remaining: remaining}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, quota.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetMonthCalendar: failed to load calendar region=%d: %v", req.RegionID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("GetMonthCalendar: built %d dates for region=%d", len(resp.Dates), req.RegionID)
	return resp, nil
}

func validateRequest(req *Request) error {
	if req.RegionID <= 0 {
		return fmt.Errorf("%w: regionID must be positive", ErrInvalidInput)
	}
	if req.Year < 2000 || req.Year > 2100 {
		return fmt.Errorf("%w: year must be between 2000 and 2100", ErrInvalidInput)
	}
	if req.Month < time.January || req.Month > time.December {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if req.OrganizationID != nil && *req.OrganizationID <= 0 {
		return fmt.Errorf("%w: organizationID must be positive", ErrInvalidInput)
	}
	return nil
}

func buildDates(statuses map[string]domain.DateStatus, now time.Time) []Date {
	dates := make([]Date, 0, len(statuses))
	for _, status := range statuses {
		available := status.Max - status.Current
		if available < 0 || status.IsBlocked {
			available = 0
		}
		dates = append(dates, Date{
			DateStatus: status,
			Available:  available,
			IsPast:     domain.IsDateInPast(status.Date, now),
		})
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Date.Before(dates[j].Date) })
	return dates
}
