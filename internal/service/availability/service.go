package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

// Service вычисляет статус даты: текущее число активных бронирований,
// эффективный максимум и признаки открытости и блокировки.
// Порядок разрешения: заблокированная дата, затем переопределение на дату, затем месячная настройка.
type Service struct {
	reservations ReservationRepository
	capacity     CapacityRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса доступности дат
func NewService(reservations ReservationRepository, capacity CapacityRepository, logger Logger) *Service {
	return &Service{
		reservations: reservations,
		capacity:     capacity,
		logger:       logger,
	}
}

// DateStatus возвращает статус одной даты. Конфигурация читается заново при каждом вызове,
// поэтому внутри транзакции допуска статус отражает свежие настройки.
func (s *Service) DateStatus(ctx context.Context, regionID int64, date time.Time) (domain.DateStatus, error) {
	if err := s.checkRegion(ctx, regionID); err != nil {
		return domain.DateStatus{}, err
	}

	date = domain.DateOnly(date)
	in := domain.DateStatusInput{Date: date}

	monthly, _, err := s.capacity.GetOrInitMonthlySetting(ctx, regionID, date.Year(), date.Month())
	if err != nil {
		s.logger.Error("DateStatus: failed to get monthly setting region=%d date=%s: %v", regionID, domain.DateKey(date), err)
		return domain.DateStatus{}, fmt.Errorf("%w: DateStatus - get monthly setting: %w", ErrInternal, err)
	}
	in.Monthly = *monthly

	override, err := s.capacity.GetDailyOverride(ctx, regionID, date)
	switch {
	case err == nil:
		in.Override = override
	case !errors.Is(err, capacityRepo.ErrOverrideNotFound):
		s.logger.Error("DateStatus: failed to get override region=%d date=%s: %v", regionID, domain.DateKey(date), err)
		return domain.DateStatus{}, fmt.Errorf("%w: DateStatus - get daily override: %w", ErrInternal, err)
	}

	if in.Blocked, err = s.capacity.IsBlocked(ctx, regionID, date); err != nil {
		s.logger.Error("DateStatus: failed to check blocked region=%d date=%s: %v", regionID, domain.DateKey(date), err)
		return domain.DateStatus{}, fmt.Errorf("%w: DateStatus - is blocked: %w", ErrInternal, err)
	}

	if in.ActiveCount, err = s.reservations.CountActive(ctx, regionID, date); err != nil {
		s.logger.Error("DateStatus: failed to count active region=%d date=%s: %v", regionID, domain.DateKey(date), err)
		return domain.DateStatus{}, fmt.Errorf("%w: DateStatus - count active: %w", ErrInternal, err)
	}

	windows, err := s.capacity.ListTierWindows(ctx, regionID, date.Year(), date.Month())
	if err != nil {
		s.logger.Error("DateStatus: failed to list tier windows region=%d: %v", regionID, err)
		return domain.DateStatus{}, fmt.Errorf("%w: DateStatus - list tier windows: %w", ErrInternal, err)
	}
	in.AnyTierWindow = anyOpen(windows)

	return domain.ResolveDateStatus(in), nil
}

// MonthStatus возвращает статусы всех дат месяца, ключ - дата в формате YYYY-MM-DD.
// Данные месяца читаются пакетно и параллельно, каждая дата разрешается той же
// функцией, что и в DateStatus.
func (s *Service) MonthStatus(ctx context.Context, regionID int64, year int, month time.Month) (map[string]domain.DateStatus, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	// Чтение-или-создание пишет в БД, поэтому выполняется до параллельных чтений
	monthly, _, err := s.capacity.GetOrInitMonthlySetting(ctx, regionID, year, month)
	if err != nil {
		s.logger.Error("MonthStatus: failed to get monthly setting region=%d %04d-%02d: %v", regionID, year, int(month), err)
		return nil, fmt.Errorf("%w: MonthStatus - get monthly setting: %w", ErrInternal, err)
	}

	var (
		counts    map[string]int
		overrides []domain.DailyCapacityOverride
		blocked   []domain.BlockedDate
		windows   []domain.TierWindow
	)

	g, gctx := errgroup.WithContext(ctx)
	if dbmetrics.IsInTransaction(ctx) {
		// одна транзакция - одно соединение, запросы по нему идут последовательно
		g.SetLimit(1)
	}

	g.Go(func() error {
		var err error
		counts, err = s.reservations.CountActiveByDateInMonth(gctx, regionID, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.capacity.ListDailyOverrides(gctx, regionID, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		blocked, err = s.capacity.ListBlockedDates(gctx, regionID)
		return err
	})
	g.Go(func() error {
		var err error
		windows, err = s.capacity.ListTierWindows(gctx, regionID, year, month)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("MonthStatus: failed to load month data region=%d %04d-%02d: %v", regionID, year, int(month), err)
		return nil, fmt.Errorf("%w: MonthStatus - load month data: %w", ErrInternal, err)
	}

	overrideByDate := make(map[string]*domain.DailyCapacityOverride, len(overrides))
	for i := range overrides {
		overrideByDate[domain.DateKey(overrides[i].Date)] = &overrides[i]
	}
	blockedDates := make(map[string]struct{}, len(blocked))
	for _, b := range blocked {
		blockedDates[domain.DateKey(b.Date)] = struct{}{}
	}
	anyWindow := anyOpen(windows)

	first, last := domain.MonthBounds(year, month)
	result := make(map[string]domain.DateStatus, last.Day())
	for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
		key := domain.DateKey(date)
		_, isBlocked := blockedDates[key]

		result[key] = domain.ResolveDateStatus(domain.DateStatusInput{
			Date:          date,
			ActiveCount:   counts[key],
			Blocked:       isBlocked,
			Override:      overrideByDate[key],
			Monthly:       *monthly,
			AnyTierWindow: anyWindow,
		})
	}

	return result, nil
}

func (s *Service) checkRegion(ctx context.Context, regionID int64) error {
	if regionID <= 0 {
		return fmt.Errorf("%w: regionID must be positive", ErrInvalidInput)
	}

	if _, err := s.capacity.GetRegion(ctx, regionID); err != nil {
		if errors.Is(err, capacityRepo.ErrRegionNotFound) {
			return ErrRegionNotFound
		}
		s.logger.Error("failed to get region id=%d: %v", regionID, err)
		return fmt.Errorf("%w: get region: %w", ErrInternal, err)
	}
	return nil
}

func anyOpen(windows []domain.TierWindow) bool {
	for _, w := range windows {
		if w.IsOpen {
			return true
		}
	}
	return false
}
