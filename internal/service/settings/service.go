package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// Service административные операции над конфигурацией вместимости.
// Изменения не кэшируются и видны со следующего чтения.
type Service struct {
	repo         CapacityRepository
	txManager    TransactionManager
	validate     *validator.Validate
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo CapacityRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:         repo,
		txManager:    txManager,
		validate:     validator.New(),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListRegions возвращает все регионы
func (s *Service) ListRegions(ctx context.Context) ([]domain.Region, error) {
	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		s.logger.Error("ListRegions: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRegions - repository error: %v", ErrInternal, err)
	}
	return regions, nil
}

// ListTiers возвращает уровни членства с количеством дней раннего доступа
func (s *Service) ListTiers(ctx context.Context) ([]domain.MembershipTier, error) {
	tiers, err := s.repo.ListTiers(ctx)
	if err != nil {
		s.logger.Error("ListTiers: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTiers - repository error: %v", ErrInternal, err)
	}
	return tiers, nil
}

// SetTierWindow открывает или закрывает окно уровня на месяц.
// OpenedAt проставляется при открытии закрытого окна и сохраняется при закрытии.
func (s *Service) SetTierWindow(ctx context.Context, req *SetTierWindowRequest) (*domain.TierWindow, error) {
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("SetTierWindow: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		s.logger.Warn("SetTierWindow: unknown tier %q", req.Tier)
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, req.Tier)
	}

	s.logger.Info("SetTierWindow: region=%d %04d-%02d tier=%s open=%t", req.RegionID, req.Year, int(req.Month), tier, req.IsOpen)

	var result *domain.TierWindow
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.checkRegion(txCtx, req.RegionID); err != nil {
			return err
		}

		window := domain.ClosedTierWindow(req.RegionID, req.Year, req.Month, tier)
		current, err := s.repo.GetTierWindow(txCtx, req.RegionID, req.Year, req.Month, tier)
		switch {
		case err == nil:
			window = *current
		case !errors.Is(err, capacityRepo.ErrTierWindowNotFound):
			s.logger.Error("SetTierWindow: failed to get window: %v", err)
			return fmt.Errorf("%w: SetTierWindow - get window: %v", ErrInternal, err)
		}

		if req.IsOpen && !window.IsOpen {
			window.OpenedAt = ptr.Ptr(s.timeProvider.Now().UTC())
		}
		window.IsOpen = req.IsOpen

		result, err = s.repo.UpsertTierWindow(txCtx, &window)
		if err != nil {
			s.logger.Error("SetTierWindow: failed to save window: %v", err)
			return fmt.Errorf("%w: SetTierWindow - upsert window: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMonthlySetting возвращает настройку месяца, создавая её со значениями по умолчанию
func (s *Service) GetMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	setting, created, err := s.repo.GetOrInitMonthlySetting(ctx, regionID, year, month)
	if err != nil {
		s.logger.Error("GetMonthlySetting: repository error region=%d %04d-%02d: %v", regionID, year, int(month), err)
		return nil, fmt.Errorf("%w: GetMonthlySetting - repository error: %v", ErrInternal, err)
	}
	if created {
		s.logger.Info("GetMonthlySetting: initialized defaults for region=%d %04d-%02d", regionID, year, int(month))
	}
	return setting, nil
}

// UpdateMonthlySetting частично обновляет настройку месяца
func (s *Service) UpdateMonthlySetting(ctx context.Context, req *UpdateMonthlySettingRequest) (*domain.MonthlyCapacitySetting, error) {
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("UpdateMonthlySetting: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.MonthlyCapacitySetting
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		setting, err := s.GetMonthlySetting(txCtx, req.RegionID, req.Year, req.Month)
		if err != nil {
			return err
		}

		if req.IsOpen != nil {
			setting.IsOpen = *req.IsOpen
		}
		if req.MaxReservationsPerDay != nil {
			setting.MaxReservationsPerDay = *req.MaxReservationsPerDay
		}
		if req.MaxDaysPerMonth != nil {
			setting.MaxDaysPerMonth = *req.MaxDaysPerMonth
		}

		result, err = s.repo.UpdateMonthlySetting(txCtx, setting)
		if err != nil {
			s.logger.Error("UpdateMonthlySetting: repository error: %v", err)
			return fmt.Errorf("%w: UpdateMonthlySetting - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateMonthlySetting: region=%d %04d-%02d open=%t perDay=%d daysPerMonth=%d",
		result.RegionID, result.Year, int(result.Month), result.IsOpen, result.MaxReservationsPerDay, result.MaxDaysPerMonth)
	return result, nil
}

// SetDailyOverride устанавливает вместимость на конкретную дату
func (s *Service) SetDailyOverride(ctx context.Context, req *SetDailyOverrideRequest) (*domain.DailyCapacityOverride, error) {
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("SetDailyOverride: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := s.checkRegion(ctx, req.RegionID); err != nil {
		return nil, err
	}

	override, err := s.repo.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{
		RegionID:              req.RegionID,
		Date:                  domain.DateOnly(req.Date),
		MaxReservationsPerDay: req.MaxReservationsPerDay,
	})
	if err != nil {
		s.logger.Error("SetDailyOverride: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetDailyOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetDailyOverride: region=%d date=%s max=%d", req.RegionID, domain.DateKey(override.Date), override.MaxReservationsPerDay)
	return override, nil
}

// DeleteDailyOverride удаляет переопределение, дата возвращается к месячной настройке
func (s *Service) DeleteDailyOverride(ctx context.Context, regionID int64, date time.Time) error {
	if err := s.checkRegion(ctx, regionID); err != nil {
		return err
	}

	if err := s.repo.DeleteDailyOverride(ctx, regionID, domain.DateOnly(date)); err != nil {
		if errors.Is(err, capacityRepo.ErrOverrideNotFound) {
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteDailyOverride: repository error: %v", err)
		return fmt.Errorf("%w: DeleteDailyOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteDailyOverride: region=%d date=%s", regionID, domain.DateKey(date))
	return nil
}

// ListDailyOverrides возвращает переопределения месяца
func (s *Service) ListDailyOverrides(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.DailyCapacityOverride, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	overrides, err := s.repo.ListDailyOverrides(ctx, regionID, year, month)
	if err != nil {
		s.logger.Error("ListDailyOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListDailyOverrides - repository error: %v", ErrInternal, err)
	}
	return overrides, nil
}

// BlockDate закрывает дату для бронирования; повторный вызов обновляет причину
func (s *Service) BlockDate(ctx context.Context, req *BlockDateRequest) (*domain.BlockedDate, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("BlockDate: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := s.checkRegion(ctx, req.RegionID); err != nil {
		return nil, err
	}

	blocked, err := s.repo.BlockDate(ctx, &domain.BlockedDate{
		RegionID: req.RegionID,
		Date:     domain.DateOnly(req.Date),
		Reason:   req.Reason,
	})
	if err != nil {
		s.logger.Error("BlockDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: BlockDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("BlockDate: region=%d date=%s", req.RegionID, domain.DateKey(blocked.Date))
	return blocked, nil
}

// UnblockDate снимает блокировку даты
func (s *Service) UnblockDate(ctx context.Context, regionID int64, date time.Time) error {
	if err := s.checkRegion(ctx, regionID); err != nil {
		return err
	}

	if err := s.repo.UnblockDate(ctx, regionID, domain.DateOnly(date)); err != nil {
		if errors.Is(err, capacityRepo.ErrBlockedDateNotFound) {
			return ErrBlockedDateNotFound
		}
		s.logger.Error("UnblockDate: repository error: %v", err)
		return fmt.Errorf("%w: UnblockDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UnblockDate: region=%d date=%s", regionID, domain.DateKey(date))
	return nil
}

// ListBlockedDates возвращает заблокированные даты региона
func (s *Service) ListBlockedDates(ctx context.Context, regionID int64) ([]domain.BlockedDate, error) {
	if err := s.checkRegion(ctx, regionID); err != nil {
		return nil, err
	}

	blocked, err := s.repo.ListBlockedDates(ctx, regionID)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}
	return blocked, nil
}

func (s *Service) checkRegion(ctx context.Context, regionID int64) error {
	if regionID <= 0 {
		return fmt.Errorf("%w: regionID must be positive", ErrInvalidInput)
	}

	if _, err := s.repo.GetRegion(ctx, regionID); err != nil {
		if errors.Is(err, capacityRepo.ErrRegionNotFound) {
			s.logger.Warn("region id=%d not found", regionID)
			return ErrRegionNotFound
		}
		s.logger.Error("failed to get region id=%d: %v", regionID, err)
		return fmt.Errorf("%w: get region: %v", ErrInternal, err)
	}
	return nil
}
