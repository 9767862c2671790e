package admit_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/capacity"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
	"github.com/m04kA/SMC-ReservationService/internal/service/tierpolicy"
)

// UseCase use case допуска бронирования.
// Проверки идут в порядке: входные данные, дата, окно уровня, квота, вместимость.
// Затем в сериализуемой транзакции под блокировками организации-месяца и даты
// квота и статус даты перепроверяются, и бронирование вставляется вместе со слотами.
type UseCase struct {
	reservationRepo ReservationRepository
	regionRepo      RegionRepository
	tierPolicy      TierPolicy
	quota           QuotaTracker
	availability    AvailabilityResolver
	txManager       TransactionManager
	metrics         MetricsRecorder
	validate        *validator.Validate
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	regionRepo RegionRepository,
	tierPolicy TierPolicy,
	quota QuotaTracker,
	availability AvailabilityResolver,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		regionRepo:      regionRepo,
		tierPolicy:      tierPolicy,
		quota:           quota,
		availability:    availability,
		txManager:       txManager,
		metrics:         metrics,
		validate:        validator.New(),
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет допуск бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() {
		uc.metrics.RecordAdmission(string(outcomeOf(err)))
	}()

	uc.logger.Info("AdmitReservation: org=%d, tier=%s, region=%d, date=%s, slots=%d",
		req.OrganizationID, req.Tier, req.RegionID, req.Date.Format(domain.DateFormat), len(req.Slots))

	// 1. Валидация входных данных
	slots, err := validateRequest(uc.validate, req)
	if err != nil {
		uc.logger.Warn("AdmitReservation: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)

	// 2. Дата не должна быть в прошлом
	if domain.IsDateInPast(date, uc.timeProvider.Now()) {
		uc.logger.Warn("AdmitReservation: date %s is in the past", domain.DateKey(date))
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, domain.DateKey(date))
	}

	if err := uc.checkRegion(ctx, req.RegionID); err != nil {
		return nil, err
	}

	// 3. Окно уровня
	if err := uc.checkTier(ctx, req.Tier, req.RegionID, date); err != nil {
		return nil, err
	}

	// 4. Квота (предварительно)
	if _, err := uc.checkQuota(ctx, req.OrganizationID, req.RegionID, date); err != nil {
		return nil, err
	}

	// 5. Вместимость (предварительно)
	if _, err := uc.checkCapacity(ctx, req.RegionID, date); err != nil {
		return nil, err
	}

	var (
		created *domain.Reservation
		usage   *quota.Usage
		status  domain.DateStatus
	)

	// 6. Атомарный допуск
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.reservationRepo.LockOrganizationMonth(txCtx, req.OrganizationID, req.RegionID, date.Year(), date.Month()); err != nil {
			uc.logger.Error("AdmitReservation: failed to lock org=%d month: %v", req.OrganizationID, err)
			return fmt.Errorf("%w: lock organization month: %w", ErrInternal, err)
		}
		if err := uc.reservationRepo.LockDate(txCtx, req.RegionID, date); err != nil {
			uc.logger.Error("AdmitReservation: failed to lock date %s: %v", domain.DateKey(date), err)
			return fmt.Errorf("%w: lock date: %w", ErrInternal, err)
		}

		var err error
		if usage, err = uc.checkQuota(txCtx, req.OrganizationID, req.RegionID, date); err != nil {
			return err
		}
		if status, err = uc.checkCapacity(txCtx, req.RegionID, date); err != nil {
			return err
		}

		created, err = uc.reservationRepo.InsertWithSlots(txCtx, &domain.Reservation{
			OrganizationID: req.OrganizationID,
			RegionID:       req.RegionID,
			Date:           date,
			Status:         domain.StatusPending,
			Slots:          slots,
		}, status.Max)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrCapacityExceeded) {
				uc.logger.Warn("AdmitReservation: lost race for the last seat on %s", domain.DateKey(date))
				return &DateFullError{Max: status.Max}
			}
			uc.logger.Error("AdmitReservation: failed to insert reservation: %v", err)
			return fmt.Errorf("%w: insert reservation: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("AdmitReservation: created reservation id=%d for org=%d on %s",
		created.ID, created.OrganizationID, domain.DateKey(created.Date))

	quotaRemaining := usage.Remaining
	if !usage.DateAlreadyBooked && quotaRemaining > 0 {
		quotaRemaining--
	}

	return &Response{
		ID:             created.ID,
		OrganizationID: created.OrganizationID,
		RegionID:       created.RegionID,
		Date:           created.Date,
		Status:         string(created.Status),
		Slots:          created.Slots,
		QuotaRemaining: quotaRemaining,
		DateCurrent:    status.Current + 1,
		DateMax:        status.Max,
		CreatedAt:      created.CreatedAt,
		UpdatedAt:      created.UpdatedAt,
	}, nil
}

func (uc *UseCase) checkRegion(ctx context.Context, regionID int64) error {
	if _, err := uc.regionRepo.GetRegion(ctx, regionID); err != nil {
		if errors.Is(err, capacityRepo.ErrRegionNotFound) {
			uc.logger.Warn("AdmitReservation: region id=%d not found", regionID)
			return ErrRegionNotFound
		}
		uc.logger.Error("AdmitReservation: failed to get region id=%d: %v", regionID, err)
		return fmt.Errorf("%w: get region: %w", ErrInternal, err)
	}
	return nil
}

func (uc *UseCase) checkTier(ctx context.Context, tier domain.Tier, regionID int64, date time.Time) error {
	decision, err := uc.tierPolicy.CanTierReserve(ctx, tier, regionID, date)
	if err != nil {
		if errors.Is(err, tierpolicy.ErrUnknownTier) || errors.Is(err, tierpolicy.ErrDateInPast) {
			uc.logger.Warn("AdmitReservation: tier check rejected input: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("AdmitReservation: tier check failed: %v", err)
		return fmt.Errorf("%w: tier check: %w", ErrInternal, err)
	}
	if !decision.Allowed {
		uc.logger.Warn("AdmitReservation: tier=%s rejected for region=%d %s: %s",
			tier, regionID, date.Format("2006-01"), decision.Reason)
		return &TierClosedError{Tier: tier}
	}
	return nil
}

func (uc *UseCase) checkQuota(ctx context.Context, organizationID, regionID int64, date time.Time) (*quota.Usage, error) {
	usage, err := uc.quota.Usage(ctx, organizationID, regionID, date)
	if err != nil {
		if errors.Is(err, quota.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("AdmitReservation: quota check failed: %v", err)
		return nil, fmt.Errorf("%w: quota check: %w", ErrInternal, err)
	}
	if !usage.Allows() {
		uc.logger.Warn("AdmitReservation: org=%d quota exhausted, %d/%d days used", organizationID, usage.Used, usage.Max)
		return nil, &QuotaExceededError{Used: usage.Used, Max: usage.Max}
	}
	return usage, nil
}

func (uc *UseCase) checkCapacity(ctx context.Context, regionID int64, date time.Time) (domain.DateStatus, error) {
	status, err := uc.availability.DateStatus(ctx, regionID, date)
	if err != nil {
		if errors.Is(err, availability.ErrRegionNotFound) {
			return domain.DateStatus{}, ErrRegionNotFound
		}
		uc.logger.Error("AdmitReservation: availability check failed: %v", err)
		return domain.DateStatus{}, fmt.Errorf("%w: availability check: %w", ErrInternal, err)
	}
	if status.IsBlocked {
		uc.logger.Warn("AdmitReservation: date %s is blocked (source=%s)", domain.DateKey(date), status.Source)
		return domain.DateStatus{}, ErrDateBlocked
	}
	if !status.HasFreeSeat() {
		uc.logger.Warn("AdmitReservation: date %s is full, %d/%d", domain.DateKey(date), status.Current, status.Max)
		return domain.DateStatus{}, &DateFullError{Max: status.Max}
	}
	return status, nil
}

func outcomeOf(err error) outcome {
	switch {
	case err == nil:
		return outcomeAdmitted
	case errors.Is(err, ErrTierClosed):
		return outcomeTierClosed
	case errors.Is(err, ErrQuotaExceeded):
		return outcomeQuotaExceeded
	case errors.Is(err, ErrDateBlocked):
		return outcomeDateBlocked
	case errors.Is(err, ErrDateFull):
		return outcomeDateFull
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrRegionNotFound):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
