package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// Service управляет жизненным циклом бронирования после допуска.
// Переходы, освобождающие место (отклонение и отмена администратором), удаляют
// бронирование физически, поэтому следующее чтение доступности и квоты их уже не видит.
type Service struct {
	repo      ReservationRepository
	txManager TransactionManager
	metrics   MetricsRecorder
	logger    Logger
}

// NewService создает новый экземпляр сервиса жизненного цикла бронирований
func NewService(repo ReservationRepository, txManager TransactionManager, metrics MetricsRecorder, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// CancelByOrganization pending -> cancelled, строка остаётся как история
func (s *Service) CancelByOrganization(ctx context.Context, id, organizationID int64) (*TransitionResult, error) {
	return s.transition(ctx, id, domain.ActorOrganization, organizationID, domain.StatusCancelled, nil)
}

// RequestCancellation approved -> cancel_requested; место и квота остаются занятыми
// до решения администратора
func (s *Service) RequestCancellation(ctx context.Context, id, organizationID int64, reason string) (*TransitionResult, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = ptr.Ptr(reason)
	}
	return s.transition(ctx, id, domain.ActorOrganization, organizationID, domain.StatusCancelRequested, reasonPtr)
}

// Approve pending -> approved
func (s *Service) Approve(ctx context.Context, id int64) (*TransitionResult, error) {
	return s.transition(ctx, id, domain.ActorAdministrator, 0, domain.StatusApproved, nil)
}

// Reject pending -> rejected, бронирование удаляется вместе со слотами
func (s *Service) Reject(ctx context.Context, id int64) (*TransitionResult, error) {
	return s.transition(ctx, id, domain.ActorAdministrator, 0, domain.StatusRejected, nil)
}

// AdminCancel approved -> admin_cancelled, бронирование удаляется вместе со слотами
func (s *Service) AdminCancel(ctx context.Context, id int64) (*TransitionResult, error) {
	return s.transition(ctx, id, domain.ActorAdministrator, 0, domain.StatusAdminCancelled, nil)
}

// ResolveCancellationRequest решение администратора по запросу отмены:
// approve - бронирование удаляется, иначе возвращается в approved
func (s *Service) ResolveCancellationRequest(ctx context.Context, id int64, approve bool) (*TransitionResult, error) {
	to := domain.StatusApproved
	if approve {
		to = domain.StatusAdminCancelled
	}

	var result *TransitionResult
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.load(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status != domain.StatusCancelRequested {
			s.logger.Warn("ResolveCancellationRequest: reservation id=%d is %s, not cancel_requested", id, current.Status)
			return fmt.Errorf("%w: reservation is %s", ErrInvalidTransition, current.Status)
		}

		result, err = s.apply(txCtx, current, to, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(result)
	return result, nil
}

// Get получает бронирование для администратора
func (s *Service) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Get: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return r, nil
}

// GetForOrganization получает бронирование, проверяя, что оно принадлежит организации
func (s *Service) GetForOrganization(ctx context.Context, id, organizationID int64) (*domain.Reservation, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OrganizationID != organizationID {
		s.logger.Warn("GetForOrganization: org=%d has no access to reservation id=%d", organizationID, id)
		return nil, ErrAccessDenied
	}
	return r, nil
}

// ListByOrganization возвращает бронирования организации по фильтру
func (s *Service) ListByOrganization(ctx context.Context, organizationID int64, filter ListFilter) ([]*domain.Reservation, error) {
	if organizationID <= 0 {
		return nil, fmt.Errorf("%w: organizationID must be positive", ErrInvalidInput)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	reservations, err := s.repo.List(ctx, domain.ReservationFilter{
		OrganizationID: &organizationID,
		RegionID:       filter.RegionID,
		StartDate:      filter.StartDate,
		EndDate:        filter.EndDate,
		Status:         filter.Status,
		ActiveOnly:     filter.ActiveOnly,
	})
	if err != nil {
		s.logger.Error("ListByOrganization: repository error for org=%d: %v", organizationID, err)
		return nil, fmt.Errorf("%w: ListByOrganization - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByOrganization: fetched %d reservations for org=%d", len(reservations), organizationID)
	return reservations, nil
}

// ListByDate возвращает все бронирования региона на дату (для администратора)
func (s *Service) ListByDate(ctx context.Context, regionID int64, date time.Time) ([]*domain.Reservation, error) {
	if regionID <= 0 {
		return nil, fmt.Errorf("%w: regionID must be positive", ErrInvalidInput)
	}
	date = domain.DateOnly(date)

	reservations, err := s.repo.List(ctx, domain.ReservationFilter{
		RegionID:  &regionID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		s.logger.Error("ListByDate: repository error for region=%d date=%s: %v", regionID, domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}
	return reservations, nil
}

func (s *Service) transition(
	ctx context.Context,
	id int64,
	actor domain.Actor,
	organizationID int64,
	to domain.ReservationStatus,
	reason *string,
) (*TransitionResult, error) {
	s.logger.Info("Transition: reservation id=%d -> %s by %s", id, to, actor)

	var result *TransitionResult
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.load(txCtx, id)
		if err != nil {
			return err
		}

		if actor == domain.ActorOrganization && current.OrganizationID != organizationID {
			s.logger.Warn("Transition: org=%d has no access to reservation id=%d", organizationID, id)
			return ErrAccessDenied
		}

		if !domain.CanTransition(current.Status, to, actor) {
			if domain.IsTransitionKnown(current.Status, to) {
				s.logger.Warn("Transition: %s may not move reservation id=%d from %s to %s", actor, id, current.Status, to)
				return ErrAccessDenied
			}
			s.logger.Warn("Transition: reservation id=%d cannot move from %s to %s", id, current.Status, to)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
		}

		result, err = s.apply(txCtx, current, to, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(result)
	return result, nil
}

// apply сохраняет переход: удаление для переходов, освобождающих место, иначе смена статуса
func (s *Service) apply(ctx context.Context, current *domain.Reservation, to domain.ReservationStatus, reason *string) (*TransitionResult, error) {
	result := &TransitionResult{From: current.Status, Reservation: current}

	if domain.DeletesOnTransition(to) {
		if err := s.repo.Delete(ctx, current.ID); err != nil {
			s.logger.Error("Transition: failed to delete reservation id=%d: %v", current.ID, err)
			return nil, fmt.Errorf("%w: delete reservation: %w", ErrInternal, err)
		}
		result.Deleted = true
	} else {
		if err := s.repo.UpdateStatus(ctx, current.ID, to, reason); err != nil {
			s.logger.Error("Transition: failed to update reservation id=%d: %v", current.ID, err)
			return nil, fmt.Errorf("%w: update status: %w", ErrInternal, err)
		}
		if reason != nil {
			current.CancelReason = reason
		}
	}

	current.Status = to
	return result, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Reservation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Transition: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Transition: failed to load reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: load reservation: %w", ErrInternal, err)
	}
	return current, nil
}

func (s *Service) record(result *TransitionResult) {
	s.metrics.RecordTransition(transitionName(result.From, result.Reservation.Status))
	s.logger.Info("Transition: reservation id=%d %s -> %s (deleted=%t)",
		result.Reservation.ID, result.From, result.Reservation.Status, result.Deleted)
}
