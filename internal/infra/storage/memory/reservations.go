package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
)

// LockDate в памяти блокировка не нужна: транзакции уже сериализованы TxManager
func (s *Store) LockDate(ctx context.Context, _ int64, _ time.Time) error {
	if !inTx(ctx) {
		return fmt.Errorf("%w: LockDate - must be called inside a transaction", reservation.ErrTransaction)
	}
	return nil
}

// LockOrganizationMonth см. LockDate
func (s *Store) LockOrganizationMonth(ctx context.Context, _, _ int64, _ int, _ time.Month) error {
	if !inTx(ctx) {
		return fmt.Errorf("%w: LockOrganizationMonth - must be called inside a transaction", reservation.ErrTransaction)
	}
	return nil
}

func (s *Store) CountActive(_ context.Context, regionID int64, date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countActiveLocked(regionID, date), nil
}

func (s *Store) countActiveLocked(regionID int64, date time.Time) int {
	key := domain.DateKey(date)
	count := 0
	for _, r := range s.data.reservations {
		if r.RegionID == regionID && domain.DateKey(r.Date) == key && r.IsActive() {
			count++
		}
	}
	return count
}

func (s *Store) CountActiveByDateInMonth(_ context.Context, regionID int64, year int, month time.Month) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, r := range s.data.reservations {
		if r.RegionID != regionID || !r.IsActive() || !inMonth(r.Date, year, month) {
			continue
		}
		counts[domain.DateKey(r.Date)]++
	}
	return counts, nil
}

func (s *Store) CountDistinctActiveDatesForOrgInMonth(_ context.Context, organizationID, regionID int64, year int, month time.Month) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make(map[string]struct{})
	for _, r := range s.data.reservations {
		if r.OrganizationID != organizationID || r.RegionID != regionID {
			continue
		}
		if !r.IsActive() || !inMonth(r.Date, year, month) {
			continue
		}
		dates[domain.DateKey(r.Date)] = struct{}{}
	}
	return len(dates), nil
}

func (s *Store) HasActiveOnDate(_ context.Context, organizationID, regionID int64, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.DateKey(date)
	for _, r := range s.data.reservations {
		if r.OrganizationID == organizationID && r.RegionID == regionID && domain.DateKey(r.Date) == key && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// InsertWithSlots пересчитывает активные бронирования и вставляет новое под одной блокировкой
func (s *Store) InsertWithSlots(ctx context.Context, r *domain.Reservation, maxPerDay int) (*domain.Reservation, error) {
	if len(r.Slots) == 0 {
		return nil, reservation.ErrNoSlots
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.countActiveLocked(r.RegionID, r.Date)
	if current >= maxPerDay {
		return nil, fmt.Errorf("%w: %d/%d", reservation.ErrCapacityExceeded, current, maxPerDay)
	}

	now := s.now()
	s.data.nextReservationID++
	r.ID = s.data.nextReservationID
	r.Date = domain.DateOnly(r.Date)
	r.CreatedAt = now
	r.UpdatedAt = now
	for i := range r.Slots {
		s.data.nextSlotID++
		r.Slots[i].ID = s.data.nextSlotID
		r.Slots[i].ReservationID = r.ID
	}

	remember(ctx, &s.data, reservationsTable, r.ID)
	s.data.reservations[r.ID] = copyReservation(*r)
	return r, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	out := copyReservation(r)
	return &out, nil
}

// List возвращает бронирования по фильтру, отсортированные по дате и id
func (s *Store) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0)
	for _, r := range s.data.reservations {
		if !matches(r, filter) {
			continue
		}
		out := copyReservation(r)
		result = append(result, &out)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data.reservations[id]
	if !ok {
		return reservation.ErrReservationNotFound
	}
	remember(ctx, &s.data, reservationsTable, id)
	r.Status = status
	if reason != nil {
		value := *reason
		r.CancelReason = &value
	}
	r.UpdatedAt = s.now()
	s.data.reservations[id] = r
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.reservations[id]; !ok {
		return reservation.ErrReservationNotFound
	}
	remember(ctx, &s.data, reservationsTable, id)
	delete(s.data.reservations, id)
	return nil
}

func matches(r domain.Reservation, filter domain.ReservationFilter) bool {
	if filter.OrganizationID != nil && r.OrganizationID != *filter.OrganizationID {
		return false
	}
	if filter.RegionID != nil && r.RegionID != *filter.RegionID {
		return false
	}
	if filter.StartDate != nil && r.Date.Before(domain.DateOnly(*filter.StartDate)) {
		return false
	}
	if filter.EndDate != nil && r.Date.After(domain.DateOnly(*filter.EndDate)) {
		return false
	}
	if filter.Status != nil {
		return r.Status == *filter.Status
	}
	if filter.ActiveOnly {
		return r.IsActive()
	}
	return true
}

func inMonth(date time.Time, year int, month time.Month) bool {
	return date.Year() == year && date.Month() == month
}
