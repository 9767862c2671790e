// Package memory provides an in-memory implementation of the reservation and
// capacity storage contracts. It backs tests and the "memory" storage driver.
package memory

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type monthKey struct {
	RegionID int64
	Year     int
	Month    time.Month
}

type windowKey struct {
	monthKey
	Tier domain.Tier
}

type dateKey struct {
	RegionID int64
	Date     string
}

// state is everything the store holds
type state struct {
	regions      map[int64]domain.Region
	tiers        map[domain.Tier]domain.MembershipTier
	windows      map[windowKey]domain.TierWindow
	monthly      map[monthKey]domain.MonthlyCapacitySetting
	overrides    map[dateKey]domain.DailyCapacityOverride
	blocked      map[dateKey]domain.BlockedDate
	reservations map[int64]domain.Reservation

	nextReservationID int64
	nextSlotID        int64
	nextSettingID     int64
}

func newState() state {
	return state{
		regions:      make(map[int64]domain.Region),
		tiers:        make(map[domain.Tier]domain.MembershipTier),
		windows:      make(map[windowKey]domain.TierWindow),
		monthly:      make(map[monthKey]domain.MonthlyCapacitySetting),
		overrides:    make(map[dateKey]domain.DailyCapacityOverride),
		blocked:      make(map[dateKey]domain.BlockedDate),
		reservations: make(map[int64]domain.Reservation),
	}
}

// Store in-memory хранилище бронирований и конфигурации вместимости.
// Каждая операция выполняется под mu; транзакции сериализуются через TxManager.
type Store struct {
	mu    sync.Mutex
	data  state
	clock func() time.Time
}

// Option настройка хранилища
type Option func(*Store)

// WithClock подменяет источник времени для created_at/updated_at
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithRegions добавляет регионы
func WithRegions(regions ...domain.Region) Option {
	return func(s *Store) {
		for _, r := range regions {
			s.data.regions[r.ID] = r
		}
	}
}

// NewStore создает хранилище с уровнями членства по умолчанию
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:  newState(),
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, tier := range DefaultTiers() {
		s.data.tiers[tier.Tier] = tier
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultTiers уровни членства, совпадающие с начальными данными миграций
func DefaultTiers() []domain.MembershipTier {
	return []domain.MembershipTier{
		{Tier: domain.TierPriority, DisplayName: "Priority", AdvanceReservationDays: 7},
		{Tier: domain.TierStandard, DisplayName: "Standard", AdvanceReservationDays: 0},
	}
}

// DefaultRegions регионы, совпадающие с начальными данными миграций
func DefaultRegions() []domain.Region {
	return []domain.Region{
		{ID: 1, Code: "north", Name: "North"},
		{ID: 2, Code: "south", Name: "South"},
	}
}

func (s *Store) now() time.Time {
	return s.clock()
}

func copyReservation(r domain.Reservation) domain.Reservation {
	slots := make([]domain.ReservationSlot, len(r.Slots))
	copy(slots, r.Slots)
	r.Slots = slots
	if r.CancelReason != nil {
		reason := *r.CancelReason
		r.CancelReason = &reason
	}
	return r
}

func newDateKey(regionID int64, date time.Time) dateKey {
	return dateKey{RegionID: regionID, Date: domain.DateKey(date)}
}
