package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const regionID int64 = 1

func day(d int) time.Time {
	return time.Date(2025, time.May, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(memory.WithRegions(domain.Region{ID: regionID, Code: "north", Name: "North"}))
	return NewService(store, store, logger.NewNop()), store
}

func book(t *testing.T, store *memory.Store, org int64, date time.Time) *domain.Reservation {
	t.Helper()
	r, err := store.InsertWithSlots(context.Background(), &domain.Reservation{
		OrganizationID: org,
		RegionID:       regionID,
		Date:           date,
		Status:         domain.StatusPending,
		Slots: []domain.ReservationSlot{{
			StartTime:    types.MustTimeString("11:00"),
			EndTime:      types.MustTimeString("11:40"),
			Grade:        "7",
			Participants: 25,
			Location:     "Gym",
		}},
	}, 100)
	require.NoError(t, err)
	return r
}

func TestDateStatus_MonthlyDefaults(t *testing.T) {
	svc, _ := setup(t)

	status, err := svc.DateStatus(context.Background(), regionID, day(10))
	require.NoError(t, err)

	assert.Equal(t, domain.DateStatus{
		Date:   day(10),
		Max:    domain.DefaultMaxReservationsPerDay,
		IsOpen: false,
		Source: domain.SourceMonthly,
	}, status)
}

func TestDateStatus_ResolutionOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("override takes precedence over monthly", func(t *testing.T) {
		svc, store := setup(t)
		_, err := store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: day(10), MaxReservationsPerDay: 5})
		require.NoError(t, err)
		book(t, store, 1, day(10))
		book(t, store, 2, day(10))

		status, err := svc.DateStatus(ctx, regionID, day(10))
		require.NoError(t, err)
		assert.Equal(t, 5, status.Max)
		assert.Equal(t, 2, status.Current)
		assert.True(t, status.IsOpen)
		assert.False(t, status.IsFull)
		assert.Equal(t, domain.SourceOverride, status.Source)
	})

	t.Run("zero override blocks the date", func(t *testing.T) {
		svc, store := setup(t)
		_, err := store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: day(11), MaxReservationsPerDay: 0})
		require.NoError(t, err)

		status, err := svc.DateStatus(ctx, regionID, day(11))
		require.NoError(t, err)
		assert.True(t, status.IsBlocked)
		assert.False(t, status.IsOpen)
		assert.Zero(t, status.Max)
		assert.False(t, status.HasFreeSeat())
	})

	t.Run("blocked date wins over override", func(t *testing.T) {
		svc, store := setup(t)
		_, err := store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: day(12), MaxReservationsPerDay: 10})
		require.NoError(t, err)
		_, err = store.BlockDate(ctx, &domain.BlockedDate{RegionID: regionID, Date: day(12), Reason: "holiday"})
		require.NoError(t, err)

		status, err := svc.DateStatus(ctx, regionID, day(12))
		require.NoError(t, err)
		assert.True(t, status.IsBlocked)
		assert.False(t, status.IsOpen)
		assert.Equal(t, domain.SourceBlocked, status.Source)
	})

	t.Run("open tier window opens the calendar", func(t *testing.T) {
		svc, store := setup(t)
		_, err := store.UpsertTierWindow(ctx, &domain.TierWindow{RegionID: regionID, Year: 2025, Month: time.May, Tier: domain.TierPriority, IsOpen: true})
		require.NoError(t, err)

		status, err := svc.DateStatus(ctx, regionID, day(13))
		require.NoError(t, err)
		assert.True(t, status.IsOpen)
		assert.Equal(t, domain.SourceMonthly, status.Source)
	})
}

func TestDateStatus_FullAndFreedSeat(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	book(t, store, 1, day(20))
	second := book(t, store, 2, day(20))

	status, err := svc.DateStatus(ctx, regionID, day(20))
	require.NoError(t, err)
	assert.True(t, status.IsFull)

	require.NoError(t, store.Delete(ctx, second.ID))

	status, err = svc.DateStatus(ctx, regionID, day(20))
	require.NoError(t, err)
	assert.Equal(t, 1, status.Current)
	assert.False(t, status.IsFull)
}

func TestMonthStatus_MatchesDateStatus(t *testing.T) {
	ctx := context.Background()
	svc, store := setup(t)

	_, err := store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: day(3), MaxReservationsPerDay: 1})
	require.NoError(t, err)
	_, err = store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: day(4), MaxReservationsPerDay: 0})
	require.NoError(t, err)
	_, err = store.BlockDate(ctx, &domain.BlockedDate{RegionID: regionID, Date: day(5)})
	require.NoError(t, err)
	_, err = store.BlockDate(ctx, &domain.BlockedDate{RegionID: regionID, Date: time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	book(t, store, 1, day(3))
	book(t, store, 1, day(6))
	book(t, store, 2, day(6))

	month, err := svc.MonthStatus(ctx, regionID, 2025, time.May)
	require.NoError(t, err)
	require.Len(t, month, 31)

	for key, got := range month {
		date, err := time.Parse(domain.DateFormat, key)
		require.NoError(t, err)

		want, err := svc.DateStatus(ctx, regionID, date)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	assert.True(t, month["2025-05-03"].IsFull)
	assert.True(t, month["2025-05-04"].IsBlocked)
	assert.Equal(t, domain.SourceBlocked, month["2025-05-05"].Source)
	assert.Equal(t, 2, month["2025-05-06"].Current)
}

func TestMonthStatus_Errors(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.MonthStatus(ctx, regionID, 2025, time.Month(0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.MonthStatus(ctx, 99, 2025, time.May)
	assert.ErrorIs(t, err, ErrRegionNotFound)

	_, err = svc.DateStatus(ctx, 99, day(1))
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestDateStatus_IdempotentReads(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	book(t, store, 1, day(8))

	first, err := svc.DateStatus(ctx, regionID, day(8))
	require.NoError(t, err)
	second, err := svc.DateStatus(ctx, regionID, day(8))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
