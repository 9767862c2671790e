package quota

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

const (
	orgID    int64 = 42
	regionID int64 = 1
)

func marchDay(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, store *memory.Store, org int64, date time.Time, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	r, err := store.InsertWithSlots(context.Background(), &domain.Reservation{
		OrganizationID: org,
		RegionID:       regionID,
		Date:           date,
		Status:         domain.StatusPending,
		Slots: []domain.ReservationSlot{{
			StartTime:    types.MustTimeString("09:00"),
			EndTime:      types.MustTimeString("09:40"),
			Grade:        "3",
			Participants: 10,
			Location:     "Hall A",
		}},
	}, 100)
	require.NoError(t, err)
	if status != domain.StatusPending {
		require.NoError(t, store.UpdateStatus(context.Background(), r.ID, status, nil))
	}
	return r
}

func TestRemainingQuota_CountsDistinctActiveDates(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store, logger.NewNop())
	ctx := context.Background()

	seed(t, store, orgID, marchDay(3), domain.StatusPending)
	seed(t, store, orgID, marchDay(3), domain.StatusApproved) // same date, counted once
	seed(t, store, orgID, marchDay(5), domain.StatusCancelRequested)
	seed(t, store, orgID, marchDay(7), domain.StatusCancelled) // inactive
	seed(t, store, orgID, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), domain.StatusApproved)
	seed(t, store, orgID+1, marchDay(9), domain.StatusApproved) // other organization

	remaining, err := svc.RemainingQuota(ctx, orgID, regionID, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth-2, remaining)
}

func TestRemainingQuota_FlooredAtZero(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store, logger.NewNop())
	ctx := context.Background()

	for day := 1; day <= 4; day++ {
		seed(t, store, orgID, marchDay(day), domain.StatusApproved)
	}

	setting, _, err := store.GetOrInitMonthlySetting(ctx, regionID, 2025, time.March)
	require.NoError(t, err)
	setting.MaxDaysPerMonth = 2
	_, err = store.UpdateMonthlySetting(ctx, setting)
	require.NoError(t, err)

	remaining, err := svc.RemainingQuota(ctx, orgID, regionID, 2025, time.March)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestUsage_AllowsSecondReservationOnBookedDate(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store, logger.NewNop())
	ctx := context.Background()

	for day := 1; day <= 4; day++ {
		seed(t, store, orgID, marchDay(day), domain.StatusPending)
	}

	fifth, err := svc.Usage(ctx, orgID, regionID, marchDay(10))
	require.NoError(t, err)
	assert.Equal(t, Usage{Used: 4, Max: 4, Remaining: 0}, *fifth)
	assert.False(t, fifth.Allows())

	sameDate, err := svc.Usage(ctx, orgID, regionID, marchDay(2))
	require.NoError(t, err)
	assert.True(t, sameDate.DateAlreadyBooked)
	assert.True(t, sameDate.Allows())
}

func TestUsage_InvalidInput(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store, logger.NewNop())

	_, err := svc.Usage(context.Background(), 0, regionID, marchDay(1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RemainingQuota(context.Background(), orgID, regionID, 2025, time.Month(13))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonthUsage(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store, logger.NewNop())

	seed(t, store, orgID, marchDay(3), domain.StatusApproved)

	usage, err := svc.MonthUsage(context.Background(), orgID, regionID, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, Usage{Used: 1, Max: domain.DefaultMaxDaysPerMonth, Remaining: domain.DefaultMaxDaysPerMonth - 1}, *usage)
}
