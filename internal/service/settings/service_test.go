package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

const regionID int64 = 1

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func setup(t *testing.T) (*Service, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore(memory.WithRegions(domain.Region{ID: regionID, Code: "north", Name: "North"}))
	clock := &fakeClock{now: time.Date(2025, time.April, 20, 9, 0, 0, 0, time.UTC)}
	svc := NewService(store, memory.NewTxManager(store), logger.NewNop()).WithTimeProvider(clock)
	return svc, store, clock
}

func TestSetTierWindow_OpenedAtStamping(t *testing.T) {
	svc, store, clock := setup(t)
	ctx := context.Background()
	req := &SetTierWindowRequest{RegionID: regionID, Year: 2025, Month: time.May, Tier: "priority", IsOpen: true}

	opened, err := svc.SetTierWindow(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, opened.OpenedAt)
	firstOpened := *opened.OpenedAt
	assert.Equal(t, clock.now, firstOpened)

	// повторное открытие не сдвигает OpenedAt
	clock.now = clock.now.Add(time.Hour)
	again, err := svc.SetTierWindow(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, firstOpened, *again.OpenedAt)

	req.IsOpen = false
	closed, err := svc.SetTierWindow(ctx, req)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	require.NotNil(t, closed.OpenedAt)
	assert.Equal(t, firstOpened, *closed.OpenedAt)

	// повторное открытие после закрытия ставит новое время
	clock.now = clock.now.Add(time.Hour)
	req.IsOpen = true
	reopened, err := svc.SetTierWindow(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, clock.now, *reopened.OpenedAt)

	stored, err := store.GetTierWindow(ctx, regionID, 2025, time.May, domain.TierPriority)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen)
}

func TestSetTierWindow_Validation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     SetTierWindowRequest
		wantErr error
	}{
		{
			name:    "unknown tier",
			req:     SetTierWindowRequest{RegionID: regionID, Year: 2025, Month: time.May, Tier: "Priority"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "month out of range",
			req:     SetTierWindowRequest{RegionID: regionID, Year: 2025, Month: 13, Tier: "standard"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing tier",
			req:     SetTierWindowRequest{RegionID: regionID, Year: 2025, Month: time.May},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown region",
			req:     SetTierWindowRequest{RegionID: 77, Year: 2025, Month: time.May, Tier: "standard"},
			wantErr: ErrRegionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetTierWindow(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMonthlySetting_ReadOrInitAndPartialUpdate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	setting, err := svc.GetMonthlySetting(ctx, regionID, 2025, time.June)
	require.NoError(t, err)
	assert.False(t, setting.IsOpen)
	assert.Equal(t, domain.DefaultMaxReservationsPerDay, setting.MaxReservationsPerDay)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth, setting.MaxDaysPerMonth)

	updated, err := svc.UpdateMonthlySetting(ctx, &UpdateMonthlySettingRequest{
		RegionID:              regionID,
		Year:                  2025,
		Month:                 time.June,
		MaxReservationsPerDay: ptr.Ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.MaxReservationsPerDay)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth, updated.MaxDaysPerMonth, "untouched field keeps its value")

	again, err := svc.GetMonthlySetting(ctx, regionID, 2025, time.June)
	require.NoError(t, err)
	assert.Equal(t, 5, again.MaxReservationsPerDay)
}

func TestUpdateMonthlySetting_Bounds(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  UpdateMonthlySettingRequest
		ok   bool
	}{
		{name: "per day lower bound", req: UpdateMonthlySettingRequest{MaxReservationsPerDay: ptr.Ptr(1)}, ok: true},
		{name: "per day upper bound", req: UpdateMonthlySettingRequest{MaxReservationsPerDay: ptr.Ptr(100)}, ok: true},
		{name: "per day zero", req: UpdateMonthlySettingRequest{MaxReservationsPerDay: ptr.Ptr(0)}},
		{name: "per day above", req: UpdateMonthlySettingRequest{MaxReservationsPerDay: ptr.Ptr(101)}},
		{name: "days per month upper bound", req: UpdateMonthlySettingRequest{MaxDaysPerMonth: ptr.Ptr(31)}, ok: true},
		{name: "days per month above", req: UpdateMonthlySettingRequest{MaxDaysPerMonth: ptr.Ptr(32)}},
		{name: "days per month zero", req: UpdateMonthlySettingRequest{MaxDaysPerMonth: ptr.Ptr(0)}},
		{name: "open flag only", req: UpdateMonthlySettingRequest{IsOpen: ptr.Ptr(true)}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.RegionID, req.Year, req.Month = regionID, 2025, time.July
			_, err := svc.UpdateMonthlySetting(ctx, &req)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestDailyOverrides(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	date := time.Date(2025, time.May, 9, 15, 30, 0, 0, time.UTC)

	override, err := svc.SetDailyOverride(ctx, &SetDailyOverrideRequest{RegionID: regionID, Date: date, MaxReservationsPerDay: 0})
	require.NoError(t, err)
	assert.True(t, override.IsBlocking())
	assert.Equal(t, domain.DateOnly(date), override.Date)

	_, err = svc.SetDailyOverride(ctx, &SetDailyOverrideRequest{RegionID: regionID, Date: date, MaxReservationsPerDay: 101})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetDailyOverride(ctx, &SetDailyOverrideRequest{RegionID: regionID, MaxReservationsPerDay: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := svc.ListDailyOverrides(ctx, regionID, 2025, time.May)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteDailyOverride(ctx, regionID, date))
	_, err = store.GetDailyOverride(ctx, regionID, date)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.DeleteDailyOverride(ctx, regionID, date), ErrOverrideNotFound)
}

func TestBlockedDates(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	date := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	blocked, err := svc.BlockDate(ctx, &BlockDateRequest{RegionID: regionID, Date: date, Reason: "  holiday "})
	require.NoError(t, err)
	assert.Equal(t, "holiday", blocked.Reason)

	// повторная блокировка обновляет причину
	_, err = svc.BlockDate(ctx, &BlockDateRequest{RegionID: regionID, Date: date, Reason: "maintenance"})
	require.NoError(t, err)

	list, err := svc.ListBlockedDates(ctx, regionID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "maintenance", list[0].Reason)

	long := make([]byte, domain.MaxReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.BlockDate(ctx, &BlockDateRequest{RegionID: regionID, Date: date, Reason: string(long)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.UnblockDate(ctx, regionID, date))
	assert.ErrorIs(t, svc.UnblockDate(ctx, regionID, date), ErrBlockedDateNotFound)

	_, err = svc.ListBlockedDates(ctx, 99)
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestListTiers(t *testing.T) {
	svc, _, _ := setup(t)

	tiers, err := svc.ListTiers(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, domain.TierPriority, tiers[0].Tier)
	assert.Equal(t, 7, tiers[0].AdvanceReservationDays)
}
