package tierpolicy

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

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var today = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(memory.WithRegions(domain.Region{ID: 1, Code: "north", Name: "North"}))
	svc := NewService(store, logger.NewNop()).WithTimeProvider(fixedClock{now: today})
	return svc, store
}

func TestCanTierReserve(t *testing.T) {
	target := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		window     *domain.TierWindow
		tier       domain.Tier
		wantAllow  bool
		wantReason string
	}{
		{
			name:       "absent window is closed",
			tier:       domain.TierStandard,
			wantAllow:  false,
			wantReason: ReasonWindowClosed,
		},
		{
			name:       "explicitly closed window",
			window:     &domain.TierWindow{RegionID: 1, Year: 2025, Month: time.March, Tier: domain.TierPriority, IsOpen: false},
			tier:       domain.TierPriority,
			wantAllow:  false,
			wantReason: ReasonWindowClosed,
		},
		{
			name:      "open window allows",
			window:    &domain.TierWindow{RegionID: 1, Year: 2025, Month: time.March, Tier: domain.TierPriority, IsOpen: true, OpenedAt: ptr.Ptr(today)},
			tier:      domain.TierPriority,
			wantAllow: true,
		},
		{
			name:       "window of another tier does not apply",
			window:     &domain.TierWindow{RegionID: 1, Year: 2025, Month: time.March, Tier: domain.TierPriority, IsOpen: true},
			tier:       domain.TierStandard,
			wantAllow:  false,
			wantReason: ReasonWindowClosed,
		},
		{
			name:       "window of another month does not apply",
			window:     &domain.TierWindow{RegionID: 1, Year: 2025, Month: time.April, Tier: domain.TierStandard, IsOpen: true},
			tier:       domain.TierStandard,
			wantAllow:  false,
			wantReason: ReasonWindowClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			ctx := context.Background()
			if tt.window != nil {
				_, err := store.UpsertTierWindow(ctx, tt.window)
				require.NoError(t, err)
			}

			decision, err := svc.CanTierReserve(ctx, tt.tier, 1, target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllow, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestCanTierReserve_AdvanceDaysAreInformational(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	// Standard has zero advance days but its window is open: allowed far ahead
	_, err := store.UpsertTierWindow(ctx, &domain.TierWindow{RegionID: 1, Year: 2025, Month: time.March, Tier: domain.TierStandard, IsOpen: true})
	require.NoError(t, err)

	decision, err := svc.CanTierReserve(ctx, domain.TierStandard, 1, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.AdvanceReservationDays)

	priority, err := svc.CanTierReserve(ctx, domain.TierPriority, 1, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, priority.Allowed)
	assert.Equal(t, 7, priority.AdvanceReservationDays)
}

func TestCanTierReserve_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CanTierReserve(ctx, domain.Tier("Priority"), 1, today)
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, err = svc.CanTierReserve(ctx, domain.TierPriority, 1, today.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrDateInPast)

	// today itself is not in the past
	_, err = svc.CanTierReserve(ctx, domain.TierPriority, 1, today)
	assert.NoError(t, err)
}

func TestWindowsForMonth(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := store.UpsertTierWindow(ctx, &domain.TierWindow{RegionID: 1, Year: 2025, Month: time.March, Tier: domain.TierPriority, IsOpen: true})
	require.NoError(t, err)

	windows, err := svc.WindowsForMonth(ctx, 1, 2025, time.March)
	require.NoError(t, err)
	require.Len(t, windows, 2)

	assert.Equal(t, domain.TierPriority, windows[0].Tier.Tier)
	assert.True(t, windows[0].Window.IsOpen)
	assert.Equal(t, domain.TierStandard, windows[1].Tier.Tier)
	assert.False(t, windows[1].Window.IsOpen)
	assert.Equal(t, time.March, windows[1].Window.Month)
}
