package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestResolveDateStatus(t *testing.T) {
	monthly := DefaultMonthlySetting(1, 2025, time.March)
	openMonthly := monthly
	openMonthly.IsOpen = true

	tests := []struct {
		name string
		in   DateStatusInput
		want DateStatus
	}{
		{
			name: "monthly defaults",
			in:   DateStatusInput{Date: day, ActiveCount: 1, Monthly: monthly},
			want: DateStatus{Date: day, Current: 1, Max: 2, Source: SourceMonthly},
		},
		{
			name: "tier window opens the month",
			in:   DateStatusInput{Date: day, ActiveCount: 2, Monthly: monthly, AnyTierWindow: true},
			want: DateStatus{Date: day, Current: 2, Max: 2, IsFull: true, IsOpen: true, Source: SourceMonthly},
		},
		{
			name: "zero override blocks an open month",
			in: DateStatusInput{
				Date:     day,
				Monthly:  openMonthly,
				Override: &DailyCapacityOverride{MaxReservationsPerDay: 0},
			},
			want: DateStatus{Date: day, IsFull: true, IsBlocked: true, Source: SourceOverride},
		},
		{
			name: "override raises the limit",
			in: DateStatusInput{
				Date:        day,
				ActiveCount: 3,
				Monthly:     monthly,
				Override:    &DailyCapacityOverride{MaxReservationsPerDay: 6},
			},
			want: DateStatus{Date: day, Current: 3, Max: 6, IsOpen: true, Source: SourceOverride},
		},
		{
			name: "blocked date wins",
			in: DateStatusInput{
				Date:     day,
				Monthly:  openMonthly,
				Override: &DailyCapacityOverride{MaxReservationsPerDay: 6},
				Blocked:  true,
			},
			want: DateStatus{Date: day, Max: 6, IsBlocked: true, Source: SourceBlocked},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDateStatus(tt.in))
		})
	}
}

func TestHasFreeSeat(t *testing.T) {
	assert.True(t, DateStatus{Current: 1, Max: 2}.HasFreeSeat())
	assert.False(t, DateStatus{Current: 2, Max: 2}.HasFreeSeat())
	assert.False(t, DateStatus{Current: 0, Max: 5, IsBlocked: true}.HasFreeSeat())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusCancelled, ActorOrganization))
	assert.True(t, CanTransition(StatusApproved, StatusCancelRequested, ActorOrganization))
	assert.True(t, CanTransition(StatusCancelRequested, StatusApproved, ActorAdministrator))

	assert.False(t, CanTransition(StatusPending, StatusApproved, ActorOrganization))
	assert.True(t, IsTransitionKnown(StatusPending, StatusApproved))

	for _, from := range []ReservationStatus{StatusRejected, StatusCancelled, StatusAdminCancelled} {
		assert.True(t, from.IsTerminal())
		for _, to := range []ReservationStatus{StatusPending, StatusApproved, StatusCancelled} {
			assert.False(t, IsTransitionKnown(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStatuses(t *testing.T) {
	assert.ElementsMatch(t, []string{"pending", "approved", "cancel_requested"}, ActiveStatusStrings())
	assert.True(t, DeletesOnTransition(StatusRejected))
	assert.True(t, DeletesOnTransition(StatusAdminCancelled))
	assert.False(t, DeletesOnTransition(StatusCancelled))
	assert.False(t, ReservationStatus("done").IsValid())
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("priority")
	require.NoError(t, err)
	assert.Equal(t, TierPriority, tier)

	_, err = ParseTier("Priority")
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestDates(t *testing.T) {
	now := time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)
	assert.False(t, IsDateInPast(day, now))
	assert.True(t, IsDateInPast(day.AddDate(0, 0, -1), now))

	first, last := MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", DateKey(first))
	assert.Equal(t, "2024-02-29", DateKey(last))
}
