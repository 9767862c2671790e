package admit_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
	"github.com/m04kA/SMC-ReservationService/internal/service/tierpolicy"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const regionID int64 = 1

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

// countingTx пропускает транзакции в хранилище и считает вызовы Do
type countingTx struct {
	mu    sync.Mutex
	inner *memory.TxManager
	calls int
}

func (c *countingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Do(ctx, fn)
}

func (c *countingTx) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fixture struct {
	uc      *UseCase
	store   *memory.Store
	tx      *countingTx
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(memory.WithRegions(domain.Region{ID: regionID, Code: "north", Name: "North"}))
	clock := &fakeClock{now: time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)}
	log := logger.NewNop()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")

	tx := &countingTx{inner: memory.NewTxManager(store)}

	tiers := tierpolicy.NewService(store, log).WithTimeProvider(clock)
	uc := NewUseCase(
		store,
		store,
		tiers,
		quota.NewService(store, store, log),
		availability.NewService(store, store, log),
		tx,
		m,
		log,
	).WithTimeProvider(clock)

	return &fixture{uc: uc, store: store, tx: tx, metrics: m}
}

func (f *fixture) openWindow(t *testing.T, tier domain.Tier, year int, month time.Month) {
	t.Helper()
	_, err := f.store.UpsertTierWindow(context.Background(), &domain.TierWindow{
		RegionID: regionID, Year: year, Month: month, Tier: tier, IsOpen: true,
	})
	require.NoError(t, err)
}

func (f *fixture) outcomes(name outcome) float64 {
	return testutil.ToFloat64(f.metrics.AdmissionsTotal.WithLabelValues("test", string(name)))
}

func may(day int) time.Time {
	return time.Date(2025, time.May, day, 0, 0, 0, 0, time.UTC)
}

func request(org int64, date time.Time) *Request {
	return &Request{
		OrganizationID: org,
		Tier:           domain.TierStandard,
		RegionID:       regionID,
		Date:           date,
		Slots: []SlotInput{{
			StartTime:    types.MustTimeString("10:00"),
			Grade:        "5",
			Participants: 20,
			Location:     "Main hall",
		}},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)

	req := request(10, may(15).Add(13*time.Hour))
	end := types.MustTimeString("10:40")
	req.Slots = append(req.Slots, SlotInput{
		StartTime:    types.MustTimeString("11:00"),
		Grade:        "6",
		Participants: 18,
		Location:     "Main hall",
	})
	req.Slots[0].EndTime = &end

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, may(15), resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.MustTimeString("10:40"), resp.Slots[0].EndTime)
	assert.Equal(t, types.MustTimeString("11:40"), resp.Slots[1].EndTime)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth-1, resp.QuotaRemaining)
	assert.Equal(t, 1, resp.DateCurrent)

	stored, err := f.store.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Slots, 2)
	assert.Equal(t, 1.0, f.outcomes(outcomeAdmitted))
}

func TestExecute_Validation(t *testing.T) {
	badEnd := types.MustTimeString("10:30")

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no slots", modify: func(r *Request) { r.Slots = nil }},
		{name: "three slots", modify: func(r *Request) {
			s := r.Slots[0]
			r.Slots = []SlotInput{s, s, s}
			r.Slots[1].StartTime = types.MustTimeString("11:00")
			r.Slots[2].StartTime = types.MustTimeString("12:00")
		}},
		{name: "bad start time", modify: func(r *Request) { r.Slots[0].StartTime = "25:00" }},
		{name: "start time overflows the day", modify: func(r *Request) { r.Slots[0].StartTime = "23:50" }},
		{name: "end time mismatch", modify: func(r *Request) { r.Slots[0].EndTime = &badEnd }},
		{name: "duplicate start", modify: func(r *Request) { r.Slots = append(r.Slots, r.Slots[0]) }},
		{name: "zero participants", modify: func(r *Request) { r.Slots[0].Participants = 0 }},
		{name: "blank grade", modify: func(r *Request) { r.Slots[0].Grade = "   " }},
		{name: "missing location", modify: func(r *Request) { r.Slots[0].Location = "" }},
		{name: "unknown tier", modify: func(r *Request) { r.Tier = "gold" }},
		{name: "missing organization", modify: func(r *Request) { r.OrganizationID = 0 }},
		{name: "missing date", modify: func(r *Request) { r.Date = time.Time{} }},
		{name: "past date", modify: func(r *Request) { r.Date = time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.openWindow(t, domain.TierStandard, 2025, time.May)
			req := request(10, may(15))
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 1.0, f.outcomes(outcomeInvalid))

			count, countErr := f.store.CountActive(context.Background(), regionID, may(15))
			require.NoError(t, countErr)
			assert.Zero(t, count)
		})
	}
}

func TestExecute_RegionNotFound(t *testing.T) {
	f := newFixture(t)
	req := request(10, may(15))
	req.RegionID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

func TestExecute_TierWindow(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierPriority, 2025, time.May)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(10, may(15)))
	var closed *TierClosedError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, domain.TierStandard, closed.Tier)
	assert.ErrorIs(t, err, ErrTierClosed)

	priority := request(11, may(15))
	priority.Tier = domain.TierPriority
	_, err = f.uc.Execute(ctx, priority)
	require.NoError(t, err)

	// окно открыто только на май
	june := request(11, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC))
	june.Tier = domain.TierPriority
	_, err = f.uc.Execute(ctx, june)
	assert.ErrorIs(t, err, ErrTierClosed)
	assert.Equal(t, 2.0, f.outcomes(outcomeTierClosed))
}

func TestExecute_QuotaCountsDistinctDates(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)
	ctx := context.Background()
	const org int64 = 10

	for day := 5; day < 5+domain.DefaultMaxDaysPerMonth; day++ {
		_, err := f.uc.Execute(ctx, request(org, may(day)))
		require.NoError(t, err, "day %d", day)
	}

	_, err := f.uc.Execute(ctx, request(org, may(20)))
	var exceeded *QuotaExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth, exceeded.Used)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth, exceeded.Max)

	// вторая заявка на уже занятую дату квоту не расходует
	second := request(org, may(5))
	second.Slots[0].StartTime = types.MustTimeString("14:00")
	resp, err := f.uc.Execute(ctx, second)
	require.NoError(t, err)
	assert.Zero(t, resp.QuotaRemaining)

	// другая организация не затронута
	_, err = f.uc.Execute(ctx, request(org+1, may(20)))
	assert.NoError(t, err)
}

func TestExecute_DateBlocked(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked date", func(t *testing.T) {
		f := newFixture(t)
		f.openWindow(t, domain.TierStandard, 2025, time.May)
		_, err := f.store.BlockDate(ctx, &domain.BlockedDate{RegionID: regionID, Date: may(15), Reason: "holiday"})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, request(10, may(15)))
		assert.ErrorIs(t, err, ErrDateBlocked)
		assert.Equal(t, 1.0, f.outcomes(outcomeDateBlocked))
	})

	t.Run("zero override", func(t *testing.T) {
		f := newFixture(t)
		f.openWindow(t, domain.TierStandard, 2025, time.May)
		_, err := f.store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: may(15), MaxReservationsPerDay: 0})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, request(10, may(15)))
		assert.ErrorIs(t, err, ErrDateBlocked)
	})
}

func TestExecute_OverrideTakesPrecedence(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)
	ctx := context.Background()

	for org := int64(1); org <= domain.DefaultMaxReservationsPerDay; org++ {
		_, err := f.uc.Execute(ctx, request(org, may(15)))
		require.NoError(t, err)
	}

	_, err := f.uc.Execute(ctx, request(99, may(15)))
	var full *DateFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, domain.DefaultMaxReservationsPerDay, full.Max)

	_, err = f.store.UpsertDailyOverride(ctx, &domain.DailyCapacityOverride{RegionID: regionID, Date: may(15), MaxReservationsPerDay: 3})
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, request(99, may(15)))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.DateCurrent)
	assert.Equal(t, 3, resp.DateMax)
}

func TestExecute_HardDeleteFreesSeat(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, request(1, may(15)))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, request(2, may(15)))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(3, may(15)))
	require.ErrorIs(t, err, ErrDateFull)

	reservations := lifecycle.NewService(f.store, memory.NewTxManager(f.store),
		metrics.NewWithRegisterer(prometheus.NewRegistry(), "test"), logger.NewNop())
	result, err := reservations.Reject(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	_, err = f.uc.Execute(ctx, request(3, may(15)))
	assert.NoError(t, err)
}

func TestExecute_AdmissionUsesReadCommittedTransaction(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(1, may(20)))
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.count())

	_, err = f.uc.Execute(ctx, request(2, may(20)))
	require.NoError(t, err)
	assert.Equal(t, 2, f.tx.count())

	// отказ на предварительной проверке не открывает транзакцию
	_, err = f.uc.Execute(ctx, request(3, may(20)))
	require.ErrorIs(t, err, ErrDateFull)
	assert.Equal(t, 2, f.tx.count())
}

func TestExecute_ConcurrentRequestsNeverOverbook(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)
	ctx := context.Background()

	const attempts = 30
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		full     int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(org int64) {
			defer wg.Done()
			_, err := f.uc.Execute(ctx, request(org, may(15)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				admitted++
			case assert.ErrorIs(t, err, ErrDateFull):
				full++
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, domain.DefaultMaxReservationsPerDay, admitted)
	assert.Equal(t, attempts-domain.DefaultMaxReservationsPerDay, full)

	count, err := f.store.CountActive(ctx, regionID, may(15))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxReservationsPerDay, count)
	assert.Equal(t, float64(domain.DefaultMaxReservationsPerDay), f.outcomes(outcomeAdmitted))
}

func TestExecute_SameOrganizationRaceRespectsQuota(t *testing.T) {
	f := newFixture(t)
	f.openWindow(t, domain.TierStandard, 2025, time.May)
	ctx := context.Background()
	const org int64 = 10

	var wg sync.WaitGroup
	for day := 1; day <= 10; day++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			_, _ = f.uc.Execute(ctx, request(org, may(d+10)))
		}(day)
	}
	wg.Wait()

	used, err := f.store.CountDistinctActiveDatesForOrgInMonth(ctx, org, regionID, 2025, time.May)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxDaysPerMonth, used)
}
