package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/capacity"
)

func (s *Store) GetRegion(_ context.Context, id int64) (*domain.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	region, ok := s.data.regions[id]
	if !ok {
		return nil, capacity.ErrRegionNotFound
	}
	return &region, nil
}

func (s *Store) ListRegions(_ context.Context) ([]domain.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regions := make([]domain.Region, 0, len(s.data.regions))
	for _, r := range s.data.regions {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })
	return regions, nil
}

func (s *Store) ListTiers(_ context.Context) ([]domain.MembershipTier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tiers := make([]domain.MembershipTier, 0, len(s.data.tiers))
	for _, t := range s.data.tiers {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].AdvanceReservationDays != tiers[j].AdvanceReservationDays {
			return tiers[i].AdvanceReservationDays > tiers[j].AdvanceReservationDays
		}
		return tiers[i].Tier < tiers[j].Tier
	})
	return tiers, nil
}

func (s *Store) GetTier(_ context.Context, tier domain.Tier) (*domain.MembershipTier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.tiers[tier]
	if !ok {
		return nil, capacity.ErrTierNotFound
	}
	return &t, nil
}

func (s *Store) GetTierWindow(_ context.Context, regionID int64, year int, month time.Month, tier domain.Tier) (*domain.TierWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.data.windows[windowKey{monthKey{regionID, year, month}, tier}]
	if !ok {
		return nil, capacity.ErrTierWindowNotFound
	}
	return &w, nil
}

func (s *Store) ListTierWindows(_ context.Context, regionID int64, year int, month time.Month) ([]domain.TierWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mk := monthKey{regionID, year, month}
	windows := make([]domain.TierWindow, 0)
	for k, w := range s.data.windows {
		if k.monthKey == mk {
			windows = append(windows, w)
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Tier < windows[j].Tier })
	return windows, nil
}

func (s *Store) UpsertTierWindow(ctx context.Context, window *domain.TierWindow) (*domain.TierWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := windowKey{monthKey{window.RegionID, window.Year, window.Month}, window.Tier}
	remember(ctx, &s.data, windowsTable, key)
	window.UpdatedAt = s.now()
	s.data.windows[key] = *window
	return window, nil
}

func (s *Store) GetOrInitMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := monthKey{regionID, year, month}
	if setting, ok := s.data.monthly[key]; ok {
		return &setting, false, nil
	}

	remember(ctx, &s.data, monthlyTable, key)
	setting := domain.DefaultMonthlySetting(regionID, year, month)
	s.data.nextSettingID++
	setting.ID = s.data.nextSettingID
	setting.CreatedAt = s.now()
	setting.UpdatedAt = setting.CreatedAt
	s.data.monthly[key] = setting
	return &setting, true, nil
}

func (s *Store) GetMonthlySetting(_ context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setting, ok := s.data.monthly[monthKey{regionID, year, month}]
	if !ok {
		return nil, capacity.ErrSettingNotFound
	}
	return &setting, nil
}

func (s *Store) UpdateMonthlySetting(ctx context.Context, setting *domain.MonthlyCapacitySetting) (*domain.MonthlyCapacitySetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := monthKey{setting.RegionID, setting.Year, setting.Month}
	existing, ok := s.data.monthly[key]
	if !ok {
		return nil, capacity.ErrSettingNotFound
	}

	remember(ctx, &s.data, monthlyTable, key)
	setting.ID = existing.ID
	setting.CreatedAt = existing.CreatedAt
	setting.UpdatedAt = s.now()
	s.data.monthly[key] = *setting
	return setting, nil
}

func (s *Store) GetDailyOverride(_ context.Context, regionID int64, date time.Time) (*domain.DailyCapacityOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.data.overrides[newDateKey(regionID, date)]
	if !ok {
		return nil, capacity.ErrOverrideNotFound
	}
	return &o, nil
}

func (s *Store) ListDailyOverrides(_ context.Context, regionID int64, year int, month time.Month) ([]domain.DailyCapacityOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overrides := make([]domain.DailyCapacityOverride, 0)
	for k, o := range s.data.overrides {
		if k.RegionID == regionID && inMonth(o.Date, year, month) {
			overrides = append(overrides, o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].Date.Before(overrides[j].Date) })
	return overrides, nil
}

func (s *Store) UpsertDailyOverride(ctx context.Context, override *domain.DailyCapacityOverride) (*domain.DailyCapacityOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	override.Date = domain.DateOnly(override.Date)
	key := newDateKey(override.RegionID, override.Date)
	remember(ctx, &s.data, overridesTable, key)
	override.UpdatedAt = s.now()
	s.data.overrides[key] = *override
	return override, nil
}

func (s *Store) DeleteDailyOverride(ctx context.Context, regionID int64, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := newDateKey(regionID, date)
	if _, ok := s.data.overrides[key]; !ok {
		return capacity.ErrOverrideNotFound
	}
	remember(ctx, &s.data, overridesTable, key)
	delete(s.data.overrides, key)
	return nil
}

func (s *Store) IsBlocked(_ context.Context, regionID int64, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data.blocked[newDateKey(regionID, date)]
	return ok, nil
}

func (s *Store) ListBlockedDates(_ context.Context, regionID int64) ([]domain.BlockedDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocked := make([]domain.BlockedDate, 0)
	for k, b := range s.data.blocked {
		if k.RegionID == regionID {
			blocked = append(blocked, b)
		}
	}
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].Date.Before(blocked[j].Date) })
	return blocked, nil
}

func (s *Store) BlockDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocked.Date = domain.DateOnly(blocked.Date)
	key := newDateKey(blocked.RegionID, blocked.Date)
	if existing, ok := s.data.blocked[key]; ok {
		blocked.CreatedAt = existing.CreatedAt
	} else {
		blocked.CreatedAt = s.now()
	}
	remember(ctx, &s.data, blockedTable, key)
	s.data.blocked[key] = *blocked
	return blocked, nil
}

func (s *Store) UnblockDate(ctx context.Context, regionID int64, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := newDateKey(regionID, date)
	if _, ok := s.data.blocked[key]; !ok {
		return capacity.ErrBlockedDateNotFound
	}
	remember(ctx, &s.data, blockedTable, key)
	delete(s.data.blocked, key)
	return nil
}
