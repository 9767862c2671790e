package capacity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

var monthlySettingColumns = []string{
	"id",
	"region_id",
	"year",
	"month",
	"is_open",
	"max_reservations_per_day",
	"max_days_per_month",
	"created_at",
	"updated_at",
}

// GetOrInitMonthlySetting получает месячную настройку, создавая строку с безопасными
// значениями по умолчанию (закрыто, 2 в день, 4 дня в месяц), если её ещё нет.
// created = true, если строка была создана этим вызовом.
func (r *Repository) GetOrInitMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	defaults := domain.DefaultMonthlySetting(regionID, year, month)

	query, args, err := psqlbuilder.Insert("monthly_capacity_settings").
		Columns("region_id", "year", "month", "is_open", "max_reservations_per_day", "max_days_per_month").
		Values(
			defaults.RegionID,
			defaults.Year,
			int(defaults.Month),
			defaults.IsOpen,
			defaults.MaxReservationsPerDay,
			defaults.MaxDaysPerMonth,
		).
		Suffix("ON CONFLICT (region_id, year, month) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: GetOrInitMonthlySetting - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&defaults.ID, &createdAt, &updatedAt)
	if err == nil {
		defaults.CreatedAt = createdAt.Time
		defaults.UpdatedAt = updatedAt.Time
		return &defaults, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("%w: GetOrInitMonthlySetting - execute insert: %w", ErrExecQuery, err)
	}

	// Строка уже существовала - ON CONFLICT DO NOTHING ничего не вернул
	setting, err := r.GetMonthlySetting(ctx, regionID, year, month)
	if err != nil {
		return nil, false, err
	}
	return setting, false, nil
}

// GetMonthlySetting получает месячную настройку без создания значений по умолчанию
func (r *Repository) GetMonthlySetting(ctx context.Context, regionID int64, year int, month time.Month) (*domain.MonthlyCapacitySetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(monthlySettingColumns...).
		From("monthly_capacity_settings").
		Where(squirrel.Eq{"region_id": regionID}).
		Where(monthArgs(year, month)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMonthlySetting - build select query: %v", ErrBuildQuery, err)
	}

	setting, err := scanMonthlySetting(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMonthlySetting - scan setting: %w", ErrScanRow, err)
	}

	return setting, nil
}

// UpdateMonthlySetting обновляет месячную настройку (строка должна существовать)
func (r *Repository) UpdateMonthlySetting(ctx context.Context, setting *domain.MonthlyCapacitySetting) (*domain.MonthlyCapacitySetting, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("monthly_capacity_settings").
		Set("is_open", setting.IsOpen).
		Set("max_reservations_per_day", setting.MaxReservationsPerDay).
		Set("max_days_per_month", setting.MaxDaysPerMonth).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"region_id": setting.RegionID}).
		Where(monthArgs(setting.Year, setting.Month)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateMonthlySetting - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&setting.ID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateMonthlySetting - execute update: %w", ErrExecQuery, err)
	}

	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time
	return setting, nil
}

func scanMonthlySetting(row rowScanner) (*domain.MonthlyCapacitySetting, error) {
	var (
		setting              domain.MonthlyCapacitySetting
		month                int
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(
		&setting.ID,
		&setting.RegionID,
		&setting.Year,
		&month,
		&setting.IsOpen,
		&setting.MaxReservationsPerDay,
		&setting.MaxDaysPerMonth,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	setting.Month = time.Month(month)
	setting.CreatedAt = createdAt.Time
	setting.UpdatedAt = updatedAt.Time
	return &setting, nil
}
