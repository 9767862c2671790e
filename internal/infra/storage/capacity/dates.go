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

// GetDailyOverride получает переопределение вместимости на дату
func (r *Repository) GetDailyOverride(ctx context.Context, regionID int64, date time.Time) (*domain.DailyCapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("region_id", "override_date", "max_reservations_per_day", "updated_at").
		From("daily_capacity_overrides").
		Where(squirrel.Eq{"region_id": regionID, "override_date": domain.DateKey(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDailyOverride - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDailyOverride - scan override: %w", ErrScanRow, err)
	}

	return override, nil
}

// ListDailyOverrides получает переопределения региона за месяц
func (r *Repository) ListDailyOverrides(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.DailyCapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	first, last := domain.MonthBounds(year, month)

	query, args, err := psqlbuilder.Select("region_id", "override_date", "max_reservations_per_day", "updated_at").
		From("daily_capacity_overrides").
		Where(squirrel.Eq{"region_id": regionID}).
		Where(squirrel.GtOrEq{"override_date": domain.DateKey(first)}).
		Where(squirrel.LtOrEq{"override_date": domain.DateKey(last)}).
		OrderBy("override_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDailyOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDailyOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.DailyCapacityOverride, 0)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDailyOverrides - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, *override)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDailyOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// UpsertDailyOverride создаёт или заменяет переопределение на дату
func (r *Repository) UpsertDailyOverride(ctx context.Context, override *domain.DailyCapacityOverride) (*domain.DailyCapacityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("daily_capacity_overrides").
		Columns("region_id", "override_date", "max_reservations_per_day").
		Values(override.RegionID, domain.DateKey(override.Date), override.MaxReservationsPerDay).
		Suffix(`ON CONFLICT (region_id, override_date) DO UPDATE
			SET max_reservations_per_day = EXCLUDED.max_reservations_per_day,
			    updated_at = NOW()
			RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDailyOverride - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&override.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertDailyOverride - execute upsert: %w", ErrExecQuery, err)
	}

	override.Date = domain.DateOnly(override.Date)
	return override, nil
}

// DeleteDailyOverride удаляет переопределение, дата возвращается к месячной настройке
func (r *Repository) DeleteDailyOverride(ctx context.Context, regionID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("daily_capacity_overrides").
		Where(squirrel.Eq{"region_id": regionID, "override_date": domain.DateKey(date)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteDailyOverride - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, query, args, ErrOverrideNotFound, "DeleteDailyOverride")
}

// IsBlocked проверяет, есть ли дата в списке заблокированных
func (r *Repository) IsBlocked(ctx context.Context, regionID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("blocked_dates").
		Where(squirrel.Eq{"region_id": regionID, "blocked_date": domain.DateKey(date)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsBlocked - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsBlocked - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

// ListBlockedDates получает все заблокированные даты региона
func (r *Repository) ListBlockedDates(ctx context.Context, regionID int64) ([]domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("region_id", "blocked_date", "reason", "created_at").
		From("blocked_dates").
		Where(squirrel.Eq{"region_id": regionID}).
		OrderBy("blocked_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]domain.BlockedDate, 0)
	for rows.Next() {
		var (
			b         domain.BlockedDate
			createdAt sql.NullTime
		)
		if err := rows.Scan(&b.RegionID, &b.Date, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan row: %v", ErrScanRow, err)
		}
		b.Date = domain.DateOnly(b.Date)
		b.CreatedAt = createdAt.Time
		blocked = append(blocked, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// BlockDate блокирует дату; повторная блокировка обновляет причину
func (r *Repository) BlockDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("region_id", "blocked_date", "reason").
		Values(blocked.RegionID, domain.DateKey(blocked.Date), blocked.Reason).
		Suffix("ON CONFLICT (region_id, blocked_date) DO UPDATE SET reason = EXCLUDED.reason RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: BlockDate - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&blocked.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: BlockDate - execute upsert: %w", ErrExecQuery, err)
	}

	blocked.Date = domain.DateOnly(blocked.Date)
	return blocked, nil
}

// UnblockDate снимает блокировку даты
func (r *Repository) UnblockDate(ctx context.Context, regionID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_dates").
		Where(squirrel.Eq{"region_id": regionID, "blocked_date": domain.DateKey(date)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UnblockDate - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, query, args, ErrBlockedDateNotFound, "UnblockDate")
}

func scanOverride(row rowScanner) (*domain.DailyCapacityOverride, error) {
	var override domain.DailyCapacityOverride
	if err := row.Scan(
		&override.RegionID,
		&override.Date,
		&override.MaxReservationsPerDay,
		&override.UpdatedAt,
	); err != nil {
		return nil, err
	}
	override.Date = domain.DateOnly(override.Date)
	return &override, nil
}

// execAffectingOne выполняет запрос и возвращает notFound, если не затронута ни одна строка
func execAffectingOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, notFound error, method string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
