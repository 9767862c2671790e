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

var tierWindowColumns = []string{
	"region_id",
	"year",
	"month",
	"tier",
	"is_open",
	"opened_at",
	"updated_at",
}

// GetTierWindow получает окно уровня на месяц.
// Если администратор ни разу не менял окно, возвращает ErrTierWindowNotFound (окно закрыто).
func (r *Repository) GetTierWindow(ctx context.Context, regionID int64, year int, month time.Month, tier domain.Tier) (*domain.TierWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tierWindowColumns...).
		From("tier_windows").
		Where(squirrel.Eq{"region_id": regionID, "tier": string(tier)}).
		Where(monthArgs(year, month)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTierWindow - build select query: %v", ErrBuildQuery, err)
	}

	window, err := scanTierWindow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTierWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTierWindow - scan window: %w", ErrScanRow, err)
	}

	return window, nil
}

// ListTierWindows получает все настроенные окна уровней региона на месяц
func (r *Repository) ListTierWindows(ctx context.Context, regionID int64, year int, month time.Month) ([]domain.TierWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tierWindowColumns...).
		From("tier_windows").
		Where(squirrel.Eq{"region_id": regionID}).
		Where(monthArgs(year, month)).
		OrderBy("tier ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTierWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTierWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.TierWindow, 0)
	for rows.Next() {
		window, err := scanTierWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTierWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, *window)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTierWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// UpsertTierWindow создаёт или обновляет окно уровня (переключение администратором)
func (r *Repository) UpsertTierWindow(ctx context.Context, window *domain.TierWindow) (*domain.TierWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tier_windows").
		Columns("region_id", "year", "month", "tier", "is_open", "opened_at").
		Values(window.RegionID, window.Year, int(window.Month), string(window.Tier), window.IsOpen, window.OpenedAt).
		Suffix(`ON CONFLICT (region_id, year, month, tier) DO UPDATE
			SET is_open = EXCLUDED.is_open,
			    opened_at = EXCLUDED.opened_at,
			    updated_at = NOW()
			RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertTierWindow - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&window.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertTierWindow - execute upsert: %w", ErrExecQuery, err)
	}

	return window, nil
}

func scanTierWindow(row rowScanner) (*domain.TierWindow, error) {
	var (
		window   domain.TierWindow
		month    int
		tier     string
		openedAt sql.NullTime
	)

	if err := row.Scan(
		&window.RegionID,
		&window.Year,
		&month,
		&tier,
		&window.IsOpen,
		&openedAt,
		&window.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseTier(tier)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, tier)
	}
	window.Tier = parsed
	window.Month = time.Month(month)
	if openedAt.Valid {
		window.OpenedAt = &openedAt.Time
	}

	return &window, nil
}
