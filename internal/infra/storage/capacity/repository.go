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

// Repository репозиторий конфигурации вместимости: регионы, уровни членства,
// окна уровней, месячные настройки, переопределения на дату и блокировки дат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации вместимости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRegion получает регион по ID
func (r *Repository) GetRegion(ctx context.Context, id int64) (*domain.Region, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "code", "name").
		From("regions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRegion - build select query: %v", ErrBuildQuery, err)
	}

	var region domain.Region
	err = executor.QueryRowContext(ctx, query, args...).Scan(&region.ID, &region.Code, &region.Name)
	if err == sql.ErrNoRows {
		return nil, ErrRegionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRegion - scan region: %w", ErrScanRow, err)
	}

	return &region, nil
}

// ListRegions получает все регионы
func (r *Repository) ListRegions(ctx context.Context) ([]domain.Region, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "code", "name").
		From("regions").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRegions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRegions - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	regions := make([]domain.Region, 0)
	for rows.Next() {
		var region domain.Region
		if err := rows.Scan(&region.ID, &region.Code, &region.Name); err != nil {
			return nil, fmt.Errorf("%w: ListRegions - scan row: %v", ErrScanRow, err)
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRegions - rows error: %v", ErrScanRow, err)
	}

	return regions, nil
}

// ListTiers получает все уровни членства
func (r *Repository) ListTiers(ctx context.Context) ([]domain.MembershipTier, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("tier", "display_name", "advance_reservation_days").
		From("membership_tiers").
		OrderBy("advance_reservation_days DESC", "tier ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTiers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTiers - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	tiers := make([]domain.MembershipTier, 0)
	for rows.Next() {
		tier, err := scanTier(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTiers - scan row: %v", ErrScanRow, err)
		}
		tiers = append(tiers, *tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTiers - rows error: %v", ErrScanRow, err)
	}

	return tiers, nil
}

// GetTier получает настройки уровня членства
func (r *Repository) GetTier(ctx context.Context, tier domain.Tier) (*domain.MembershipTier, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("tier", "display_name", "advance_reservation_days").
		From("membership_tiers").
		Where(squirrel.Eq{"tier": string(tier)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTier - build select query: %v", ErrBuildQuery, err)
	}

	result, err := scanTier(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTier - scan tier: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTier(row rowScanner) (*domain.MembershipTier, error) {
	var (
		raw  string
		tier domain.MembershipTier
	)
	if err := row.Scan(&raw, &tier.DisplayName, &tier.AdvanceReservationDays); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseTier(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, raw)
	}
	tier.Tier = parsed

	return &tier, nil
}

func monthArgs(year int, month time.Month) squirrel.Eq {
	return squirrel.Eq{"year": year, "month": int(month)}
}
