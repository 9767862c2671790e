package reservation

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

var reservationColumns = []string{
	"id",
	"organization_id",
	"region_id",
	"reservation_date",
	"status",
	"cancel_reason",
	"created_at",
	"updated_at",
}

var slotColumns = []string{
	"id",
	"reservation_id",
	"start_time",
	"end_time",
	"grade",
	"participants",
	"location",
}

// Repository репозиторий бронирований и их слотов (Postgres)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockDate берёт транзакционную advisory-блокировку на пару (регион, дата).
// Все вставки на одну дату сериализуются на этой блокировке до конца транзакции.
func (r *Repository) LockDate(ctx context.Context, regionID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockDate - must be called inside a transaction", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?::int, ?::int)", regionID, dateLockKey(date))).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDate - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockDate - execute: %w", ErrExecQuery, err)
	}
	return nil
}

// LockOrganizationMonth берёт advisory-блокировку на месячную квоту организации в регионе
func (r *Repository) LockOrganizationMonth(ctx context.Context, organizationID, regionID int64, year int, month time.Month) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockOrganizationMonth - must be called inside a transaction", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("quota:%d:%d:%04d-%02d", organizationID, regionID, year, int(month))
	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", key)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockOrganizationMonth - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockOrganizationMonth - execute: %w", ErrExecQuery, err)
	}
	return nil
}

// CountActive возвращает количество активных бронирований на дату в регионе
func (r *Repository) CountActive(ctx context.Context, regionID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{
			"region_id":        regionID,
			"reservation_date": domain.DateKey(date),
			"status":           domain.ActiveStatusStrings(),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

// CountActiveByDateInMonth возвращает количество активных бронирований по датам месяца.
// Ключ - дата в формате YYYY-MM-DD; даты без бронирований в результат не попадают.
func (r *Repository) CountActiveByDateInMonth(ctx context.Context, regionID int64, year int, month time.Month) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	first, last := domain.MonthBounds(year, month)

	query, args, err := psqlbuilder.Select("reservation_date", "COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{
			"region_id": regionID,
			"status":    domain.ActiveStatusStrings(),
		}).
		Where(squirrel.GtOrEq{"reservation_date": domain.DateKey(first)}).
		Where(squirrel.LtOrEq{"reservation_date": domain.DateKey(last)}).
		GroupBy("reservation_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateInMonth - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateInMonth - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			date  time.Time
			count int
		)
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDateInMonth - scan row: %v", ErrScanRow, err)
		}
		counts[domain.DateKey(date)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDateInMonth - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CountDistinctActiveDatesForOrgInMonth возвращает количество различных дат месяца,
// на которые у организации есть активные бронирования в регионе
func (r *Repository) CountDistinctActiveDatesForOrgInMonth(ctx context.Context, organizationID, regionID int64, year int, month time.Month) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	first, last := domain.MonthBounds(year, month)

	query, args, err := psqlbuilder.Select("COUNT(DISTINCT reservation_date)").
		From("reservations").
		Where(squirrel.Eq{
			"organization_id": organizationID,
			"region_id":       regionID,
			"status":          domain.ActiveStatusStrings(),
		}).
		Where(squirrel.GtOrEq{"reservation_date": domain.DateKey(first)}).
		Where(squirrel.LtOrEq{"reservation_date": domain.DateKey(last)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountDistinctActiveDatesForOrgInMonth - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountDistinctActiveDatesForOrgInMonth - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

// HasActiveOnDate проверяет, есть ли у организации активное бронирование на дату
func (r *Repository) HasActiveOnDate(ctx context.Context, organizationID, regionID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reservations").
		Where(squirrel.Eq{
			"organization_id":  organizationID,
			"region_id":        regionID,
			"reservation_date": domain.DateKey(date),
			"status":           domain.ActiveStatusStrings(),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveOnDate - scan: %w", ErrScanRow, err)
	}
	return true, nil
}

// InsertWithSlots атомарно создаёт бронирование вместе со слотами.
// Внутри той же транзакции берётся блокировка даты и заново считается количество
// активных бронирований; если оно уже >= maxPerDay, возвращается ErrCapacityExceeded
// и ничего не создаётся. Вне транзакции метод открывает собственную.
func (r *Repository) InsertWithSlots(ctx context.Context, reservation *domain.Reservation, maxPerDay int) (*domain.Reservation, error) {
	if len(reservation.Slots) == 0 {
		return nil, ErrNoSlots
	}

	if !dbmetrics.IsInTransaction(ctx) {
		var created *domain.Reservation
		err := r.withTx(ctx, func(txCtx context.Context) error {
			var err error
			created, err = r.InsertWithSlots(txCtx, reservation, maxPerDay)
			return err
		})
		return created, err
	}

	if err := r.LockDate(ctx, reservation.RegionID, reservation.Date); err != nil {
		return nil, err
	}

	current, err := r.CountActive(ctx, reservation.RegionID, reservation.Date)
	if err != nil {
		return nil, err
	}
	if current >= maxPerDay {
		return nil, fmt.Errorf("%w: %d/%d", ErrCapacityExceeded, current, maxPerDay)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"organization_id",
			"region_id",
			"reservation_date",
			"status",
		).
		Values(
			reservation.OrganizationID,
			reservation.RegionID,
			domain.DateKey(reservation.Date),
			reservation.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertWithSlots - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&reservation.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: InsertWithSlots - execute insert: %w", ErrExecQuery, err)
	}
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	slotsInsert := psqlbuilder.Insert("reservation_slots").
		Columns("reservation_id", "start_time", "end_time", "grade", "participants", "location")
	for _, slot := range reservation.Slots {
		slotsInsert = slotsInsert.Values(
			reservation.ID,
			slot.StartTime,
			slot.EndTime,
			slot.Grade,
			slot.Participants,
			slot.Location,
		)
	}

	query, args, err = slotsInsert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertWithSlots - build slots insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: InsertWithSlots - execute slots insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	// RETURNING отдаёт строки в порядке VALUES
	i := 0
	for rows.Next() {
		if i >= len(reservation.Slots) {
			return nil, fmt.Errorf("%w: InsertWithSlots - unexpected extra slot id", ErrScanRow)
		}
		if err := rows.Scan(&reservation.Slots[i].ID); err != nil {
			return nil, fmt.Errorf("%w: InsertWithSlots - scan slot id: %v", ErrScanRow, err)
		}
		reservation.Slots[i].ReservationID = reservation.ID
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: InsertWithSlots - rows error: %w", ErrScanRow, err)
	}

	return reservation, nil
}

// GetByID получает бронирование со слотами.
// Внутри транзакции строка бронирования блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	slots, err := r.loadSlots(ctx, []int64{reservation.ID})
	if err != nil {
		return nil, err
	}
	reservation.Slots = slots[reservation.ID]

	return reservation, nil
}

// List получает бронирования по фильтру вместе со слотами.
// Сортировка: по дате по возрастанию, затем по id.
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		OrderBy("reservation_date ASC", "id ASC")

	if filter.OrganizationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.RegionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"region_id": *filter.RegionID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": domain.DateKey(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": domain.DateKey(*filter.EndDate)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.ActiveStatusStrings()})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, reservation)
		ids = append(ids, reservation.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return reservations, nil
	}

	slots, err := r.loadSlots(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, reservation := range reservations {
		reservation.Slots = slots[reservation.ID]
	}

	return reservations, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if reason != nil {
		updateBuilder = updateBuilder.Set("cancel_reason", *reason)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Delete физически удаляет бронирование; слоты удаляются каскадно (ON DELETE CASCADE)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// loadSlots загружает слоты для набора бронирований одним запросом
func (r *Repository) loadSlots(ctx context.Context, reservationIDs []int64) (map[int64][]domain.ReservationSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("reservation_slots").
		Where(squirrel.Eq{"reservation_id": reservationIDs}).
		OrderBy("reservation_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadSlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make(map[int64][]domain.ReservationSlot, len(reservationIDs))
	for rows.Next() {
		var slot domain.ReservationSlot
		if err := rows.Scan(
			&slot.ID,
			&slot.ReservationID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Grade,
			&slot.Participants,
			&slot.Location,
		); err != nil {
			return nil, fmt.Errorf("%w: loadSlots - scan row: %v", ErrScanRow, err)
		}
		slots[slot.ReservationID] = append(slots[slot.ReservationID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// withTx открывает собственную транзакцию, если репозиторий вызван вне её
func (r *Repository) withTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	beginner, ok := r.db.(TxBeginner)
	if !ok {
		return fmt.Errorf("%w: db type does not support transactions", ErrTransaction)
	}

	tx, err := beginner.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: BeginTx: %w", ErrTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: Commit: %w", ErrTransaction, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		reservation          domain.Reservation
		cancelReason         sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(
		&reservation.ID,
		&reservation.OrganizationID,
		&reservation.RegionID,
		&reservation.Date,
		&reservation.Status,
		&cancelReason,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	reservation.Date = domain.DateOnly(reservation.Date)
	if cancelReason.Valid {
		reservation.CancelReason = &cancelReason.String
	}
	reservation.CreatedAt = createdAt.Time
	reservation.UpdatedAt = updatedAt.Time

	return &reservation, nil
}

// dateLockKey ключ блокировки даты: YYYYMMDD
func dateLockKey(date time.Time) int {
	y, m, d := date.Date()
	return y*10000 + int(m)*100 + d
}
