package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sethvargo/go-retry"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 10 * time.Millisecond

	// SQLSTATE кодов, при которых транзакцию безопасно повторить
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

var (
	// ErrBeginTx возвращается, если не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, если не удалось закоммитить транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// RetryObserver получает уведомление о каждом повторе транзакции (метрики)
type RetryObserver interface {
	RecordTxRetry()
}

// Option настройка менеджера транзакций
type Option func(*TransactionManager)

// WithMaxRetries задаёт число повторов сериализуемой транзакции
func WithMaxRetries(n uint64) Option {
	return func(m *TransactionManager) {
		m.maxRetries = n
	}
}

// WithBaseBackoff задаёт начальную задержку экспоненциального backoff
func WithBaseBackoff(d time.Duration) Option {
	return func(m *TransactionManager) {
		m.baseBackoff = d
	}
}

// WithRetryObserver подключает наблюдателя повторов
func WithRetryObserver(o RetryObserver) Option {
	return func(m *TransactionManager) {
		m.observer = o
	}
}

// TransactionManager открывает транзакции и кладёт их в контекст,
// откуда их забирают репозитории через dbmetrics.GetExecutor
type TransactionManager struct {
	db          dbmetrics.TxBeginner
	maxRetries  uint64
	baseBackoff time.Duration
	observer    RetryObserver
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:          db,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При конфликте сериализации (40001) или дедлоке (40P01) транзакция целиком повторяется
// с экспоненциальной задержкой; fn должна быть идемпотентной до коммита.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	backoff := retry.WithMaxRetries(m.maxRetries, retry.NewExponential(m.baseBackoff))
	attempt := 0

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 && m.observer != nil {
			m.observer.RecordTxRetry()
		}
		attempt++

		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		// pq возвращает ошибку сериализации и на COMMIT, её нужно сохранить для повтора
		if IsRetryable(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// IsRetryable проверяет, что ошибка - конфликт сериализации или дедлок Postgres
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}
