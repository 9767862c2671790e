package memory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type txKey struct{}

// undoLog обратные шаги записей одной транзакции; доступ только под Store.mu
type undoLog struct {
	steps []func(*state)
}

// TxManager сериализует транзакции над Store.
// При ошибке или панике внутри fn откатываются только записи самой транзакции,
// записи вне транзакций сохраняются.
type TxManager struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxManager создает менеджер транзакций для хранилища
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции; в памяти все транзакции уже сериализованы
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	log := &undoLog{}
	defer func() {
		if p := recover(); p != nil {
			m.store.rollback(log)
			panic(p)
		}
		if err != nil {
			m.store.rollback(log)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, log))
}

func (s *Store) rollback(log *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(log.steps) - 1; i >= 0; i-- {
		log.steps[i](&s.data)
	}
	log.steps = nil
}

func txLog(ctx context.Context) *undoLog {
	log, _ := ctx.Value(txKey{}).(*undoLog)
	return log
}

func inTx(ctx context.Context) bool {
	return txLog(ctx) != nil
}

// remember запоминает прежнее значение key, чтобы откат транзакции вернул его.
// Вызывается под Store.mu до изменения; вне транзакции ничего не делает.
func remember[K comparable, V any](ctx context.Context, data *state, table func(*state) map[K]V, key K) {
	log := txLog(ctx)
	if log == nil {
		return
	}

	prev, existed := table(data)[key]
	log.steps = append(log.steps, func(st *state) {
		if existed {
			table(st)[key] = prev
		} else {
			delete(table(st), key)
		}
	})
}

func windowsTable(st *state) map[windowKey]domain.TierWindow            { return st.windows }
func monthlyTable(st *state) map[monthKey]domain.MonthlyCapacitySetting { return st.monthly }
func overridesTable(st *state) map[dateKey]domain.DailyCapacityOverride { return st.overrides }
func blockedTable(st *state) map[dateKey]domain.BlockedDate             { return st.blocked }
func reservationsTable(st *state) map[int64]domain.Reservation          { return st.reservations }
