package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ReservationService/internal/service/quota"
	"github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/service/tierpolicy"
	admitReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/admit_reservation"
	"github.com/m04kA/SMC-ReservationService/migrations"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// reservationStore все операции над бронированиями, нужные сервисам
type reservationStore interface {
	lifecycle.ReservationRepository
	availability.ReservationRepository
	quota.ReservationRepository
	admitReservation.ReservationRepository
}

// capacityStore все операции над настройками вместимости
type capacityStore interface {
	availability.CapacityRepository
	quota.SettingsRepository
	settings.CapacityRepository
	tierpolicy.CapacityRepository
}

type txManager interface {
	settings.TransactionManager
	lifecycle.TransactionManager
}

type storage struct {
	reservations reservationStore
	capacity     capacityStore
	tx           txManager
	close        func()
}

// openStorage поднимает выбранное хранилище: postgres (с миграциями и метриками запросов) или память
func openStorage(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore(memory.WithRegions(memory.DefaultRegions()...))
		log.Warn("Using in-memory storage: data is lost on restart")
		return &storage{
			reservations: store,
			capacity:     store,
			tx:           memory.NewTxManager(store),
			close:        func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Storage.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Database migrations applied")
	}

	txOpts := []txmanager.Option{
		txmanager.WithMaxRetries(cfg.Reservations.TxMaxRetries),
		txmanager.WithBaseBackoff(time.Duration(cfg.Reservations.TxBaseBackoffMs) * time.Millisecond),
		txmanager.WithRetryObserver(m),
	}

	stopMetricsCh := make(chan struct{})
	var (
		executor dbmetrics.DBExecutor
		beginner dbmetrics.TxBeginner
	)
	if cfg.Metrics.Enabled {
		wrapped := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopMetricsCh)
		executor, beginner = wrapped, wrapped
		log.Info("Database metrics collection started")
	} else {
		plain := dbmetrics.NewPlainDB(db)
		executor, beginner = plain, plain
	}

	return &storage{
		reservations: reservation.NewRepository(executor),
		capacity:     capacity.NewRepository(executor),
		tx:           txmanager.NewTransactionManager(beginner, txOpts...),
		close: func() {
			close(stopMetricsCh)
			_ = db.Close()
		},
	}, nil
}
