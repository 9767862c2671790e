package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminListReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/admin_list_reservations"
	adminReservationActionHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/admin_reservation_action"
	blockedDatesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/blocked_dates"
	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	dailyOverridesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/daily_overrides"
	getCalendarHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_calendar"
	getDateStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_date_status"
	getOrganizationReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_organization_reservations"
	getQuotaHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_quota"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	listReferenceHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_reference"
	monthlySettingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/monthly_settings"
	setTierWindowHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/set_tier_window"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	membershipClient "github.com/m04kA/SMC-ReservationService/internal/integrations/membership"
	availabilityService "github.com/m04kA/SMC-ReservationService/internal/service/availability"
	lifecycleService "github.com/m04kA/SMC-ReservationService/internal/service/lifecycle"
	quotaService "github.com/m04kA/SMC-ReservationService/internal/service/quota"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	tierPolicyService "github.com/m04kA/SMC-ReservationService/internal/service/tierpolicy"
	admitReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/admit_reservation"
	getMonthCalendarUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_month_calendar"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	// Счётчики допуска и переходов нужны сервисам всегда; при выключенных метриках
	// они пишутся в отдельный реестр, который никто не публикует
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector = metrics.NewWithRegisterer(prometheus.NewRegistry(), cfg.Metrics.ServiceName)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Интеграции
	membership := membershipClient.NewClient(
		cfg.MembershipService.URL,
		time.Duration(cfg.MembershipService.Timeout)*time.Second,
		cfg.MembershipService.MaxRetries,
		log,
	)
	log.Info("Membership client initialized (url=%s timeout=%ds retries=%d)",
		cfg.MembershipService.URL, cfg.MembershipService.Timeout, cfg.MembershipService.MaxRetries)

	// Сервисы
	tierPolicySvc := tierPolicyService.NewService(store.capacity, log)
	quotaSvc := quotaService.NewService(store.reservations, store.capacity, log)
	availabilitySvc := availabilityService.NewService(store.reservations, store.capacity, log)
	lifecycleSvc := lifecycleService.NewService(store.reservations, store.tx, metricsCollector, log)
	settingsSvc := settingsService.NewService(store.capacity, store.tx, log)

	// Use cases
	admitReservationUseCase := admitReservationUC.NewUseCase(
		store.reservations,
		store.capacity,
		tierPolicySvc,
		quotaSvc,
		availabilitySvc,
		store.tx,
		metricsCollector,
		log,
	)
	getMonthCalendarUseCase := getMonthCalendarUC.NewUseCase(
		availabilitySvc,
		tierPolicySvc,
		quotaSvc,
		log,
	)

	// Handlers
	listReference := listReferenceHandler.NewHandler(settingsSvc, log)
	getDateStatus := getDateStatusHandler.NewHandler(availabilitySvc, log)
	getCalendar := getCalendarHandler.NewHandler(getMonthCalendarUseCase, log)
	getQuota := getQuotaHandler.NewHandler(quotaSvc, log)
	createReservation := createReservationHandler.NewHandler(admitReservationUseCase, membership, log)
	getReservation := getReservationHandler.NewHandler(lifecycleSvc, log)
	getOrganizationReservations := getOrganizationReservationsHandler.NewHandler(lifecycleSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(lifecycleSvc, log)
	adminReservationAction := adminReservationActionHandler.NewHandler(lifecycleSvc, log)
	adminListReservations := adminListReservationsHandler.NewHandler(lifecycleSvc, log)
	setTierWindow := setTierWindowHandler.NewHandler(settingsSvc, log)
	monthlySettings := monthlySettingsHandler.NewHandler(settingsSvc, log)
	dailyOverrides := dailyOverridesHandler.NewHandler(settingsSvc, log)
	blockedDates := blockedDatesHandler.NewHandler(settingsSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (справочники)
	// ============================================================

	api.HandleFunc("/regions", listReference.HandleRegions).Methods(http.MethodGet)
	api.HandleFunc("/tiers", listReference.HandleTiers).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID, организация в X-Organization-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Доступность ---
	protected.HandleFunc("/regions/{regionId}/dates/{date}/status", getDateStatus.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/regions/{regionId}/calendar", getCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/organizations/{organizationId}/quota", getQuota.Handle).Methods(http.MethodGet)

	// --- Бронирования организации ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel-request", cancelReservation.HandleRequest).Methods(http.MethodPatch)
	protected.HandleFunc("/organizations/{organizationId}/reservations", getOrganizationReservations.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/reservations/{reservationId}/{action}", adminReservationAction.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/regions/{regionId}/reservations", adminListReservations.Handle).Methods(http.MethodGet)

	admin.HandleFunc("/regions/{regionId}/tier-windows/{year}/{month}/{tier}", setTierWindow.Handle).Methods(http.MethodPut)

	admin.HandleFunc("/regions/{regionId}/settings/{year}/{month}", monthlySettings.HandleGet).Methods(http.MethodGet)
	admin.HandleFunc("/regions/{regionId}/settings/{year}/{month}", monthlySettings.HandleUpdate).Methods(http.MethodPut)

	admin.HandleFunc("/regions/{regionId}/overrides", dailyOverrides.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/regions/{regionId}/overrides/{date}", dailyOverrides.HandleSet).Methods(http.MethodPut)
	admin.HandleFunc("/regions/{regionId}/overrides/{date}", dailyOverrides.HandleDelete).Methods(http.MethodDelete)

	admin.HandleFunc("/regions/{regionId}/blocked-dates", blockedDates.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/regions/{regionId}/blocked-dates/{date}", blockedDates.HandleBlock).Methods(http.MethodPut)
	admin.HandleFunc("/regions/{regionId}/blocked-dates/{date}", blockedDates.HandleUnblock).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
