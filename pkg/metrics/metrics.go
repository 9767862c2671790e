package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smc"

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// База данных
	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBConnections    *prometheus.GaugeVec
	DBTxRetriesTotal *prometheus.CounterVec

	// Бизнес-метрики
	AdmissionsTotal  *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном registry (используется в тестах)
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distribution",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
			[]string{"service"},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query latency distribution",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "operation"},
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_query_errors_total",
				Help:      "Total number of failed database queries",
			},
			[]string{"service", "operation"},
		),
		DBConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections",
				Help:      "Database connection pool state",
			},
			[]string{"service", "state"},
		),
		DBTxRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_tx_retries_total",
				Help:      "Total number of serializable transaction retries",
			},
			[]string{"service"},
		),

		AdmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_admissions_total",
				Help:      "Reservation admission attempts by outcome",
			},
			[]string{"service", "outcome"},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reservation_transitions_total",
				Help:      "Reservation status transitions",
			},
			[]string{"service", "transition"},
		),
	}
}

// ServiceName возвращает имя сервиса, которым помечаются метрики
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// RecordAdmission учитывает результат попытки бронирования
func (m *Metrics) RecordAdmission(outcome string) {
	m.AdmissionsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}

// RecordTransition учитывает переход статуса бронирования
func (m *Metrics) RecordTransition(transition string) {
	m.TransitionsTotal.WithLabelValues(m.serviceName, transition).Inc()
}

// RecordTxRetry учитывает повтор транзакции после конфликта сериализации
func (m *Metrics) RecordTxRetry() {
	m.DBTxRetriesTotal.WithLabelValues(m.serviceName).Inc()
}
