package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spa_booking"

// Metrics коллектор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках компоненты получают nil.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	backendDuration     *prometheus.HistogramVec
	availabilityDropped *prometheus.CounterVec
	supersededFetches   *prometheus.CounterVec
	mirrorOperations    *prometheus.CounterVec
	dbQueryDuration     *prometheus.HistogramVec
}

// New создает коллектор и регистрирует его в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает коллектор с собственным регистратором (используется в тестах)
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests handled by the session API",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Latency of session API requests",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "backend",
			Name:        "request_duration_seconds",
			Help:        "Latency of calls to the spa backend API",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		availabilityDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "availability",
			Name:        "dropped_records_total",
			Help:        "Malformed availability records skipped by the aggregator",
			ConstLabels: labels,
		}, []string{"reason"}),
		supersededFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "selection",
			Name:        "superseded_fetches_total",
			Help:        "Fetch results discarded because the selection changed meanwhile",
			ConstLabels: labels,
		}, []string{"stage"}),
		mirrorOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "calendar_mirror",
			Name:        "operations_total",
			Help:        "Calendar mirror operations by outcome",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Latency of local appointment store queries",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.backendDuration,
		m.availabilityDropped,
		m.supersededFetches,
		m.mirrorOperations,
		m.dbQueryDuration,
	)
	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveBackendCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.backendDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDroppedRecord(reason string) {
	if m == nil {
		return
	}
	m.availabilityDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveSupersededFetch(stage string) {
	if m == nil {
		return
	}
	m.supersededFetches.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveMirrorOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mirrorOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}
