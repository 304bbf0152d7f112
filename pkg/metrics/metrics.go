package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AppointmentTransitions *prometheus.CounterVec
	CommitConflicts        *prometheus.CounterVec
	SlotsGenerated         prometheus.Histogram
}

// New регистрирует метрики в reg. В production передаётся prometheus.DefaultRegisterer,
// в тестах - отдельный prometheus.NewRegistry().
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),

		AppointmentTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_status_transitions_total",
			Help:        "Appointment status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),

		CommitConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_commit_conflicts_total",
			Help:        "Optimistic commit conflicts observed by write operations",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		SlotsGenerated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "available_slots_generated",
			Help:        "Number of slots returned per availability request",
			Buckets:     []float64{0, 1, 4, 8, 16, 32, 64},
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveTransition фиксирует переход статуса записи. from пустой при создании.
func (m *Metrics) ObserveTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	m.AppointmentTransitions.WithLabelValues(from, to).Inc()
}

// ObserveCommitConflict фиксирует проигранную гонку оптимистичной фиксации
func (m *Metrics) ObserveCommitConflict(operation string) {
	m.CommitConflicts.WithLabelValues(operation).Inc()
}

// ObserveSlots фиксирует количество выданных слотов
func (m *Metrics) ObserveSlots(n int) {
	m.SlotsGenerated.Observe(float64(n))
}
