package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты валидации для метки result.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInternal = "internal"
	ResultTimeout  = "timeout"
)

// Metrics — Prometheus метрики сервиса.
//
// Все методы безопасны для nil-получателя: без метрик сервис работает так же.
type Metrics struct {
	validations        *prometheus.CounterVec
	validationDuration prometheus.Histogram
	lookups            *prometheus.CounterVec
	lookupDuration     prometheus.Histogram
	httpRequests       *prometheus.CounterVec
}

// NewMetrics регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataflow_task_validations_total",
			Help: "Total task validation requests by result",
		}, []string{"result"}),
		validationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataflow_task_validation_duration_seconds",
			Help:    "Duration of task validation requests",
			Buckets: prometheus.DefBuckets,
		}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataflow_app_lookups_total",
			Help: "Total application registry lookups by registration state",
		}, []string{"state"}),
		lookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataflow_app_lookup_duration_seconds",
			Help:    "Duration of application registry lookups",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataflow_api_http_requests_total",
			Help: "Total HTTP requests handled by dataflow-api",
		}, []string{"method", "status"}),
	}
}

// ObserveValidation учитывает завершённую валидацию.
func (m *Metrics) ObserveValidation(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(result).Inc()
	m.validationDuration.Observe(d.Seconds())
}

// ObserveLookup учитывает один запрос к реестру.
// state — состояние регистрации или "error".
func (m *Metrics) ObserveLookup(state string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(state).Inc()
	m.lookupDuration.Observe(d.Seconds())
}

// ObserveHTTPRequest учитывает HTTP-запрос.
func (m *Metrics) ObserveHTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
