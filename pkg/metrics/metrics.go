package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio en un registro propio (no el global),
// así cada instancia de la app (y cada test) registra los suyos sin colisiones.
type Metrics struct {
	registry    *prometheus.Registry
	inFlight    prometheus.Gauge
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// New crea y registra los collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendor_status_transitions_total",
			Help: "Vendor status transitions committed, by old and new status.",
		}, []string{"from", "to"}),
	}
	m.registry.MustRegister(
		m.inFlight, m.requests, m.duration, m.transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RequestStarted / RequestFinished mantienen el gauge de peticiones en vuelo.
func (m *Metrics) RequestStarted()  { m.inFlight.Inc() }
func (m *Metrics) RequestFinished() { m.inFlight.Dec() }

// ObserveRequest registra una petición terminada. path debe ser la plantilla de la ruta.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(method, path, code).Inc()
	m.duration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// RecordTransition cuenta un cambio de estado de vendedor confirmado.
func (m *Metrics) RecordTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}
