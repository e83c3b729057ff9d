// Package metrics expone las métricas Prometheus de la API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de una decisión de autorización.
const (
	ResultAllow = "allow"
	ResultDeny  = "deny"
)

// Metrics colectores de la aplicación sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	authzDecisions  *prometheus.CounterVec
	roleCache       *prometheus.CounterVec
	auditEntries    *prometheus.CounterVec
}

// New crea y registra los colectores. Cada instancia tiene su registro, así los
// tests pueden crear varias sin colisiones.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contratos_http_requests_total",
				Help: "Total de peticiones HTTP por ruta, método y status",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contratos_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		activeRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "contratos_http_active_requests",
				Help: "Peticiones en curso",
			},
		),
		authzDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contratos_authz_decisions_total",
				Help: "Decisiones de autorización por tabla, operación y resultado",
			},
			[]string{"table", "operation", "result"},
		),
		roleCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contratos_role_cache_lookups_total",
				Help: "Consultas a la caché de roles (hit/miss/error)",
			},
			[]string{"result"},
		),
		auditEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contratos_audit_entries_total",
				Help: "Entradas escritas en el log de auditoría por tabla y acción",
			},
			[]string{"table", "action"},
		),
	}
}

// Registry registro subyacente (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler http.Handler que sirve /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RequestStarted registra el inicio de una petición.
func (m *Metrics) RequestStarted() {
	m.activeRequests.Inc()
}

// RequestCompleted registra la conclusión de una petición.
func (m *Metrics) RequestCompleted(path, method, status string, duration time.Duration) {
	m.requestCounter.WithLabelValues(path, method, status).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
	m.activeRequests.Dec()
}

// AuthzDecision cuenta una decisión de autorización.
func (m *Metrics) AuthzDecision(table, operation string, allowed bool) {
	result := ResultDeny
	if allowed {
		result = ResultAllow
	}
	m.authzDecisions.WithLabelValues(table, operation, result).Inc()
}

// RoleCacheLookup cuenta una consulta a la caché de roles: "hit", "miss" o "error".
func (m *Metrics) RoleCacheLookup(result string) {
	m.roleCache.WithLabelValues(result).Inc()
}

// AuditEntry cuenta una entrada de auditoría escrita.
func (m *Metrics) AuditEntry(table, action string) {
	m.auditEntries.WithLabelValues(table, action).Inc()
}
