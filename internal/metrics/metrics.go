// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds every collector of the service. Collectors are registered
// on a dedicated registry so tests can build as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	RegistrationsTotal         *prometheus.CounterVec
	LoginsTotal                *prometheus.CounterVec
	ResetRequestsTotal         *prometheus.CounterVec
	ResetConfirmationsTotal    *prometheus.CounterVec
	NotificationsTotal         *prometheus.CounterVec
	CatalogFallbacksTotal      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_registrations_total",
				Help: "Total number of registration attempts.",
			},
			[]string{"result"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Total number of login attempts.",
			},
			[]string{"result"},
		),
		ResetRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "password_reset_requests_total",
				Help: "Password reset requests by outcome (issued, unknown_email, failure).",
			},
			[]string{"result"},
		),
		ResetConfirmationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "password_reset_confirmations_total",
				Help: "Password reset confirmations by outcome.",
			},
			[]string{"result"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_sent_total",
				Help: "Email delivery attempts per provider.",
			},
			[]string{"provider", "result"},
		),
		CatalogFallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_fallbacks_total",
				Help: "Catalog requests answered from a fallback source.",
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.RegistrationsTotal,
		m.LoginsTotal,
		m.ResetRequestsTotal,
		m.ResetConfirmationsTotal,
		m.NotificationsTotal,
		m.CatalogFallbacksTotal,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveNotification matches the notify.Dispatcher observer signature.
func (m *Metrics) ObserveNotification(provider string, err error) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(provider, result(err)).Inc()
}

// ObserveRegistration counts one registration attempt.
func (m *Metrics) ObserveRegistration(err error) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveLogin counts one sign-in attempt.
func (m *Metrics) ObserveLogin(err error) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveResetRequest counts one forgot-password request. Unknown emails
// count as success: the caller cannot tell them apart.
func (m *Metrics) ObserveResetRequest(err error) {
	if m == nil {
		return
	}
	m.ResetRequestsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveResetConfirmation counts one reset-password attempt.
func (m *Metrics) ObserveResetConfirmation(err error) {
	if m == nil {
		return
	}
	m.ResetConfirmationsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveCatalogFallback counts a catalog call served by its fallback.
func (m *Metrics) ObserveCatalogFallback(operation string) {
	if m == nil {
		return
	}
	m.CatalogFallbacksTotal.WithLabelValues(operation).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
