// Package metrics exposes widget activity as prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lazypower/widgetry/internal/calc"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	tokens        *prometheus.CounterVec
	calcErrors    prometheus.Counter
	sessions      prometheus.Gauge
	galleryEvents *prometheus.CounterVec
	playerEvents  *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

// New creates and registers the widgetry collectors along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgetry_calculator_tokens_total",
				Help: "Calculator tokens applied, by token kind.",
			},
			[]string{"kind"},
		),
		calcErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "widgetry_calculator_errors_total",
			Help: "Evaluations that produced the error display.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "widgetry_calculator_sessions",
			Help: "Calculator sessions held by the server.",
		}),
		galleryEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgetry_gallery_actions_total",
				Help: "Gallery actions, by action.",
			},
			[]string{"action"},
		),
		playerEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgetry_player_actions_total",
				Help: "Player actions, by action.",
			},
			[]string{"action"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgetry_http_requests_total",
				Help: "API requests, by method and status code.",
			},
			[]string{"method", "code"},
		),
	}
	m.registry.MustRegister(
		m.tokens, m.calcErrors, m.sessions,
		m.galleryEvents, m.playerEvents, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveToken has the calc.Observer signature.
func (m *Metrics) ObserveToken(t calc.Token, r calc.Result) {
	m.tokens.WithLabelValues(t.Kind()).Inc()
	if r.Error {
		m.calcErrors.Inc()
	}
}

// SetSessions records the number of live calculator sessions.
func (m *Metrics) SetSessions(n int) {
	m.sessions.Set(float64(n))
}

// GalleryAction counts one gallery action.
func (m *Metrics) GalleryAction(action string) {
	m.galleryEvents.WithLabelValues(action).Inc()
}

// PlayerAction counts one player action.
func (m *Metrics) PlayerAction(action string) {
	m.playerEvents.WithLabelValues(action).Inc()
}

// Instrument wraps next, counting requests by method and status code.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests, next)
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
