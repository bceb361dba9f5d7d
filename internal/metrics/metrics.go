// Package metrics exposes Prometheus collectors for model calls, the lesson cache and rendering.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Model request kinds.
const (
	KindLesson = "lesson"
	KindChat   = "chat"
)

// Outcomes of a model request.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	modelRequests *prometheus.CounterVec
	modelLatency  *prometheus.HistogramVec
	lessonCache   *prometheus.CounterVec
	renderBlocks  *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		modelRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_model_requests_total",
				Help: "Total number of model requests",
			},
			[]string{"kind", "outcome"},
		),
		modelLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mentor_model_request_seconds",
				Help:    "Duration of model requests",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		lessonCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_lesson_cache_total",
				Help: "Lesson cache lookups by result",
			},
			[]string{"result"},
		),
		renderBlocks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mentor_render_blocks_total",
				Help: "Rendered blocks by kind",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.modelRequests, m.modelLatency, m.lessonCache, m.renderBlocks)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveModel records one model request.
func (m *Metrics) ObserveModel(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.modelRequests.WithLabelValues(kind, outcome).Inc()
	m.modelLatency.WithLabelValues(kind).Observe(d.Seconds())
}

// LessonCache records a cache lookup; hit is false on a miss.
func (m *Metrics) LessonCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lessonCache.WithLabelValues(result).Inc()
}

// RenderedBlock counts one rendered block of the given kind.
func (m *Metrics) RenderedBlock(kind string) {
	if m == nil {
		return
	}
	m.renderBlocks.WithLabelValues(kind).Inc()
}
