// Package metrics collects and exposes Prometheus metrics for the
// content-trust engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts moderation decisions and mood analyses.
type Collector struct {
	decisionsAllowed prometheus.Counter
	decisionsBlocked *prometheus.CounterVec
	moodAnalyses     *prometheus.CounterVec
	scorerAttempts   prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		decisionsAllowed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evermind_moderation_allowed_total",
			Help: "Actions the moderation gate allowed.",
		}),
		decisionsBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evermind_moderation_blocked_total",
			Help: "Actions the moderation gate blocked, by reason.",
		}, []string{"reason"}),
		moodAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evermind_mood_analyses_total",
			Help: "Mood analyses produced, by source.",
		}, []string{"source"}),
		scorerAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evermind_scorer_attempts",
			Help:    "External scorer attempts consumed per analysis.",
			Buckets: []float64{1, 2, 3},
		}),
	}

	reg.MustRegister(
		c.decisionsAllowed,
		c.decisionsBlocked,
		c.moodAnalyses,
		c.scorerAttempts,
	)
	return c
}

// RecordDecision counts one moderation gate verdict.
func (c *Collector) RecordDecision(blocked bool, reason string) {
	if blocked {
		c.decisionsBlocked.WithLabelValues(reason).Inc()
		return
	}
	c.decisionsAllowed.Inc()
}

// RecordMoodAnalysis counts one produced analysis and the attempts it took.
func (c *Collector) RecordMoodAnalysis(source string, attempts int) {
	c.moodAnalyses.WithLabelValues(source).Inc()
	c.scorerAttempts.Observe(float64(attempts))
}

// Handler serves the registry over HTTP for Prometheus scrapes.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
