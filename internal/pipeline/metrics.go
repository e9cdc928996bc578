package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts stage outcomes for a batch. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
	matches  prometheus.Counter
}

// NewMetrics creates metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ftcvideo_stage_outcomes_total",
			Help: "Stage results by stage and outcome",
		}, []string{"stage", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ftcvideo_stage_duration_seconds",
			Help:    "Time spent in stages that invoked the engine",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"stage"}),
		matches: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftcvideo_matches_total",
			Help: "Matches processed",
		}),
	}
}

// Observe records every stage of a finished match
func (m *Metrics) Observe(r *MatchResult) {
	if m == nil {
		return
	}
	m.matches.Inc()
	for _, sr := range r.Results {
		m.outcomes.WithLabelValues(string(sr.Stage), sr.Outcome.String()).Inc()
		if sr.Outcome == Produced || sr.Outcome == Failed {
			m.duration.WithLabelValues(string(sr.Stage)).Observe(sr.Elapsed.Seconds())
		}
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
