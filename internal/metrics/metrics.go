// Package metrics exposes Prometheus instruments for adaptive decisions.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the application's collectors and their registry.
type Recorder struct {
	registry      *prometheus.Registry
	decisions     *prometheus.CounterVec
	timeRatio     prometheus.Histogram
	lockConflicts prometheus.Counter
}

// NewRecorder registers all collectors on a fresh registry, together with
// the Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adaptive_level_decisions_total",
			Help: "Level decisions by outcome and the rule that produced them (0 = no rule).",
		}, []string{"change", "rule"}),
		timeRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adaptive_answer_time_ratio",
			Help:    "Answer time as a percentage of the question's median time.",
			Buckets: []float64{25, 50, 70, 90, 110, 150, 200, 300},
		}),
		lockConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adaptive_answer_conflicts_total",
			Help: "Answer submissions rejected because the session was busy or changed.",
		}),
	}

	r.registry.MustRegister(
		r.decisions,
		r.timeRatio,
		r.lockConflicts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveDecision counts one level decision.
func (r *Recorder) ObserveDecision(change string, ruleID int) {
	r.decisions.WithLabelValues(change, strconv.Itoa(ruleID)).Inc()
}

// ObserveTimeRatio records a time ratio. Undefined ratios are skipped.
func (r *Recorder) ObserveTimeRatio(ratio float64, ok bool) {
	if ok {
		r.timeRatio.Observe(ratio)
	}
}

// ObserveConflict counts one rejected concurrent submission.
func (r *Recorder) ObserveConflict() {
	r.lockConflicts.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
