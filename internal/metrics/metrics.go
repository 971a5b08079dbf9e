// Package metrics holds the Prometheus collectors of the pipeline and the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline collects pipeline, loader and session metrics
type Pipeline struct {
	runs           prometheus.Counter
	runDuration    prometheus.Histogram
	unavailable    *prometheus.CounterVec
	filteredRows   prometheus.Histogram
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	sessions       prometheus.Gauge
	recomputations prometheus.Counter
}

// NewPipeline creates the collectors and registers them with the default registerer
func NewPipeline() *Pipeline {
	return NewPipelineWithRegistry(prometheus.DefaultRegisterer)
}

// NewPipelineWithRegistry creates the collectors and registers them with registerer.
// A nil registerer leaves them unregistered.
func NewPipelineWithRegistry(registerer prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gonomo_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gonomo_pipeline_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		unavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gonomo_unavailable_computations_total",
			Help: "Computations skipped for missing columns or insufficient data, by kind",
		}, []string{"kind"}),
		filteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gonomo_filtered_rows",
			Help:    "Rows retained by the filter per pipeline run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gonomo_source_loads_total",
			Help: "Dataset loads by outcome (loaded, cached, failed)",
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "gonomo_source_load_duration_seconds",
			Help: "Dataset parse duration in seconds",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gonomo_sessions_active",
			Help: "Number of open dashboard sessions",
		}),
		recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gonomo_session_recomputations_total",
			Help: "Session results recomputed because filters or the dataset changed",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(p.runs)
		registerer.MustRegister(p.runDuration)
		registerer.MustRegister(p.unavailable)
		registerer.MustRegister(p.filteredRows)
		registerer.MustRegister(p.loads)
		registerer.MustRegister(p.loadDuration)
		registerer.MustRegister(p.sessions)
		registerer.MustRegister(p.recomputations)
	}

	return p
}

// ObserveRun records one pipeline run
func (p *Pipeline) ObserveRun(d time.Duration, rows int) {
	if p == nil {
		return
	}
	p.runs.Inc()
	p.runDuration.Observe(d.Seconds())
	p.filteredRows.Observe(float64(rows))
}

// Unavailable counts a skipped computation of the given kind
func (p *Pipeline) Unavailable(kind string) {
	if p == nil {
		return
	}
	p.unavailable.WithLabelValues(kind).Inc()
}

// ObserveLoad records a dataset load. outcome is "loaded", "cached" or "failed".
func (p *Pipeline) ObserveLoad(outcome string, d time.Duration) {
	if p == nil {
		return
	}
	p.loads.WithLabelValues(outcome).Inc()
	if outcome == "loaded" {
		p.loadDuration.Observe(d.Seconds())
	}
}

// SetSessions sets the number of open sessions
func (p *Pipeline) SetSessions(n int) {
	if p == nil {
		return
	}
	p.sessions.Set(float64(n))
}

// Recomputed counts a session whose cached results were discarded
func (p *Pipeline) Recomputed() {
	if p == nil {
		return
	}
	p.recomputations.Inc()
}
