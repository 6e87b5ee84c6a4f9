package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics for the WPS pipeline. Each Registry
// owns its own collector registry so independent instances never collide.
type Registry struct {
	prom *prometheus.Registry

	ValidationRunsTotal     *prometheus.CounterVec
	SIFFilesGeneratedTotal  prometheus.Counter
	SubmissionAttemptsTotal *prometheus.CounterVec
	SubmissionDuration      prometheus.Histogram
}

// NewRegistry initializes and registers all pipeline metrics.
func NewRegistry() *Registry {
	prom := prometheus.NewRegistry()
	prom.MustRegister(collectors.NewGoCollector())
	prom.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(prom)

	return &Registry{
		prom: prom,
		ValidationRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wps_validation_runs_total",
				Help: "Validation engine runs by resulting status",
			},
			[]string{"status"},
		),
		SIFFilesGeneratedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "wps_sif_files_generated_total",
				Help: "SIF files successfully encoded",
			},
		),
		SubmissionAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wps_submission_attempts_total",
				Help: "Bank transmission attempts by protocol and outcome",
			},
			[]string{"protocol", "outcome"},
		),
		SubmissionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wps_submission_duration_seconds",
				Help:    "Connector transmission latency in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
	}
}

// Handler serves this registry's metrics in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{})
}
