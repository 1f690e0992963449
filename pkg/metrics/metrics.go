package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of every HTTP handler, labelled by route
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests served",
	}, []string{"method", "path", "status"})

	// Inference jobs currently being scored by the worker
	InferenceActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inference_active_jobs",
		Help: "Inference jobs currently running",
	})

	InferenceResults = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inference_results_total",
		Help: "Total scored locations written by inference",
	})

	TrainingRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "training_runs_total",
		Help: "Training runs by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestTotal,
		InferenceActive,
		InferenceResults,
		TrainingRuns,
	)
}
