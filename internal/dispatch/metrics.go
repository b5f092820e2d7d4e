package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthd_jobs_total",
		Help: "Completed generation jobs by serving provider.",
	}, []string{"provider"})

	fallbackActivations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synthd_fallback_activations_total",
		Help: "Jobs rescued by the fallback provider after a primary failure.",
	})

	persistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synthd_persistence_failures_total",
		Help: "Best-effort persistence steps that failed, by step.",
	}, []string{"step"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "synthd_generation_duration_seconds",
		Help:    "Wall-clock generation time by serving provider.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"provider"})
)
