package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tuneRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecud_tune_requests_total",
		Help: "Tuning requests processed, by response status.",
	}, []string{"status"})

	tuneDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecud_tune_duration_seconds",
		Help:    "Wall-clock time spent processing one tuning request.",
		Buckets: prometheus.DefBuckets,
	})

	tuneCyclesUsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecud_tune_cycles_used",
		Help:    "Search cycles consumed per completed tuning request.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	tunePeakGain = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecud_tune_peak_gain_ratio",
		Help:    "Estimated peak gain ratio of accepted proposals.",
		Buckets: prometheus.LinearBuckets(0, 0.005, 10),
	})
)
