package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for batch resolution.
var (
	batchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "handbook_batches_total",
		Help: "Total batch requests processed",
	})

	codesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "handbook_codes_total",
		Help: "Subject codes resolved by result",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "handbook_fetch_duration_seconds",
		Help:    "Duration of a single fetch-and-extract",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// codesTotal label values.
const (
	resultSuccess = "success"
	resultError   = "error"
	resultCached  = "cached"
)
