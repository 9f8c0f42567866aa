package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m8s_unit_duration_seconds",
			Help:    "Duration of unit execution in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"type"},
	)

	unitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m8s_unit_total",
			Help: "Total number of units executed",
		},
		[]string{"type", "status"}, // success or error
	)
)
