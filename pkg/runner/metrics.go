package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m8s_command_duration_seconds",
			Help:    "Duration of external commands in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"program"},
	)

	commandTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m8s_command_total",
			Help: "Total number of external commands run",
		},
		[]string{"program", "status"}, // success, error or dry_run
	)
)
