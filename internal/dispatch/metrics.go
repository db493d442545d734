package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeRectangle = "rectangle"
	outcomeCorrected = "corrected"
	outcomeFallback  = "fallback"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quadcrop_dispatch_total",
			Help: "Total number of crop dispatches by outcome",
		},
		[]string{"outcome"}, // rectangle, corrected, fallback
	)

	correctionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quadcrop_correction_duration_seconds",
			Help:    "Perspective correction duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

func observeDispatch(outcome string, took time.Duration) {
	dispatchTotal.WithLabelValues(outcome).Inc()
	if outcome != outcomeRectangle {
		correctionDuration.Observe(took.Seconds())
	}
}
