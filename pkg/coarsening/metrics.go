package coarsening

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/gilchrisn/graph-coarsening/pkg/coarsening")

var (
	// levelsTotal counts coarsening levels by kind
	levelsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coarsening_levels_total",
		Help: "Total coarsening levels by kind",
	}, []string{"kind"})

	// levelDuration tracks the time spent per level
	levelDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coarsening_level_duration_seconds",
		Help:    "Coarsening level duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 18), // 0.1ms to ~13s
	})

	// contractionRate tracks finer/coarser node ratios
	contractionRate = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coarsening_contraction_rate",
		Help:    "Ratio of finer to coarser nodes per level",
		Buckets: []float64{1, 1.1, 1.25, 1.5, 1.75, 2, 3, 5, 10, 100},
	})

	// runErrors counts aborted runs by stage
	runErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coarsening_errors_total",
		Help: "Total aborted coarsening runs by stage",
	}, []string{"stage"})
)
