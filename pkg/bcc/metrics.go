package bcc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// oracleCalls counts oracle invocations by variant and outcome
	oracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bcc_oracle_calls_total",
		Help: "Total clustering oracle calls by variant and outcome",
	}, []string{"variant", "outcome"})

	// oracleDuration tracks oracle latency
	oracleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bcc_oracle_duration_seconds",
		Help:    "Clustering oracle call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
	})

	// oracleModularity holds the last reported modularity
	oracleModularity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bcc_oracle_modularity",
		Help: "Modularity reported by the last successful oracle call",
	})
)

const (
	outcomeSuccess  = "success"
	outcomeError    = "error"
	outcomeContract = "contract_violation"
	outcomeMismatch = "modularity_mismatch"
)
