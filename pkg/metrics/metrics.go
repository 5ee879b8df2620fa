package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ValidationChecks.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
)

var (
	// ValidationChecks counts validator invocations by check name and result (ok|invalid).
	ValidationChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expkit_validation_checks_total",
			Help: "Total number of input validation checks",
		},
		[]string{"check", "result"},
	)

	// ParamGridsGenerated observes how many normalized grids each CheckParamGrids call yields.
	ParamGridsGenerated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expkit_param_grids_generated",
			Help:    "Number of normalized parameter grids produced per call",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)
)

// ObserveCheck records the outcome of a single validation check.
func ObserveCheck(check string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultInvalid
	}
	ValidationChecks.WithLabelValues(check, result).Inc()
}

// WriteTextfile dumps the default gatherer in the node-exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
