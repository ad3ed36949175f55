package metrics

import (
	"time"

	"veritas-hq/veritas/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Calculation outcomes reported to RecordCalculation.
const (
	OutcomeProved   = "proved"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// VeritasMetrics tracks calculation and verification metrics.
//
// Metrics:
//   - veritas_calculations_total: Total calculation requests by outcome
//   - veritas_calculation_steps: Steps per successful calculation
//   - veritas_calculation_duration_seconds: Calculation duration
//   - veritas_verifications_total: Total proof verifications by validity
//   - veritas_classifications_total: Total classifications by detected format
type VeritasMetrics struct {
	// Total calculation requests by outcome
	calculationsTotal *prometheus.CounterVec

	// Steps per successful calculation
	calculationSteps prometheus.Histogram

	// Calculation duration histogram
	calculationDuration prometheus.Histogram

	// Proof verifications by validity ("valid", "invalid")
	verificationsTotal *prometheus.CounterVec

	// Classifications by detected format
	classificationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewVeritasMetrics creates and registers the Veritas metrics with the
// provided registry.
func NewVeritasMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *VeritasMetrics {
	vm := &VeritasMetrics{
		calculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "calculations_total",
				Help:      "Total number of calculation requests",
			},
			[]string{"outcome"},
		),

		calculationSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "calculation_steps",
				Help:      "Number of computation steps per successful calculation",
				// Expressions are capped at 50 operations
				Buckets: prometheus.ExponentialBuckets(1, 2, 7), // 1 to 64
			},
		),

		calculationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "calculation_duration_seconds",
				Help:      "Duration of expression evaluation and proof generation in seconds",
				// Evaluations should be fast (< 10ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),

		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "verifications_total",
				Help:      "Total number of proof verifications",
			},
			[]string{"validity"},
		),

		classificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "classifications_total",
				Help:      "Total number of content classifications",
			},
			[]string{"format"},
		),

		registry: registry,
	}

	registry.MustRegister(
		vm.calculationsTotal,
		vm.calculationSteps,
		vm.calculationDuration,
		vm.verificationsTotal,
		vm.classificationsTotal,
	)

	return vm
}

// RecordCalculation records one calculation request.
//
// Parameters:
//   - outcome: OutcomeProved, OutcomeRejected, or OutcomeFailed
//   - steps: Number of computation steps (0 for rejected or failed requests)
//   - duration: Time spent evaluating and proving
//
// Example:
//
//	vm.RecordCalculation(metrics.OutcomeProved, 12, 350*time.Microsecond)
func (vm *VeritasMetrics) RecordCalculation(outcome string, steps int, duration time.Duration) {
	vm.calculationsTotal.WithLabelValues(outcome).Inc()
	vm.calculationDuration.Observe(duration.Seconds())
	if outcome == OutcomeProved {
		vm.calculationSteps.Observe(float64(steps))
	}
}

// RecordVerification records one proof verification.
//
// Parameters:
//   - valid: Whether the proof verified cleanly
func (vm *VeritasMetrics) RecordVerification(valid bool) {
	validity := "invalid"
	if valid {
		validity = "valid"
	}
	vm.verificationsTotal.WithLabelValues(validity).Inc()
}

// RecordClassification records one content classification.
//
// Parameters:
//   - format: Detected typesetting format name
func (vm *VeritasMetrics) RecordClassification(format string) {
	vm.classificationsTotal.WithLabelValues(format).Inc()
}
