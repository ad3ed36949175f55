// Package metrics provides Prometheus metrics collection for Veritas.
//
// # Overview
//
// The metrics package tracks calculation and verification activity:
// request counts by outcome, verification counts by validity, evaluation
// step counts, and evaluation latency. Collectors are registered against
// an injected prometheus.Registry so tests and embedders control the
// metric namespace.
//
// # Usage
//
//	registry := prometheus.NewRegistry()
//	vm := metrics.NewVeritasMetrics(&cfg.Telemetry.Metrics, registry)
//
//	vm.RecordCalculation("proved", 12, 350*time.Microsecond)
//	vm.RecordVerification(true)
//	vm.RecordClassification("latex")
//
//	http.Handle(cfg.Telemetry.Metrics.Path, vm.Handler())
package metrics
