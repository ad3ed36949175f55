package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// The handler exposes all metrics registered on the injected registry in
// the standard Prometheus exposition format. Mount it at the path from
// MetricsConfig (typically "/metrics").
//
// Example:
//
//	vm := metrics.NewVeritasMetrics(cfg, registry)
//	http.Handle("/metrics", vm.Handler())
func (vm *VeritasMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		vm.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
