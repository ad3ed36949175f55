// Package telemetry groups the observability packages for Veritas.
//
// # Components
//
//   - logging: structured slog logging and request-scoped context fields
//   - metrics: Prometheus collectors for calculations, verifications and
//     classifications
//
// The subpackages are wired independently; there is no combined telemetry
// object. Components take what they need: a logger derived from
// slog.Default and, optionally, a metrics collector.
package telemetry
