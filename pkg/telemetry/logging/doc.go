// Package logging configures structured logging for Veritas.
//
// The package builds slog loggers from configuration (level and format)
// and provides context helpers for carrying request-scoped identifiers
// into log fields.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// Components derive their own loggers with a component field:
//
//	logger := slog.Default().With("component", "proof.generator")
package logging
