package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proofs.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateEvaluator(&cfg.Evaluator)...)
	errs = append(errs, validateProofs(&cfg.Proofs)...)
	errs = append(errs, validateTraces(&cfg.Traces)...)
	errs = append(errs, validateClassifier(&cfg.Classifier)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateEvaluator(cfg *EvaluatorConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxExpressionLength < 1 {
		errs = append(errs, FieldError{
			Field:   "evaluator.max_expression_length",
			Message: "must be at least 1",
		})
	}
	if cfg.MaxOperations < 1 {
		errs = append(errs, FieldError{
			Field:   "evaluator.max_operations",
			Message: "must be at least 1",
		})
	}
	if cfg.MaxVariables < 0 {
		errs = append(errs, FieldError{
			Field:   "evaluator.max_variables",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateProofs(cfg *ProofsConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "proofs.backend",
			Message: fmt.Sprintf("unknown backend %q (must be \"sqlite\" or \"memory\")", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "proofs.sqlite.path",
			Message: "is required for the sqlite backend",
		})
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "proofs.retention.days",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.MaxProofs < 0 {
		errs = append(errs, FieldError{
			Field:   "proofs.retention.max_proofs",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "proofs.retention.schedule",
				Message: fmt.Sprintf("invalid cron schedule: %v", err),
			})
		}
	}
	if cfg.Retention.Archive && cfg.Retention.ArchivePath == "" {
		errs = append(errs, FieldError{
			Field:   "proofs.retention.archive_path",
			Message: "is required when archiving is enabled",
		})
	}

	return errs
}

func validateTraces(cfg *TracesConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "traces.backend",
			Message: fmt.Sprintf("unknown backend %q (must be \"sqlite\" or \"memory\")", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "traces.sqlite.path",
			Message: "is required for the sqlite backend",
		})
	}

	return errs
}

func validateClassifier(cfg *ClassifierConfig) []FieldError {
	var errs []FieldError

	if cfg.Watch && cfg.RegistryPath == "" {
		errs = append(errs, FieldError{
			Field:   "classifier.registry_path",
			Message: "is required when watch is enabled",
		})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "classifier.debounce_interval",
			Message: "must not be negative",
		})
	}
	for _, w := range []struct {
		field string
		value float64
	}{
		{"classifier.weights.equation", cfg.Weights.Equation},
		{"classifier.weights.symbol", cfg.Weights.Symbol},
		{"classifier.weights.length", cfg.Weights.Length},
	} {
		if w.value < 0 {
			errs = append(errs, FieldError{
				Field:   w.field,
				Message: "must not be negative",
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "must start with /",
		})
	}

	return errs
}
