package config

import "time"

// Config is the root configuration for Veritas.
type Config struct {
	// Evaluator contains expression evaluation limits.
	Evaluator EvaluatorConfig `yaml:"evaluator"`

	// Proofs contains proof storage and retention configuration.
	Proofs ProofsConfig `yaml:"proofs"`

	// Traces contains thought trace storage configuration.
	Traces TracesConfig `yaml:"traces"`

	// Classifier contains typesetting classifier configuration.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EvaluatorConfig bounds expression evaluation. All limits are hard
// rejections, not truncations.
type EvaluatorConfig struct {
	// MaxExpressionLength is the maximum expression length in bytes.
	// Default: 1000
	MaxExpressionLength int `yaml:"max_expression_length"`

	// MaxOperations is the maximum number of operations per expression.
	// Default: 50
	MaxOperations int `yaml:"max_operations"`

	// MaxVariables is the maximum number of bound variables per request.
	// Default: 200
	MaxVariables int `yaml:"max_variables"`
}

// ProofsConfig contains proof storage configuration.
type ProofsConfig struct {
	// Backend selects the storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains proof retention settings.
	Retention RetentionConfig `yaml:"retention"`

	// Export contains proof export settings.
	Export ExportConfig `yaml:"export"`
}

// SQLiteConfig contains SQLite database settings.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`
}

// RetentionConfig controls automatic proof pruning. Verification audit
// records are never pruned.
type RetentionConfig struct {
	// Days is the proof retention period in days. 0 disables age-based
	// pruning.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is the cron schedule for the pruning job.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// Archive controls whether proofs are exported to JSON before
	// deletion.
	// Default: false
	Archive bool `yaml:"archive"`

	// ArchivePath is the directory archives are written to. Required when
	// Archive is true.
	ArchivePath string `yaml:"archive_path"`

	// MaxProofs caps the total number of stored proofs. 0 disables
	// count-based pruning.
	// Default: 0
	MaxProofs int64 `yaml:"max_proofs"`
}

// ExportConfig contains proof export settings.
type ExportConfig struct {
	// JSONPretty enables indented JSON output.
	// Default: true
	JSONPretty bool `yaml:"json_pretty"`
}

// TracesConfig contains thought trace storage configuration.
type TracesConfig struct {
	// Backend selects the storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific settings.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// ClassifierConfig contains typesetting classifier configuration.
type ClassifierConfig struct {
	// RegistryPath is an optional YAML file of format registry overrides.
	// Empty uses the built-in registry.
	RegistryPath string `yaml:"registry_path"`

	// Watch enables hot-reloading of the registry file.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a registry reload.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Weights tune the complexity score.
	Weights WeightsConfig `yaml:"weights"`
}

// WeightsConfig holds the complexity score weights. Zero values fall back
// to the built-in defaults.
type WeightsConfig struct {
	// Equation is the per-equation weight.
	// Default: 0.15
	Equation float64 `yaml:"equation"`

	// Symbol is the per-special-symbol weight.
	// Default: 0.02
	Symbol float64 `yaml:"symbol"`

	// Length is the per-byte weight.
	// Default: 0.0005
	Length float64 `yaml:"length"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "veritas"
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary metric name prefix.
	// Default: ""
	Subsystem string `yaml:"subsystem"`
}
