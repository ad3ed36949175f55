package config

import "time"

// Default values for configuration fields.
const (
	// Evaluator defaults
	DefaultMaxExpressionLength = 1000
	DefaultMaxOperations       = 50
	DefaultMaxVariables        = 200

	// Proof storage defaults
	DefaultProofsBackend     = "sqlite"
	DefaultProofsSQLitePath  = "data/proofs.db"
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultSQLiteWALMode     = true

	// Retention defaults
	DefaultRetentionDays        = 90
	DefaultRetentionSchedule    = "0 3 * * *"
	DefaultRetentionArchive     = false
	DefaultRetentionArchivePath = "data/archives/"
	DefaultRetentionMaxProofs   = int64(0)

	// Export defaults
	DefaultExportJSONPretty = true

	// Trace storage defaults
	DefaultTracesBackend    = "sqlite"
	DefaultTracesSQLitePath = "data/traces.db"

	// Classifier defaults
	DefaultClassifierDebounce = 100 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultPrometheusPath = "/metrics"
	DefaultMetricsNS      = "veritas"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Evaluator defaults
	if cfg.Evaluator.MaxExpressionLength == 0 {
		cfg.Evaluator.MaxExpressionLength = DefaultMaxExpressionLength
	}
	if cfg.Evaluator.MaxOperations == 0 {
		cfg.Evaluator.MaxOperations = DefaultMaxOperations
	}
	if cfg.Evaluator.MaxVariables == 0 {
		cfg.Evaluator.MaxVariables = DefaultMaxVariables
	}

	// Proof storage defaults
	if cfg.Proofs.Backend == "" {
		cfg.Proofs.Backend = DefaultProofsBackend
	}
	if cfg.Proofs.SQLite.Path == "" {
		cfg.Proofs.SQLite.Path = DefaultProofsSQLitePath
	}
	if cfg.Proofs.SQLite.BusyTimeout == 0 {
		cfg.Proofs.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
		cfg.Proofs.SQLite.WALMode = DefaultSQLiteWALMode
	}
	if cfg.Proofs.Retention.Days == 0 {
		cfg.Proofs.Retention.Days = DefaultRetentionDays
	}
	if cfg.Proofs.Retention.Schedule == "" {
		cfg.Proofs.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Proofs.Retention.ArchivePath == "" {
		cfg.Proofs.Retention.ArchivePath = DefaultRetentionArchivePath
	}

	// Trace storage defaults
	if cfg.Traces.Backend == "" {
		cfg.Traces.Backend = DefaultTracesBackend
	}
	if cfg.Traces.SQLite.Path == "" {
		cfg.Traces.SQLite.Path = DefaultTracesSQLitePath
	}
	if cfg.Traces.SQLite.BusyTimeout == 0 {
		cfg.Traces.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
		cfg.Traces.SQLite.WALMode = DefaultSQLiteWALMode
	}

	// Classifier defaults
	if cfg.Classifier.DebounceInterval == 0 {
		cfg.Classifier.DebounceInterval = DefaultClassifierDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNS
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
