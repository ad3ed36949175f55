package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention VERITAS_SECTION_FIELD (e.g., VERITAS_PROOFS_SQLITE_PATH).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format VERITAS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Evaluator overrides
	if val := os.Getenv("VERITAS_EVALUATOR_MAX_EXPRESSION_LENGTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Evaluator.MaxExpressionLength = i
		}
	}
	if val := os.Getenv("VERITAS_EVALUATOR_MAX_OPERATIONS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Evaluator.MaxOperations = i
		}
	}
	if val := os.Getenv("VERITAS_EVALUATOR_MAX_VARIABLES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Evaluator.MaxVariables = i
		}
	}

	// Proof storage overrides
	if val := os.Getenv("VERITAS_PROOFS_BACKEND"); val != "" {
		cfg.Proofs.Backend = val
	}
	if val := os.Getenv("VERITAS_PROOFS_SQLITE_PATH"); val != "" {
		cfg.Proofs.SQLite.Path = val
	}
	if val := os.Getenv("VERITAS_PROOFS_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proofs.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("VERITAS_PROOFS_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Proofs.Retention.Days = i
		}
	}
	if val := os.Getenv("VERITAS_PROOFS_RETENTION_SCHEDULE"); val != "" {
		cfg.Proofs.Retention.Schedule = val
	}
	if val := os.Getenv("VERITAS_PROOFS_RETENTION_ARCHIVE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Proofs.Retention.Archive = b
		}
	}
	if val := os.Getenv("VERITAS_PROOFS_RETENTION_ARCHIVE_PATH"); val != "" {
		cfg.Proofs.Retention.ArchivePath = val
	}
	if val := os.Getenv("VERITAS_PROOFS_RETENTION_MAX_PROOFS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Proofs.Retention.MaxProofs = i
		}
	}

	// Trace storage overrides
	if val := os.Getenv("VERITAS_TRACES_BACKEND"); val != "" {
		cfg.Traces.Backend = val
	}
	if val := os.Getenv("VERITAS_TRACES_SQLITE_PATH"); val != "" {
		cfg.Traces.SQLite.Path = val
	}

	// Classifier overrides
	if val := os.Getenv("VERITAS_CLASSIFIER_REGISTRY_PATH"); val != "" {
		cfg.Classifier.RegistryPath = val
	}
	if val := os.Getenv("VERITAS_CLASSIFIER_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Classifier.Watch = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("VERITAS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("VERITAS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("VERITAS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("VERITAS_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
