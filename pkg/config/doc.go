// Package config provides configuration management for Veritas.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VERITAS_SECTION_FIELD.
// For example:
//
//   - VERITAS_PROOFS_SQLITE_PATH overrides proofs.sqlite.path
//   - VERITAS_CLASSIFIER_REGISTRY_PATH overrides classifier.registry_path
//   - VERITAS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides
// earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// includes range checks on evaluator limits, cron schedule syntax for
// retention, and consistency checks (e.g., archiving requires an archive
// path).
package config
