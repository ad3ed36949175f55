package veritas

import (
	"fmt"

	"veritas-hq/veritas/pkg/classifier"
	"veritas-hq/veritas/pkg/config"
	"veritas-hq/veritas/pkg/expr"
	"veritas-hq/veritas/pkg/proof"
	"veritas-hq/veritas/pkg/proof/retention"
	"veritas-hq/veritas/pkg/proof/storage"
	"veritas-hq/veritas/pkg/telemetry/metrics"
	"veritas-hq/veritas/pkg/trace"
)

// System bundles an orchestrator with the resources built for it, so the
// embedding application can run retention and shut everything down.
type System struct {
	Orchestrator *Orchestrator
	Proofs       proof.Store
	Traces       trace.Store
	Pruner       *retention.Pruner
}

// Close releases the system's storage resources. The retention scheduler,
// if started, must be stopped first.
func (s *System) Close() error {
	var firstErr error
	if s.Traces != nil {
		if err := s.Traces.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.Proofs.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// NewFromConfig assembles a full system from configuration: storage
// backends, evaluator limits, classifier, retention pruner and optional
// metrics. The caller owns the returned system and must Close it.
func NewFromConfig(cfg *config.Config, vm *metrics.VeritasMetrics) (*System, error) {
	proofs, err := buildProofStore(&cfg.Proofs)
	if err != nil {
		return nil, err
	}

	traces, err := buildTraceStore(&cfg.Traces)
	if err != nil {
		proofs.Close()
		return nil, err
	}

	registry := classifier.DefaultRegistry()
	if cfg.Classifier.RegistryPath != "" {
		registry, err = classifier.LoadRegistry(cfg.Classifier.RegistryPath)
		if err != nil {
			proofs.Close()
			traces.Close()
			return nil, fmt.Errorf("failed to load format registry: %w", err)
		}
	}

	orch, err := New(Options{
		Proofs: proofs,
		Traces: traces,
		Evaluator: expr.NewEvaluator(expr.Limits{
			MaxExpressionLength: cfg.Evaluator.MaxExpressionLength,
			MaxOperations:       cfg.Evaluator.MaxOperations,
			MaxVariables:        cfg.Evaluator.MaxVariables,
		}),
		Classifier: classifier.New(registry, classifier.Weights{
			Equation: cfg.Classifier.Weights.Equation,
			Symbol:   cfg.Classifier.Weights.Symbol,
			Length:   cfg.Classifier.Weights.Length,
		}),
		Metrics: vm,
	})
	if err != nil {
		proofs.Close()
		traces.Close()
		return nil, err
	}

	pruner := retention.NewPruner(proofs, &retention.Config{
		RetentionDays:       cfg.Proofs.Retention.Days,
		PruneSchedule:       cfg.Proofs.Retention.Schedule,
		ArchiveBeforeDelete: cfg.Proofs.Retention.Archive,
		ArchivePath:         cfg.Proofs.Retention.ArchivePath,
		MaxProofs:           cfg.Proofs.Retention.MaxProofs,
	})

	return &System{
		Orchestrator: orch,
		Proofs:       proofs,
		Traces:       traces,
		Pruner:       pruner,
	}, nil
}

func buildProofStore(cfg *config.ProofsConfig) (proof.Store, error) {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "", "sqlite":
		return storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:        cfg.SQLite.Path,
			WALMode:     cfg.SQLite.WALMode,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown proof storage backend %q", cfg.Backend)
	}
}

func buildTraceStore(cfg *config.TracesConfig) (trace.Store, error) {
	switch cfg.Backend {
	case "memory":
		return trace.NewMemoryStore(), nil
	case "", "sqlite":
		return trace.NewSQLiteStoreWithConfig(trace.SQLiteStoreConfig{
			DBPath:      cfg.SQLite.Path,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown trace storage backend %q", cfg.Backend)
	}
}
