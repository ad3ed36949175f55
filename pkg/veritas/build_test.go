package veritas

import (
	"context"
	"path/filepath"
	"testing"

	"veritas-hq/veritas/pkg/config"
)

func TestNewFromConfig_SQLiteBackends(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Proofs.SQLite.Path = filepath.Join(dir, "proofs.db")
	cfg.Traces.SQLite.Path = filepath.Join(dir, "traces.db")

	sys, err := NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig() failed: %v", err)
	}
	t.Cleanup(func() { sys.Close() })

	ctx := context.Background()
	result, err := sys.Orchestrator.Calculate(ctx, CalculateRequest{
		Expression: "6 * 7",
		SessionID:  "sess-build",
	})
	if err != nil {
		t.Fatalf("Calculate() failed: %v", err)
	}
	if result.Answer != "42" {
		t.Errorf("Answer = %s, want 42", result.Answer)
	}

	verdict, err := sys.Orchestrator.Verify(ctx, result.Proof.ProofID)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if !verdict.IsValid {
		t.Error("proof did not verify through the SQLite backends")
	}

	if sys.Pruner == nil {
		t.Error("system has no retention pruner")
	}
}

func TestNewFromConfig_MemoryBackends(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Proofs.Backend = "memory"
	cfg.Traces.Backend = "memory"

	sys, err := NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig() failed: %v", err)
	}
	t.Cleanup(func() { sys.Close() })

	if _, err := sys.Orchestrator.Calculate(context.Background(), CalculateRequest{Expression: "1 + 1"}); err != nil {
		t.Fatalf("Calculate() failed: %v", err)
	}
}

func TestNewFromConfig_UnknownBackend(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Proofs.Backend = "postgres"

	if _, err := NewFromConfig(cfg, nil); err == nil {
		t.Error("NewFromConfig() accepted an unknown backend")
	}
}
