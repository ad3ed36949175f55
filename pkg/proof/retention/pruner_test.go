package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"veritas-hq/veritas/pkg/proof"
	"veritas-hq/veritas/pkg/proof/storage"
)

func seedProofs(t *testing.T, store proof.Store, now time.Time, agesDays ...int) {
	t.Helper()
	for i, age := range agesDays {
		p := &proof.VeritasProof{
			ProofID:          fmt.Sprintf("proof-%d", i),
			Expression:       "1 + 1",
			Steps:            []proof.ComputationStep{{Operation: "add", Rendering: "1 + 1", Result: 2}},
			FinalResult:      2,
			ConfidenceScore:  0.85,
			VerificationHash: "hash",
			VerifierSystemID: proof.VerifierSystemID,
			CreatedAt:        now.AddDate(0, 0, -age),
		}
		if err := store.InsertProof(context.Background(), p); err != nil {
			t.Fatalf("InsertProof() failed: %v", err)
		}
	}
}

func TestPrune_ByAge(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProofs(t, store, now, 120, 100, 30, 1)

	pruner := NewPruner(store, &Config{RetentionDays: 90})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := store.CountProofs(context.Background(), &proof.Query{})
	if err != nil {
		t.Fatalf("CountProofs() failed: %v", err)
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}
}

func TestPrune_ByCount(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProofs(t, store, now, 5, 4, 3, 2, 1)

	pruner := NewPruner(store, &Config{MaxProofs: 2})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	// The two newest survive.
	remaining, err := store.QueryProofs(context.Background(), &proof.Query{SortOrder: "asc"})
	if err != nil {
		t.Fatalf("QueryProofs() failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining = %d, want 2", len(remaining))
	}
	if remaining[0].ProofID != "proof-3" || remaining[1].ProofID != "proof-4" {
		t.Errorf("survivors = %s, %s; want proof-3, proof-4",
			remaining[0].ProofID, remaining[1].ProofID)
	}
}

func TestPrune_WithinLimitsDeletesNothing(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProofs(t, store, now, 10, 5, 1)

	pruner := NewPruner(store, &Config{RetentionDays: 90, MaxProofs: 10})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestPrune_ZeroConfigKeepsForever(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProofs(t, store, now, 10000)

	pruner := NewPruner(store, &Config{RetentionDays: 0, MaxProofs: 0})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func TestPrune_ArchiveBeforeDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProofs(t, store, now, 120, 1)

	archiveDir := t.TempDir()
	pruner := NewPruner(store, &Config{
		RetentionDays:       90,
		ArchiveBeforeDelete: true,
		ArchivePath:         archiveDir,
	})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("archive files = %d, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(archiveDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	var archived []*proof.VeritasProof
	if err := json.Unmarshal(data, &archived); err != nil {
		t.Fatalf("archive is not valid JSON: %v", err)
	}
	if len(archived) != 1 || archived[0].ProofID != "proof-0" {
		t.Errorf("archived %d proofs, want the pruned proof-0", len(archived))
	}
}

func TestPrune_AuditRecordsSurvive(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedProofs(t, store, now, 120)

	audit := &proof.VerificationAuditRecord{
		RequestID:  "req-1",
		ProofID:    "proof-0",
		IsValid:    true,
		VerifiedAt: now.AddDate(0, 0, -119),
	}
	if err := store.InsertAudit(context.Background(), audit); err != nil {
		t.Fatalf("InsertAudit() failed: %v", err)
	}

	pruner := NewPruner(store, &Config{RetentionDays: 90})
	pruner.now = func() time.Time { return now }

	if _, err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	audits, err := store.QueryAudits(context.Background(), &proof.AuditQuery{ProofID: "proof-0"})
	if err != nil {
		t.Fatalf("QueryAudits() failed: %v", err)
	}
	if len(audits) != 1 {
		t.Errorf("audit records = %d, want 1 after pruning", len(audits))
	}
}
