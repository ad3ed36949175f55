package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"veritas-hq/veritas/pkg/proof"
)

// newBackends returns one fresh instance of every Store implementation.
// Each test runs against all of them: the backends must be interchangeable.
func newBackends(t *testing.T) map[string]proof.Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(&SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "proofs.db"),
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	memory := NewMemoryStore()
	t.Cleanup(func() { memory.Close() })

	return map[string]proof.Store{
		"sqlite": sqlite,
		"memory": memory,
	}
}

func testProof(id string, createdAt time.Time) *proof.VeritasProof {
	return &proof.VeritasProof{
		ProofID:    id,
		Expression: "x + 1",
		Variables:  map[string]float64{"x": 2},
		Steps: []proof.ComputationStep{
			{StepIndex: 0, Operation: "add", Rendering: "2 + 1", Result: 3},
		},
		FinalResult:      3,
		ConfidenceScore:  0.85,
		VerificationHash: "deadbeef",
		VerifierSystemID: proof.VerifierSystemID,
		UserID:           "user-1",
		CreatedAt:        createdAt,
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			p := testProof("proof-1", created)

			if err := store.InsertProof(ctx, p); err != nil {
				t.Fatalf("InsertProof() failed: %v", err)
			}

			got, err := store.GetProof(ctx, "proof-1")
			if err != nil {
				t.Fatalf("GetProof() failed: %v", err)
			}

			if got.Expression != p.Expression {
				t.Errorf("Expression = %q, want %q", got.Expression, p.Expression)
			}
			if got.Variables["x"] != 2 {
				t.Errorf("Variables[x] = %v, want 2", got.Variables["x"])
			}
			if len(got.Steps) != 1 || got.Steps[0] != p.Steps[0] {
				t.Errorf("Steps = %+v, want %+v", got.Steps, p.Steps)
			}
			if got.FinalResult != 3 {
				t.Errorf("FinalResult = %v, want 3", got.FinalResult)
			}
			if got.VerificationHash != "deadbeef" {
				t.Errorf("VerificationHash = %q, want deadbeef", got.VerificationHash)
			}
			if !got.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
			}
			if got.SupersedesID != "" {
				t.Errorf("SupersedesID = %q, want empty", got.SupersedesID)
			}
		})
	}
}

func TestStore_DuplicateProofIDRejected(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := testProof("proof-1", time.Now().UTC())

			if err := store.InsertProof(ctx, p); err != nil {
				t.Fatalf("first InsertProof() failed: %v", err)
			}

			// Second insert with the same ID but a different result must
			// fail without touching the stored row.
			altered := testProof("proof-1", time.Now().UTC())
			altered.FinalResult = 99

			err := store.InsertProof(ctx, altered)
			var conflict *proof.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("error type = %T, want *ConflictError", err)
			}

			got, err := store.GetProof(ctx, "proof-1")
			if err != nil {
				t.Fatalf("GetProof() failed: %v", err)
			}
			if got.FinalResult != 3 {
				t.Errorf("stored proof was overwritten: FinalResult = %v", got.FinalResult)
			}
		})
	}
}

func TestStore_GetUnknownProof(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetProof(context.Background(), "missing")
			var notFound *proof.NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("error type = %T, want *NotFoundError", err)
			}
		})
	}
}

func TestStore_QueryProofs(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

			for i := 0; i < 5; i++ {
				p := testProof(fmt.Sprintf("proof-%d", i), base.Add(time.Duration(i)*time.Hour))
				if i%2 == 0 {
					p.UserID = "alice"
				} else {
					p.UserID = "bob"
				}
				if err := store.InsertProof(ctx, p); err != nil {
					t.Fatalf("InsertProof() failed: %v", err)
				}
			}

			t.Run("by user", func(t *testing.T) {
				got, err := store.QueryProofs(ctx, &proof.Query{UserID: "alice"})
				if err != nil {
					t.Fatalf("QueryProofs() failed: %v", err)
				}
				if len(got) != 3 {
					t.Errorf("got %d proofs, want 3", len(got))
				}
			})

			t.Run("by time range", func(t *testing.T) {
				start := base.Add(90 * time.Minute)
				got, err := store.QueryProofs(ctx, &proof.Query{StartTime: &start})
				if err != nil {
					t.Fatalf("QueryProofs() failed: %v", err)
				}
				if len(got) != 3 {
					t.Errorf("got %d proofs, want 3", len(got))
				}
			})

			t.Run("ordering and pagination", func(t *testing.T) {
				got, err := store.QueryProofs(ctx, &proof.Query{Limit: 2, SortOrder: "asc"})
				if err != nil {
					t.Fatalf("QueryProofs() failed: %v", err)
				}
				if len(got) != 2 {
					t.Fatalf("got %d proofs, want 2", len(got))
				}
				if got[0].ProofID != "proof-0" || got[1].ProofID != "proof-1" {
					t.Errorf("ascending page = %s, %s", got[0].ProofID, got[1].ProofID)
				}

				got, err = store.QueryProofs(ctx, &proof.Query{Limit: 2, Offset: 2, SortOrder: "asc"})
				if err != nil {
					t.Fatalf("QueryProofs() failed: %v", err)
				}
				if got[0].ProofID != "proof-2" {
					t.Errorf("offset page starts at %s, want proof-2", got[0].ProofID)
				}
			})

			t.Run("count", func(t *testing.T) {
				count, err := store.CountProofs(ctx, &proof.Query{UserID: "bob"})
				if err != nil {
					t.Fatalf("CountProofs() failed: %v", err)
				}
				if count != 2 {
					t.Errorf("count = %d, want 2", count)
				}
			})

			t.Run("no match", func(t *testing.T) {
				got, err := store.QueryProofs(ctx, &proof.Query{UserID: "nobody"})
				if err != nil {
					t.Fatalf("QueryProofs() failed: %v", err)
				}
				if len(got) != 0 {
					t.Errorf("got %d proofs, want 0", len(got))
				}
			})
		})
	}
}

func TestStore_AuditTrail(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

			records := []*proof.VerificationAuditRecord{
				{RequestID: "req-1", ProofID: "proof-1", IsValid: true, VerifiedAt: base},
				{RequestID: "req-2", ProofID: "proof-1", IsValid: false, MismatchDetail: "hash", VerifiedAt: base.Add(time.Hour)},
				{RequestID: "req-3", ProofID: "proof-2", IsValid: true, UserID: "alice", VerifiedAt: base.Add(2 * time.Hour)},
			}
			for _, rec := range records {
				if err := store.InsertAudit(ctx, rec); err != nil {
					t.Fatalf("InsertAudit() failed: %v", err)
				}
			}

			got, err := store.QueryAudits(ctx, &proof.AuditQuery{ProofID: "proof-1"})
			if err != nil {
				t.Fatalf("QueryAudits() failed: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d records, want 2", len(got))
			}
			// Newest first.
			if got[0].RequestID != "req-2" {
				t.Errorf("first record = %s, want req-2", got[0].RequestID)
			}
			if got[0].MismatchDetail != "hash" {
				t.Errorf("MismatchDetail = %q, want hash", got[0].MismatchDetail)
			}
			if got[1].MismatchDetail != "" {
				t.Errorf("valid record carries detail %q", got[1].MismatchDetail)
			}

			invalid := false
			valid, err := store.QueryAudits(ctx, &proof.AuditQuery{IsValid: &invalid})
			if err != nil {
				t.Fatalf("QueryAudits() failed: %v", err)
			}
			if len(valid) != 1 || valid[0].RequestID != "req-2" {
				t.Errorf("invalid-only query returned %d records", len(valid))
			}
		})
	}
}

func TestStore_RetentionDelete(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

			for i := 0; i < 4; i++ {
				p := testProof(fmt.Sprintf("proof-%d", i), base.AddDate(0, 0, i))
				if err := store.InsertProof(ctx, p); err != nil {
					t.Fatalf("InsertProof() failed: %v", err)
				}
			}
			audit := &proof.VerificationAuditRecord{
				RequestID: "req-1", ProofID: "proof-0", IsValid: true, VerifiedAt: base,
			}
			if err := store.InsertAudit(ctx, audit); err != nil {
				t.Fatalf("InsertAudit() failed: %v", err)
			}

			deleted, err := store.DeleteProofsBefore(ctx, base.AddDate(0, 0, 2))
			if err != nil {
				t.Fatalf("DeleteProofsBefore() failed: %v", err)
			}
			if deleted != 2 {
				t.Errorf("deleted = %d, want 2", deleted)
			}

			if _, err := store.GetProof(ctx, "proof-0"); err == nil {
				t.Error("proof-0 survived retention")
			}
			if _, err := store.GetProof(ctx, "proof-3"); err != nil {
				t.Errorf("proof-3 was deleted: %v", err)
			}

			// Audit records outlive the proofs they examined.
			audits, err := store.QueryAudits(ctx, &proof.AuditQuery{ProofID: "proof-0"})
			if err != nil {
				t.Fatalf("QueryAudits() failed: %v", err)
			}
			if len(audits) != 1 {
				t.Errorf("audit records = %d, want 1", len(audits))
			}
		})
	}
}

func TestMemoryStore_CallerCannotMutateStoredProof(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := testProof("proof-1", time.Now().UTC())
	if err := store.InsertProof(ctx, p); err != nil {
		t.Fatalf("InsertProof() failed: %v", err)
	}

	// Mutate the original and a retrieved copy; the stored proof must not
	// change.
	p.FinalResult = 99
	got, _ := store.GetProof(ctx, "proof-1")
	got.Steps[0].Result = 99
	got.Variables["x"] = 99

	fresh, err := store.GetProof(ctx, "proof-1")
	if err != nil {
		t.Fatalf("GetProof() failed: %v", err)
	}
	if fresh.FinalResult != 3 || fresh.Steps[0].Result != 3 || fresh.Variables["x"] != 2 {
		t.Error("stored proof was mutated through a caller reference")
	}
}
