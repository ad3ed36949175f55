package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"veritas-hq/veritas/pkg/proof"
)

// MemoryStore implements the proof.Store interface in memory. It mirrors
// the SQLite backend's semantics, including append-only enforcement, and is
// intended for tests and ephemeral deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	proofs map[string]*proof.VeritasProof
	audits []*proof.VerificationAuditRecord
}

// NewMemoryStore creates an empty in-memory proof store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proofs: make(map[string]*proof.VeritasProof),
	}
}

// InsertProof persists a proof. Duplicate proof IDs fail with a
// ConflictError.
func (s *MemoryStore) InsertProof(_ context.Context, p *proof.VeritasProof) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.proofs[p.ProofID]; ok {
		return &proof.ConflictError{ProofID: p.ProofID}
	}
	s.proofs[p.ProofID] = copyProof(p)
	return nil
}

// GetProof retrieves a proof by ID.
func (s *MemoryStore) GetProof(_ context.Context, proofID string) (*proof.VeritasProof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proofs[proofID]
	if !ok {
		return nil, &proof.NotFoundError{ProofID: proofID}
	}
	return copyProof(p), nil
}

// QueryProofs retrieves proofs matching the query filters, newest first
// unless ascending order is requested.
func (s *MemoryStore) QueryProofs(_ context.Context, q *proof.Query) ([]*proof.VeritasProof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*proof.VeritasProof{}
	for _, p := range s.proofs {
		if matchesProofQuery(p, q) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if q.SortOrder == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	matched = paginate(matched, q.Limit, q.Offset)

	out := make([]*proof.VeritasProof, len(matched))
	for i, p := range matched {
		out[i] = copyProof(p)
	}
	return out, nil
}

// CountProofs returns the number of proofs matching the query filters.
func (s *MemoryStore) CountProofs(_ context.Context, q *proof.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, p := range s.proofs {
		if matchesProofQuery(p, q) {
			count++
		}
	}
	return count, nil
}

// InsertAudit persists a verification audit record.
func (s *MemoryStore) InsertAudit(_ context.Context, rec *proof.VerificationAuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *rec
	s.audits = append(s.audits, &copied)
	return nil
}

// QueryAudits retrieves audit records matching the query filters, newest
// first.
func (s *MemoryStore) QueryAudits(_ context.Context, q *proof.AuditQuery) ([]*proof.VerificationAuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*proof.VerificationAuditRecord{}
	for _, rec := range s.audits {
		if matchesAuditQuery(rec, q) {
			matched = append(matched, rec)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].VerifiedAt.After(matched[j].VerifiedAt)
	})

	matched = paginate(matched, q.Limit, q.Offset)

	out := make([]*proof.VerificationAuditRecord, len(matched))
	for i, rec := range matched {
		copied := *rec
		out[i] = &copied
	}
	return out, nil
}

// DeleteProofsBefore removes proofs created before the cutoff. Audit
// records are kept.
func (s *MemoryStore) DeleteProofsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, p := range s.proofs {
		if p.CreatedAt.Before(cutoff) {
			delete(s.proofs, id)
			count++
		}
	}
	return count, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func matchesProofQuery(p *proof.VeritasProof, q *proof.Query) bool {
	if q.StartTime != nil && p.CreatedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && p.CreatedAt.After(*q.EndTime) {
		return false
	}
	if q.UserID != "" && p.UserID != q.UserID {
		return false
	}
	if q.Expression != "" && p.Expression != q.Expression {
		return false
	}
	return true
}

func matchesAuditQuery(rec *proof.VerificationAuditRecord, q *proof.AuditQuery) bool {
	if q.StartTime != nil && rec.VerifiedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && rec.VerifiedAt.After(*q.EndTime) {
		return false
	}
	if q.ProofID != "" && rec.ProofID != q.ProofID {
		return false
	}
	if q.UserID != "" && rec.UserID != q.UserID {
		return false
	}
	if q.IsValid != nil && rec.IsValid != *q.IsValid {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit <= 0 {
		limit = 100
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// copyProof deep-copies a proof so callers can never mutate stored state.
func copyProof(p *proof.VeritasProof) *proof.VeritasProof {
	copied := *p
	if p.Variables != nil {
		copied.Variables = make(map[string]float64, len(p.Variables))
		for k, v := range p.Variables {
			copied.Variables[k] = v
		}
	}
	copied.Steps = make([]proof.ComputationStep, len(p.Steps))
	copy(copied.Steps, p.Steps)
	return &copied
}
