package trace

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in memory, mirroring the SQLite backend's
// semantics. Intended for tests and ephemeral deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]*ThoughtTrace
}

// NewMemoryStore creates an empty in-memory trace store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]*ThoughtTrace),
	}
}

// Append persists a trace, assigning the next reasoning step for the
// session when none is set.
func (s *MemoryStore) Append(_ context.Context, t *ThoughtTrace) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	traces := s.sessions[t.SessionID]
	if t.ReasoningStep <= 0 {
		last := 0
		for _, existing := range traces {
			if existing.ReasoningStep > last {
				last = existing.ReasoningStep
			}
		}
		t.ReasoningStep = last + 1
	}

	copied := *t
	s.sessions[t.SessionID] = append(traces, &copied)
	return nil
}

// ListSession retrieves all traces for a session, ordered by reasoning
// step.
func (s *MemoryStore) ListSession(_ context.Context, sessionID string) ([]*ThoughtTrace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	traces := s.sessions[sessionID]
	out := make([]*ThoughtTrace, len(traces))
	for i, t := range traces {
		copied := *t
		out[i] = &copied
	}

	// Appends with explicit step numbers may arrive out of order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReasoningStep < out[j].ReasoningStep
	})

	return out, nil
}

// CountSession returns the number of traces recorded for a session.
func (s *MemoryStore) CountSession(_ context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.sessions[sessionID])), nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
