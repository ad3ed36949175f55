// Package storage provides persistence backends for proofs and verification
// audit records.
//
// Two implementations of proof.Store are available:
//
//   - SQLiteStore: the production backend, using WAL mode for concurrent
//     readers and a versioned schema.
//   - MemoryStore: an in-memory mirror with identical semantics, intended
//     for tests and ephemeral deployments.
//
// Both backends enforce append-only semantics: inserting an existing proof
// ID fails with a ConflictError and no statement ever updates a stored row.
package storage
