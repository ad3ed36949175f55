// Package proof generates and verifies cryptographic proofs of computation.
//
// A proof binds an expression, its variable bindings, the full ordered step
// trace and the final result together under a SHA-256 hash of a canonical
// serialization. Anyone holding the proof can re-execute the computation and
// recompute the hash; if either the re-derived result or the hash differs,
// the proof has been tampered with or the computation was not reproducible.
//
// The package has three main components:
//
//   - Generator: evaluates an expression and emits a VeritasProof with a
//     deterministic verification hash and a reproducible confidence score.
//   - Verifier: re-executes a stored proof and records the outcome. Every
//     verification attempt writes exactly one VerificationAuditRecord,
//     whether the proof checks out or not.
//   - Store: the append-only persistence interface for proofs and audit
//     records. Stored records are immutable; corrections are expressed as
//     new proofs that supersede old ones, never as updates.
package proof
