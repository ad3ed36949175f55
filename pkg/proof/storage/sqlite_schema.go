package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the proof database schema.
// There are deliberately no UPDATE paths: proofs and audit records are
// immutable once written.
const Schema = `
-- Proof records table
CREATE TABLE IF NOT EXISTS proofs (
    proof_id TEXT PRIMARY KEY,

    -- Computation inputs
    expression TEXT NOT NULL,
    variables TEXT,

    -- Computation outputs
    steps TEXT NOT NULL,
    final_result REAL NOT NULL,

    -- Integrity
    confidence_score REAL NOT NULL,
    verification_hash TEXT NOT NULL,
    verifier_system_id TEXT NOT NULL,

    -- Lineage
    supersedes_id TEXT,

    -- Attribution
    user_id TEXT,
    created_at TIMESTAMP NOT NULL
);

-- Verification audit trail
CREATE TABLE IF NOT EXISTS verification_audits (
    request_id TEXT PRIMARY KEY,
    proof_id TEXT NOT NULL,
    is_valid BOOLEAN NOT NULL,
    mismatch_detail TEXT,
    user_id TEXT,
    verified_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_proofs_created_at ON proofs(created_at);
CREATE INDEX IF NOT EXISTS idx_proofs_user_id ON proofs(user_id);
CREATE INDEX IF NOT EXISTS idx_proofs_expression ON proofs(expression);
CREATE INDEX IF NOT EXISTS idx_audits_proof_id ON verification_audits(proof_id);
CREATE INDEX IF NOT EXISTS idx_audits_verified_at ON verification_audits(verified_at);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
