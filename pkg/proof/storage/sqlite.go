package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"veritas-hq/veritas/pkg/proof"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/proofs.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the proof.Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite proof store.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 10
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 5
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "proof.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, proof.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite proof store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return proof.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return proof.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return proof.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return proof.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return proof.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return proof.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// InsertProof persists a proof. Duplicate proof IDs fail with a
// ConflictError; the stored row is never touched.
func (s *SQLiteStore) InsertProof(ctx context.Context, p *proof.VeritasProof) error {
	variables, err := json.Marshal(p.Variables)
	if err != nil {
		return proof.NewStorageError("sqlite", "marshal_variables", err)
	}
	steps, err := json.Marshal(p.Steps)
	if err != nil {
		return proof.NewStorageError("sqlite", "marshal_steps", err)
	}

	query := `
		INSERT INTO proofs (
			proof_id, expression, variables, steps, final_result,
			confidence_score, verification_hash, verifier_system_id,
			supersedes_id, user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var supersedes interface{}
	if p.SupersedesID != "" {
		supersedes = p.SupersedesID
	}

	_, err = s.db.ExecContext(ctx, query,
		p.ProofID, p.Expression, string(variables), string(steps), p.FinalResult,
		p.ConfidenceScore, p.VerificationHash, p.VerifierSystemID,
		supersedes, p.UserID, p.CreatedAt,
	)
	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return &proof.ConflictError{ProofID: p.ProofID}
		}
		return proof.NewStorageError("sqlite", "insert_proof", err)
	}

	return nil
}

// GetProof retrieves a proof by ID.
func (s *SQLiteStore) GetProof(ctx context.Context, proofID string) (*proof.VeritasProof, error) {
	query := `
		SELECT proof_id, expression, variables, steps, final_result,
		       confidence_score, verification_hash, verifier_system_id,
		       supersedes_id, user_id, created_at
		FROM proofs WHERE proof_id = ?
	`

	p, err := scanProof(s.db.QueryRowContext(ctx, query, proofID))
	if err == sql.ErrNoRows {
		return nil, &proof.NotFoundError{ProofID: proofID}
	}
	if err != nil {
		return nil, proof.NewStorageError("sqlite", "get_proof", err)
	}
	return p, nil
}

// QueryProofs retrieves proofs matching the query filters.
func (s *SQLiteStore) QueryProofs(ctx context.Context, q *proof.Query) ([]*proof.VeritasProof, error) {
	whereClause, args := buildProofWhere(q)

	sqlQuery := `
		SELECT proof_id, expression, variables, steps, final_result,
		       confidence_score, verification_hash, verifier_system_id,
		       supersedes_id, user_id, created_at
		FROM proofs
	`
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := "DESC"
	if q.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	sqlQuery += " ORDER BY created_at " + sortOrder

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, proof.NewStorageError("sqlite", "query_proofs", err)
	}
	defer rows.Close()

	proofs := []*proof.VeritasProof{}
	for rows.Next() {
		p, err := scanProof(rows)
		if err != nil {
			return nil, proof.NewStorageError("sqlite", "scan", err)
		}
		proofs = append(proofs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, proof.NewStorageError("sqlite", "query_proofs", err)
	}

	return proofs, nil
}

// CountProofs returns the number of proofs matching the query filters.
func (s *SQLiteStore) CountProofs(ctx context.Context, q *proof.Query) (int64, error) {
	whereClause, args := buildProofWhere(q)

	sqlQuery := "SELECT COUNT(*) FROM proofs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return 0, proof.NewStorageError("sqlite", "count_proofs", err)
	}

	return count, nil
}

// InsertAudit persists a verification audit record.
func (s *SQLiteStore) InsertAudit(ctx context.Context, rec *proof.VerificationAuditRecord) error {
	query := `
		INSERT INTO verification_audits (
			request_id, proof_id, is_valid, mismatch_detail, user_id, verified_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var detail interface{}
	if rec.MismatchDetail != "" {
		detail = rec.MismatchDetail
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.RequestID, rec.ProofID, rec.IsValid, detail, rec.UserID, rec.VerifiedAt,
	)
	if err != nil {
		return proof.NewStorageError("sqlite", "insert_audit", err)
	}

	return nil
}

// QueryAudits retrieves audit records matching the query filters.
func (s *SQLiteStore) QueryAudits(ctx context.Context, q *proof.AuditQuery) ([]*proof.VerificationAuditRecord, error) {
	var conditions []string
	var args []interface{}

	if q.StartTime != nil {
		conditions = append(conditions, "verified_at >= ?")
		args = append(args, *q.StartTime)
	}
	if q.EndTime != nil {
		conditions = append(conditions, "verified_at <= ?")
		args = append(args, *q.EndTime)
	}
	if q.ProofID != "" {
		conditions = append(conditions, "proof_id = ?")
		args = append(args, q.ProofID)
	}
	if q.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.IsValid != nil {
		conditions = append(conditions, "is_valid = ?")
		args = append(args, *q.IsValid)
	}

	sqlQuery := `
		SELECT request_id, proof_id, is_valid, mismatch_detail, user_id, verified_at
		FROM verification_audits
	`
	for i, condition := range conditions {
		if i == 0 {
			sqlQuery += " WHERE " + condition
		} else {
			sqlQuery += " AND " + condition
		}
	}
	sqlQuery += " ORDER BY verified_at DESC"

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, proof.NewStorageError("sqlite", "query_audits", err)
	}
	defer rows.Close()

	records := []*proof.VerificationAuditRecord{}
	for rows.Next() {
		var rec proof.VerificationAuditRecord
		var detail sql.NullString
		err := rows.Scan(&rec.RequestID, &rec.ProofID, &rec.IsValid, &detail, &rec.UserID, &rec.VerifiedAt)
		if err != nil {
			return nil, proof.NewStorageError("sqlite", "scan", err)
		}
		if detail.Valid {
			rec.MismatchDetail = detail.String
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, proof.NewStorageError("sqlite", "query_audits", err)
	}

	return records, nil
}

// DeleteProofsBefore removes proofs created before the cutoff. Audit records
// are not deleted; the verification history outlives the proofs.
func (s *SQLiteStore) DeleteProofsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM proofs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, proof.NewStorageError("sqlite", "delete_proofs", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, proof.NewStorageError("sqlite", "delete_proofs", err)
	}

	return count, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return proof.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite proof store closed")
	return nil
}

// buildProofWhere builds a SQL WHERE clause from query filters.
// Returns the clause (without "WHERE") and the query arguments.
func buildProofWhere(q *proof.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.StartTime != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *q.StartTime)
	}
	if q.EndTime != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *q.EndTime)
	}
	if q.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.Expression != "" {
		conditions = append(conditions, "expression = ?")
		args = append(args, q.Expression)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}

// scanner abstracts sql.Row and sql.Rows for scanProof.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanProof scans a database row into a VeritasProof.
func scanProof(row scanner) (*proof.VeritasProof, error) {
	var p proof.VeritasProof
	var variables, steps string
	var supersedes sql.NullString

	err := row.Scan(
		&p.ProofID, &p.Expression, &variables, &steps, &p.FinalResult,
		&p.ConfidenceScore, &p.VerificationHash, &p.VerifierSystemID,
		&supersedes, &p.UserID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if supersedes.Valid {
		p.SupersedesID = supersedes.String
	}

	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &p.Variables); err != nil {
			return nil, err
		}
	}
	if steps != "" {
		if err := json.Unmarshal([]byte(steps), &p.Steps); err != nil {
			return nil, err
		}
	}

	return &p, nil
}
