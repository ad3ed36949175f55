package trace

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite via the pure-Go driver, so the
// trace store builds without cgo even when the proof store's driver is
// swapped out.
//
// SQLite only supports a single writer; the connection pool is pinned to
// one connection and step assignment runs inside a transaction, so
// concurrent appends to the same session serialize cleanly.
type SQLiteStore struct {
	db        *sql.DB
	dbPath    string
	closeOnce sync.Once

	appendStmt *sql.Stmt
	listStmt   *sql.Stmt
	countStmt  *sql.Stmt
	stepStmt   *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite trace store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore creates a new SQLite trace store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{
		DBPath:      dbPath,
		BusyTimeout: 5 * time.Second,
	})
}

// NewSQLiteStoreWithConfig creates a new SQLite trace store with custom
// configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "open", Cause: err}
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Operation: "init_schema", Cause: err}
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Operation: "prepare", Cause: err}
	}

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS thought_traces (
		trace_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		reasoning_step INTEGER NOT NULL,
		trace_type TEXT NOT NULL,
		confidence TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(session_id, reasoning_step)
	);

	CREATE INDEX IF NOT EXISTS idx_traces_session
		ON thought_traces(session_id, reasoning_step);
	`
	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements pre-compiles the hot-path SQL statements.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.appendStmt, err = s.db.Prepare(`
		INSERT INTO thought_traces
			(trace_id, session_id, reasoning_step, trace_type, confidence, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT trace_id, session_id, reasoning_step, trace_type, confidence, content, created_at
		FROM thought_traces
		WHERE session_id = ?
		ORDER BY reasoning_step ASC
	`)
	if err != nil {
		return err
	}

	s.countStmt, err = s.db.Prepare(`
		SELECT COUNT(*) FROM thought_traces WHERE session_id = ?
	`)
	if err != nil {
		return err
	}

	s.stepStmt, err = s.db.Prepare(`
		SELECT COALESCE(MAX(reasoning_step), 0) FROM thought_traces WHERE session_id = ?
	`)
	return err
}

// Append persists a trace, assigning the next reasoning step for the
// session when none is set.
func (s *SQLiteStore) Append(ctx context.Context, t *ThoughtTrace) error {
	if err := t.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "begin", Cause: err}
	}
	defer tx.Rollback()

	if t.ReasoningStep <= 0 {
		var last int
		err := tx.StmtContext(ctx, s.stepStmt).QueryRowContext(ctx, t.SessionID).Scan(&last)
		if err != nil {
			return &StorageError{Backend: "sqlite", Operation: "next_step", Cause: err}
		}
		t.ReasoningStep = last + 1
	}

	_, err = tx.StmtContext(ctx, s.appendStmt).ExecContext(ctx,
		t.TraceID, t.SessionID, t.ReasoningStep,
		string(t.TraceType), string(t.Confidence), t.Content,
		t.CreatedAt.UnixNano(),
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "append", Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "commit", Cause: err}
	}
	return nil
}

// ListSession retrieves all traces for a session, ordered by reasoning
// step.
func (s *SQLiteStore) ListSession(ctx context.Context, sessionID string) ([]*ThoughtTrace, error) {
	rows, err := s.listStmt.QueryContext(ctx, sessionID)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_session", Cause: err}
	}
	defer rows.Close()

	traces := []*ThoughtTrace{}
	for rows.Next() {
		var t ThoughtTrace
		var traceType, confidence string
		var createdAt int64
		err := rows.Scan(&t.TraceID, &t.SessionID, &t.ReasoningStep,
			&traceType, &confidence, &t.Content, &createdAt)
		if err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan", Cause: err}
		}
		t.TraceType = TraceType(traceType)
		t.Confidence = Confidence(confidence)
		t.CreatedAt = time.Unix(0, createdAt).UTC()
		traces = append(traces, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_session", Cause: err}
	}

	return traces, nil
}

// CountSession returns the number of traces recorded for a session.
func (s *SQLiteStore) CountSession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := s.countStmt.QueryRowContext(ctx, sessionID).Scan(&count)
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Operation: "count_session", Cause: err}
	}
	return count, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.appendStmt, s.listStmt, s.countStmt, s.stepStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "close", Cause: err}
	}
	return nil
}
