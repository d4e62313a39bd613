package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mercator-hq/saturn/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite audit store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the connection pool size. Default: 10.
	MaxOpenConns int

	// MaxIdleConns is the idle pool size. Default: 5.
	MaxIdleConns int

	// WALMode enables write-ahead logging. Default: true.
	WALMode bool

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the audit database, applying the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.storage.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to apply audit schema: %w", err)
	}
	if _, err := s.db.Exec(
		"INSERT OR IGNORE INTO schema_info (version) VALUES (?)", SchemaVersion,
	); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Save writes one record.
func (s *SQLiteStorage) Save(ctx context.Context, record *audit.Record) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records (
			id, trace_id, question_id, session_id,
			route, rule_id, model, privacy_level, token_estimate,
			latency_ms, fallback_used, fallback_confirmed, warnings,
			error_code, block_reason, content_hash, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.TraceID, record.QuestionID, record.SessionID,
		record.Route, record.RuleID, record.Model, record.PrivacyLevel, record.TokenEstimate,
		record.LatencyMs, record.FallbackUsed, record.FallbackConfirmed, record.Warnings,
		record.ErrorCode, record.BlockReason, record.ContentHash, record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record %q: %w", record.ID, err)
	}
	return nil
}

// List returns records matching the query, newest first.
func (s *SQLiteStorage) List(ctx context.Context, q audit.Query) ([]*audit.Record, error) {
	var (
		where []string
		args  []any
	)
	if q.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, q.SessionID)
	}
	if q.TraceID != "" {
		where = append(where, "trace_id = ?")
		args = append(args, q.TraceID)
	}
	if q.RuleID != "" {
		where = append(where, "rule_id = ?")
		args = append(args, q.RuleID)
	}
	if q.ErrorCode != "" {
		where = append(where, "error_code = ?")
		args = append(args, q.ErrorCode)
	}
	if !q.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if !q.Until.IsZero() {
		where = append(where, "created_at < ?")
		args = append(args, q.Until.UTC())
	}

	query := `
		SELECT id, trace_id, question_id, session_id,
		       route, rule_id, model, privacy_level, token_estimate,
		       latency_ms, fallback_used, fallback_confirmed, warnings,
		       error_code, block_reason, content_hash, created_at
		FROM audit_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		var r audit.Record
		if err := rows.Scan(
			&r.ID, &r.TraceID, &r.QuestionID, &r.SessionID,
			&r.Route, &r.RuleID, &r.Model, &r.PrivacyLevel, &r.TokenEstimate,
			&r.LatencyMs, &r.FallbackUsed, &r.FallbackConfirmed, &r.Warnings,
			&r.ErrorCode, &r.BlockReason, &r.ContentHash, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return records, nil
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_records WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit records: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOldest removes the oldest records until at most keep remain.
func (s *SQLiteStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM audit_records WHERE id IN (
			SELECT id FROM audit_records
			ORDER BY created_at DESC, id DESC
			LIMIT -1 OFFSET ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim audit records: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
