package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/saturn/pkg/policy/rule"
)

// Sentinel errors for rule editing operations.
var (
	// ErrRuleExists is returned when creating a rule whose id is taken.
	ErrRuleExists = errors.New("rule already exists")

	// ErrRuleNotFound is returned when a rule id does not exist.
	ErrRuleNotFound = errors.New("rule not found")
)

// SQLiteStore persists policy rules in a local SQLite database and
// backs the rule editing surface. It satisfies Provider: Snapshot
// serves the rules loaded into memory, refreshed after every mutation,
// so evaluation never touches the database.
type SQLiteStore struct {
	db *sql.DB

	mu       sync.RWMutex
	snapshot Snapshot
	version  atomic.Uint64

	createStmt *sql.Stmt
	updateStmt *sql.Stmt
	deleteStmt *sql.Stmt
	getStmt    *sql.Stmt
	listStmt   *sql.Stmt
}

const ruleSchema = `
CREATE TABLE IF NOT EXISTS policy_rules (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	rule_type  TEXT NOT NULL,
	enabled    INTEGER NOT NULL,
	priority   INTEGER NOT NULL,
	document   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_policy_rules_priority
	ON policy_rules(priority, id);
`

// OpenSQLiteStore opens or creates the rule database at dbPath and
// loads the stored rules into the initial snapshot.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(ruleSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize rule schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	if err := s.refreshSnapshot(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error
	if s.createStmt, err = s.db.Prepare(
		`INSERT INTO policy_rules (id, name, rule_type, enabled, priority, document, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`); err != nil {
		return err
	}
	if s.updateStmt, err = s.db.Prepare(
		`UPDATE policy_rules
		 SET name = ?, rule_type = ?, enabled = ?, priority = ?, document = ?, updated_at = ?
		 WHERE id = ?`); err != nil {
		return err
	}
	if s.deleteStmt, err = s.db.Prepare(
		`DELETE FROM policy_rules WHERE id = ?`); err != nil {
		return err
	}
	if s.getStmt, err = s.db.Prepare(
		`SELECT document FROM policy_rules WHERE id = ?`); err != nil {
		return err
	}
	if s.listStmt, err = s.db.Prepare(
		`SELECT document FROM policy_rules ORDER BY priority, id`); err != nil {
		return err
	}
	return nil
}

// Snapshot returns the in-memory view of the stored rules.
func (s *SQLiteStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Create inserts a new rule. The rule is validated first, and the id
// must not already exist.
func (s *SQLiteStore) Create(ctx context.Context, r rule.PolicyRule) error {
	if err := rule.Validate(r); err != nil {
		return err
	}

	if _, err := s.Get(ctx, r.ID); err == nil {
		return fmt.Errorf("rule %q: %w", r.ID, ErrRuleExists)
	} else if !errors.Is(err, ErrRuleNotFound) {
		return err
	}

	doc, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode rule %q: %w", r.ID, err)
	}

	if _, err := s.createStmt.ExecContext(ctx,
		r.ID, r.Name, string(r.Type), boolToInt(r.Enabled), r.Priority,
		string(doc), time.Now().UTC().Unix(),
	); err != nil {
		return fmt.Errorf("failed to insert rule %q: %w", r.ID, err)
	}

	return s.refreshSnapshot(ctx)
}

// Update replaces an existing rule with the same id.
func (s *SQLiteStore) Update(ctx context.Context, r rule.PolicyRule) error {
	if err := rule.Validate(r); err != nil {
		return err
	}

	doc, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode rule %q: %w", r.ID, err)
	}

	res, err := s.updateStmt.ExecContext(ctx,
		r.Name, string(r.Type), boolToInt(r.Enabled), r.Priority,
		string(doc), time.Now().UTC().Unix(), r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule %q: %w", r.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("rule %q: %w", r.ID, ErrRuleNotFound)
	}

	return s.refreshSnapshot(ctx)
}

// Delete removes a rule by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
	}

	return s.refreshSnapshot(ctx)
}

// Get returns a single rule by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (rule.PolicyRule, error) {
	var doc string
	err := s.getStmt.QueryRowContext(ctx, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return rule.PolicyRule{}, fmt.Errorf("rule %q: %w", id, ErrRuleNotFound)
	}
	if err != nil {
		return rule.PolicyRule{}, fmt.Errorf("failed to load rule %q: %w", id, err)
	}
	return decodeRuleDoc(id, doc)
}

// List returns all stored rules ordered by priority then id.
func (s *SQLiteStore) List(ctx context.Context) ([]rule.PolicyRule, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []rule.PolicyRule
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		r, err := decodeRuleDoc("", doc)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rule rows: %w", err)
	}
	return rules, nil
}

// Close releases the database and prepared statements.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.createStmt, s.updateStmt, s.deleteStmt, s.getStmt, s.listStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

func (s *SQLiteStore) refreshSnapshot(ctx context.Context) error {
	rules, err := s.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{
		Rules:    rules,
		Version:  s.version.Add(1),
		LoadedAt: time.Now().UTC(),
	}
	return nil
}

func decodeRuleDoc(id, doc string) (rule.PolicyRule, error) {
	var r rule.PolicyRule
	if err := yaml.Unmarshal([]byte(doc), &r); err != nil {
		return rule.PolicyRule{}, fmt.Errorf("failed to decode stored rule %q: %w", id, err)
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
