package storage

// SchemaVersion is the current audit database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements creating the audit schema.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    trace_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    session_id TEXT,

    route TEXT,
    rule_id TEXT,
    model TEXT,
    privacy_level TEXT NOT NULL,
    token_estimate INTEGER NOT NULL,

    latency_ms INTEGER NOT NULL,
    fallback_used BOOLEAN NOT NULL,
    fallback_confirmed BOOLEAN NOT NULL,
    warnings INTEGER NOT NULL,

    error_code TEXT,
    block_reason TEXT,
    content_hash TEXT NOT NULL,

    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_records(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_trace_id ON audit_records(trace_id);
CREATE INDEX IF NOT EXISTS idx_audit_session_id ON audit_records(session_id);

CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER PRIMARY KEY
);
`
