package audit

import (
	"context"
	"time"
)

// Record is one audited routing decision. It is append-only: records
// are written once and never updated.
//
// Record deliberately has no field for question content. ContentHash
// is the only trace of what was asked.
type Record struct {
	// ID is the unique record identifier.
	ID string `json:"id"`

	// TraceID links a fallback decision to the original decision it
	// escalated from. For first decisions it equals QuestionID.
	TraceID string `json:"trace_id"`

	// QuestionID identifies the question this decision answered.
	QuestionID string `json:"question_id"`

	// SessionID groups records belonging to one assistant session.
	SessionID string `json:"session_id,omitempty"`

	// Route is the chosen execution target ("local" or "cloud").
	// Empty when the decision errored.
	Route string `json:"route,omitempty"`

	// RuleID is the routing rule that produced the decision, or the
	// rule active when it failed.
	RuleID string `json:"rule_id,omitempty"`

	// Model is the model the decision selected.
	Model string `json:"model,omitempty"`

	// PrivacyLevel is the question's privacy preference.
	PrivacyLevel string `json:"privacy_level"`

	// TokenEstimate is the estimated token count of the question.
	TokenEstimate int `json:"token_estimate"`

	// LatencyMs is the end-to-end decision latency in milliseconds.
	LatencyMs int64 `json:"latency_ms"`

	// FallbackUsed marks records produced by a local-failure fallback.
	FallbackUsed bool `json:"fallback_used"`

	// FallbackConfirmed records whether the user approved the fallback.
	FallbackConfirmed bool `json:"fallback_confirmed"`

	// Warnings is the number of policy warnings attached.
	Warnings int `json:"warnings"`

	// ErrorCode classifies a failed decision ("policy_blocked",
	// "network_unavailable", ...). Empty on success.
	ErrorCode string `json:"error_code,omitempty"`

	// BlockReason is the policy reason when ErrorCode is
	// "policy_blocked".
	BlockReason string `json:"block_reason,omitempty"`

	// ContentHash is the hex-encoded SHA-256 of the question content.
	ContentHash string `json:"content_hash"`

	// CreatedAt is when the record was written, UTC.
	CreatedAt time.Time `json:"created_at"`
}

// Query filters record listings. Zero values mean no filter.
type Query struct {
	SessionID string
	TraceID   string
	RuleID    string
	ErrorCode string
	Since     time.Time
	Until     time.Time
	Limit     int
}

// Storage persists audit records.
type Storage interface {
	// Save writes one record.
	Save(ctx context.Context, record *Record) error

	// List returns records matching the query, newest first.
	List(ctx context.Context, q Query) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes records created before the cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes the oldest records until at most keep
	// remain, returning how many were removed.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Close releases storage resources.
	Close() error
}
