package decision

import (
	"time"

	"github.com/google/uuid"
)

// PrivacyLevel expresses the user's routing preference for a question.
type PrivacyLevel string

const (
	// PrivacyLocal forces on-device execution. Content must never leave
	// the device for questions carrying this level.
	PrivacyLocal PrivacyLevel = "local"

	// PrivacyCloud forces cloud execution.
	PrivacyCloud PrivacyLevel = "cloud"

	// PrivacyAuto lets the router decide based on device capability,
	// token count, and network state.
	PrivacyAuto PrivacyLevel = "auto"
)

// IsValid reports whether the privacy level is one of the known values.
func (p PrivacyLevel) IsValid() bool {
	switch p {
	case PrivacyLocal, PrivacyCloud, PrivacyAuto:
		return true
	}
	return false
}

// Question is a single user-submitted request awaiting a routing decision.
//
// Questions are immutable once created. A failed attempt that the user
// retries, or a confirmed fallback, produces a new Question with a new ID;
// the original is never modified.
type Question struct {
	// ID uniquely identifies this question (UUID v4).
	ID string `json:"id" yaml:"id"`

	// Content is the raw question text.
	Content string `json:"content" yaml:"content"`

	// PrivacyLevel is the user's routing preference for this question.
	PrivacyLevel PrivacyLevel `json:"privacy_level" yaml:"privacy_level"`

	// Intent is an optional intent tag (e.g., "summarize", "code").
	// Empty means no intent was classified.
	Intent string `json:"intent,omitempty" yaml:"intent,omitempty"`

	// SessionID identifies the conversation this question belongs to.
	SessionID string `json:"session_id" yaml:"session_id"`

	// CreatedAt is when the question was submitted.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewQuestion creates a Question with a generated id and the current time.
// The privacy level defaults to PrivacyAuto when empty.
func NewQuestion(content string, privacy PrivacyLevel, intent, sessionID string) Question {
	if privacy == "" {
		privacy = PrivacyAuto
	}
	return Question{
		ID:           uuid.NewString(),
		Content:      content,
		PrivacyLevel: privacy,
		Intent:       intent,
		SessionID:    sessionID,
		CreatedAt:    time.Now().UTC(),
	}
}

// Escalate returns a new Question carrying the same content, intent, and
// session as q but with a fresh id and timestamp. It is used when a failed
// local attempt is escalated to cloud after user confirmation: the original
// question is never mutated.
func (q Question) Escalate() Question {
	return Question{
		ID:           uuid.NewString(),
		Content:      q.Content,
		PrivacyLevel: q.PrivacyLevel,
		Intent:       q.Intent,
		SessionID:    q.SessionID,
		CreatedAt:    time.Now().UTC(),
	}
}
