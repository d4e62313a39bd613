package pipeline

import (
	"fmt"
	"time"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/audit/recorder"
	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/routing"
)

// Fallback outcomes recorded in metrics.
const (
	FallbackOutcomeConfirmed = "confirmed"
	FallbackOutcomeCancelled = "cancelled"
	FallbackOutcomeFailed    = "failed"
)

// Fallback is a pending cloud escalation awaiting user confirmation.
// Exactly one of Confirm or Cancel resolves it.
type Fallback struct {
	service   *Service
	original  decision.Question
	escalated decision.Question
	traceID   string
	resolved  bool
	createdAt time.Time
}

// RequestFallback opens the fallback gate after a local execution
// failure. The original decision must have allowed fallback; any other
// decision returns ErrFallbackNotAllowed.
//
// The question is re-identified for the escalation while the trace id
// of the original decision is preserved, so the audit trail links both
// attempts.
func (s *Service) RequestFallback(q decision.Question, d *routing.Decision) (*Fallback, error) {
	if d == nil || !d.FallbackAllowed {
		return nil, fmt.Errorf("question %q: %w", q.ID, routing.ErrFallbackNotAllowed)
	}

	return &Fallback{
		service:   s,
		original:  q,
		escalated: q.Escalate(),
		traceID:   d.TraceID,
		createdAt: time.Now().UTC(),
	}, nil
}

// EscalatedQuestion returns the re-identified question that will be
// sent to the cloud on confirmation.
func (f *Fallback) EscalatedQuestion() decision.Question {
	return f.escalated
}

// Confirm approves the escalation and routes it to the cloud. The
// network is rechecked at confirmation time; going offline between
// failure and confirmation fails the fallback.
func (f *Fallback) Confirm(rt decision.RuntimeSnapshot) (*routing.Decision, error) {
	if f.resolved {
		return nil, fmt.Errorf("fallback for question %q already resolved", f.original.ID)
	}
	f.resolved = true

	start := time.Now()
	d, err := f.service.router.Escalate(f.escalated, rt, f.traceID)
	latency := time.Since(start)

	s := f.service
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFallback(FallbackOutcomeFailed)
			s.metrics.RecordError(classifyError(err), latency)
		}
		f.record(latency, nil, true, classifyError(err))
		s.logger.Warn("fallback failed",
			"question_id", f.original.ID,
			"trace_id", f.traceID,
			"error", err,
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordFallback(FallbackOutcomeConfirmed)
		s.metrics.RecordDecision(string(d.Route), string(d.RuleID), latency,
			s.estimator.Estimate(f.escalated.Content))
	}
	f.record(latency, d, true, "")

	s.logger.Info("fallback confirmed",
		"question_id", f.original.ID,
		"escalated_id", f.escalated.ID,
		"trace_id", f.traceID,
		"model", d.Model,
	)
	return d, nil
}

// Cancel abandons the escalation. The question is not answered.
func (f *Fallback) Cancel() {
	if f.resolved {
		return
	}
	f.resolved = true

	s := f.service
	if s.metrics != nil {
		s.metrics.RecordFallback(FallbackOutcomeCancelled)
	}
	f.record(0, nil, false, "")

	s.logger.Info("fallback cancelled",
		"question_id", f.original.ID,
		"trace_id", f.traceID,
	)
}

func (f *Fallback) record(latency time.Duration, d *routing.Decision, confirmed bool, errorCode string) {
	s := f.service
	if s.recorder == nil {
		return
	}

	rec := &audit.Record{
		TraceID:           f.traceID,
		QuestionID:        f.escalated.ID,
		SessionID:         f.escalated.SessionID,
		PrivacyLevel:      string(f.escalated.PrivacyLevel),
		TokenEstimate:     s.estimator.Estimate(f.escalated.Content),
		LatencyMs:         latency.Milliseconds(),
		FallbackUsed:      true,
		FallbackConfirmed: confirmed,
		ErrorCode:         errorCode,
		ContentHash:       recorder.HashString(f.escalated.Content),
	}
	if d != nil {
		rec.Route = string(d.Route)
		rec.RuleID = string(d.RuleID)
		rec.Model = d.Model
	}
	s.recorder.Record(rec)
}
