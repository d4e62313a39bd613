package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mercator-hq/saturn/pkg/audit"
	"mercator-hq/saturn/pkg/audit/recorder"
	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/policy/engine"
	"mercator-hq/saturn/pkg/policy/store"
	"mercator-hq/saturn/pkg/processing/tokens"
	"mercator-hq/saturn/pkg/routing"
	"mercator-hq/saturn/pkg/telemetry/metrics"
)

// Error codes recorded in the audit trail.
const (
	ErrorCodePolicyBlocked      = "policy_blocked"
	ErrorCodeNetworkUnavailable = "network_unavailable"
	ErrorCodeInvalidPrivacy     = "invalid_privacy_level"
	ErrorCodeInternal           = "internal"
)

// Outcome is a completed decision with its policy context.
type Outcome struct {
	// Decision is the routing decision.
	Decision *routing.Decision

	// Warnings are policy warnings to surface to the user.
	Warnings []string

	// ConfirmationPrompt is non-empty when policy requires the user to
	// confirm before execution.
	ConfirmationPrompt string

	// AppliedRuleIDs lists the policy rules that matched, in
	// evaluation order.
	AppliedRuleIDs []string

	// TokenEstimate is the question's estimated token count.
	TokenEstimate int
}

// Service runs the full decision path.
type Service struct {
	provider  store.Provider
	engine    *engine.Engine
	router    *routing.Router
	estimator tokens.Estimator
	recorder  *recorder.Recorder
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder attaches an audit recorder.
func WithRecorder(r *recorder.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithEstimator overrides the token estimator used for auditing.
func WithEstimator(e tokens.Estimator) Option {
	return func(s *Service) { s.estimator = e }
}

// New creates a decision service over the given rule provider.
func New(provider store.Provider, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		engine:    engine.New(),
		router:    routing.New(),
		estimator: tokens.SimpleEstimator{},
		logger:    slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide evaluates policy and routes one question against the runtime
// snapshot. Blocked questions and routing failures return an error;
// every path, success or not, leaves an audit record.
func (s *Service) Decide(ctx context.Context, q decision.Question, rt decision.RuntimeSnapshot) (*Outcome, error) {
	start := time.Now()
	estimate := s.estimator.Estimate(q.Content)
	snapshot := s.provider.Snapshot()

	result, err := s.engine.Evaluate(q, rt, snapshot.Rules)
	if err != nil {
		s.recordFailure(q, estimate, start, err)
		return nil, err
	}

	d, err := s.router.Route(q, rt, result)
	if err != nil {
		s.recordFailure(q, estimate, start, err)
		return nil, err
	}

	latency := time.Since(start)
	s.recordDecision(q, d, result, estimate, latency)

	s.logger.InfoContext(ctx, "routing decision",
		"question_id", q.ID,
		"route", string(d.Route),
		"rule_id", string(d.RuleID),
		"model", d.Model,
		"fallback_allowed", d.FallbackAllowed,
		"applied_rules", len(result.AppliedRuleIDs),
		"warnings", len(result.Warnings),
		"token_estimate", estimate,
		"latency", latency,
	)

	return &Outcome{
		Decision:           d,
		Warnings:           result.Warnings,
		ConfirmationPrompt: result.ConfirmationPrompt,
		AppliedRuleIDs:     result.AppliedRuleIDs,
		TokenEstimate:      estimate,
	}, nil
}

func (s *Service) recordDecision(q decision.Question, d *routing.Decision, result *engine.Result, estimate int, latency time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordDecision(string(d.Route), string(d.RuleID), latency, estimate)
		for _, id := range result.AppliedRuleIDs {
			s.metrics.RecordPolicyMatch(id, "applied")
		}
	}
	if s.recorder != nil {
		s.recorder.Record(&audit.Record{
			TraceID:       d.TraceID,
			QuestionID:    q.ID,
			SessionID:     q.SessionID,
			Route:         string(d.Route),
			RuleID:        string(d.RuleID),
			Model:         d.Model,
			PrivacyLevel:  string(q.PrivacyLevel),
			TokenEstimate: estimate,
			LatencyMs:     latency.Milliseconds(),
			Warnings:      len(result.Warnings),
			ContentHash:   recorder.HashString(q.Content),
		})
	}
}

func (s *Service) recordFailure(q decision.Question, estimate int, start time.Time, cause error) {
	latency := time.Since(start)
	code := classifyError(cause)

	rec := &audit.Record{
		TraceID:       q.ID,
		QuestionID:    q.ID,
		SessionID:     q.SessionID,
		PrivacyLevel:  string(q.PrivacyLevel),
		TokenEstimate: estimate,
		LatencyMs:     latency.Milliseconds(),
		ErrorCode:     code,
		ContentHash:   recorder.HashString(q.Content),
	}

	var blocked *engine.BlockedError
	if errors.As(cause, &blocked) {
		rec.RuleID = string(routing.RulePolicyBlock)
		rec.BlockReason = blocked.Reason
		if s.metrics != nil {
			s.metrics.RecordBlock()
		}
	}
	var netErr *routing.NetworkUnavailableError
	if errors.As(cause, &netErr) {
		rec.RuleID = string(netErr.RuleID)
	}

	if s.metrics != nil {
		s.metrics.RecordError(code, latency)
	}
	if s.recorder != nil {
		s.recorder.Record(rec)
	}

	s.logger.Warn("decision failed",
		"question_id", q.ID,
		"error_code", code,
		"error", cause,
	)
}

// classifyError maps a decision error to an audit error code.
func classifyError(err error) string {
	switch {
	case errors.Is(err, engine.ErrPolicyBlocked):
		return ErrorCodePolicyBlocked
	case errors.Is(err, routing.ErrNetworkUnavailable):
		return ErrorCodeNetworkUnavailable
	case errors.Is(err, routing.ErrInvalidPrivacyLevel):
		return ErrorCodeInvalidPrivacy
	default:
		return ErrorCodeInternal
	}
}
