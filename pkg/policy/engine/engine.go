package engine

import (
	"sort"
	"strings"

	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/policy/rule"
	"mercator-hq/saturn/pkg/processing/tokens"
)

// Result is the outcome of evaluating a rule snapshot against a question.
// A nil EffectiveAction means no rule overrides default routing.
type Result struct {
	// EffectiveAction is the highest-precedence matching action, or nil
	// when no enabled rule matched. Block never appears here; it is
	// surfaced as a BlockedError instead.
	EffectiveAction rule.Action

	// AppliedRuleIDs lists every rule whose conditions matched, in
	// evaluation order.
	AppliedRuleIDs []string

	// Warnings aggregates the messages of all matching Warn actions, in
	// evaluation order. Warnings survive even when a higher-precedence
	// action wins the effective slot.
	Warnings []string

	// ConfirmationPrompt joins the prompts of all matching
	// RequireConfirmation actions. Empty when none matched.
	ConfirmationPrompt string
}

// Engine evaluates policy rules. The zero dependency is the token
// estimator used for token_count conditions; it defaults to the
// deterministic character-based estimator.
//
// An Engine holds no mutable state and is safe for unbounded concurrent
// use.
type Engine struct {
	estimator tokens.Estimator
}

// Option configures an Engine.
type Option func(*Engine)

// WithEstimator replaces the token estimator. The replacement must be pure
// and deterministic or evaluation loses its reproducibility guarantee.
func WithEstimator(est tokens.Estimator) Option {
	return func(e *Engine) {
		e.estimator = est
	}
}

// New creates a policy engine.
func New(opts ...Option) *Engine {
	e := &Engine{estimator: tokens.NewSimpleEstimator()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate evaluates all enabled rules against the question and runtime
// snapshot and resolves conflicts into a single Result.
//
// Rules are evaluated in total order (priority ascending, then id
// ascending) so that the outcome is identical for identical inputs no
// matter how the store happened to order the slice. Every rule is
// evaluated; a matching Block terminates evaluation immediately and
// returns a BlockedError in place of a Result.
func (e *Engine) Evaluate(q decision.Question, rt decision.RuntimeSnapshot, rules []rule.PolicyRule) (*Result, error) {
	ordered := sortedEnabled(rules)

	result := &Result{}
	var effective rule.Action
	var prompts []string

	for i := range ordered {
		r := &ordered[i]
		if !e.matches(r, q, rt) {
			continue
		}

		result.AppliedRuleIDs = append(result.AppliedRuleIDs, r.ID)

		switch action := r.Action.(type) {
		case rule.Block:
			// Block terminates evaluation. Nothing aggregated so far
			// survives: a blocked question produces no routable result.
			return nil, &BlockedError{Reason: action.Reason, RuleID: r.ID}

		case rule.ForceLocal, rule.ForceCloud:
			if effective == nil || action.Precedence() < effective.Precedence() {
				effective = action
			}

		case rule.RequireConfirmation:
			prompts = append(prompts, action.Prompt)
			if effective == nil || action.Precedence() < effective.Precedence() {
				effective = action
			}

		case rule.Warn:
			result.Warnings = append(result.Warnings, action.Message)
			if effective == nil || action.Precedence() < effective.Precedence() {
				effective = action
			}
		}
	}

	result.EffectiveAction = effective
	result.ConfirmationPrompt = strings.Join(prompts, "\n")
	return result, nil
}

// matches reports whether every condition of the rule evaluates true.
func (e *Engine) matches(r *rule.PolicyRule, q decision.Question, rt decision.RuntimeSnapshot) bool {
	for _, cond := range r.Conditions {
		if !e.EvaluateCondition(cond, q, rt) {
			return false
		}
	}
	return true
}

// sortedEnabled returns the enabled rules in total evaluation order. The
// input slice is never mutated; callers may share it across concurrent
// evaluations.
func sortedEnabled(rules []rule.PolicyRule) []rule.PolicyRule {
	ordered := make([]rule.PolicyRule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			ordered = append(ordered, r)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	return ordered
}
