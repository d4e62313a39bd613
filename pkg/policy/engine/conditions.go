package engine

import (
	"strconv"
	"strings"

	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/policy/rule"
)

// EvaluateCondition evaluates a single condition against a question and
// runtime snapshot. It is total: every input produces a boolean, never an
// error. An unrecognized field fails closed and never matches; structural
// problems such as a non-numeric value on a numeric operator are caught by
// rule validation at load time, and evaluate to false here if they slip
// through.
func (e *Engine) EvaluateCondition(cond rule.ConditionRule, q decision.Question, rt decision.RuntimeSnapshot) bool {
	if cond.Operator.IsNumeric() {
		actual, ok := e.numericField(cond.Field, q)
		if !ok {
			return false
		}
		expected, err := strconv.Atoi(cond.Value)
		if err != nil {
			return false
		}
		return evaluateNumericOperator(cond.Operator, actual, expected)
	}

	actual, ok := stringField(cond.Field, q)
	if !ok {
		return false
	}
	return evaluateStringOperator(cond.Operator, actual, cond.Value)
}

// stringField extracts the string representation of a field. The second
// return is false for fields with no string form.
func stringField(f rule.Field, q decision.Question) (string, bool) {
	switch f {
	case rule.FieldContent:
		return q.Content, true
	case rule.FieldIntent:
		return q.Intent, true
	case rule.FieldPrivacyLevel:
		return string(q.PrivacyLevel), true
	default:
		return "", false
	}
}

// numericField extracts the numeric value of a field. Only token_count is
// numeric; it is derived from the question content by the engine's
// estimator, never read from mutable state.
func (e *Engine) numericField(f rule.Field, q decision.Question) (int, bool) {
	switch f {
	case rule.FieldTokenCount:
		return e.estimator.Estimate(q.Content), true
	default:
		return 0, false
	}
}

func evaluateStringOperator(op rule.Operator, actual, expected string) bool {
	switch op {
	case rule.OperatorContains:
		return strings.Contains(actual, expected)
	case rule.OperatorNotContains:
		return !strings.Contains(actual, expected)
	case rule.OperatorEquals:
		return actual == expected
	case rule.OperatorNotEquals:
		return actual != expected
	default:
		return false
	}
}

func evaluateNumericOperator(op rule.Operator, actual, expected int) bool {
	switch op {
	case rule.OperatorExceeds:
		return actual > expected
	case rule.OperatorLessThan:
		return actual < expected
	default:
		return false
	}
}
