package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRule is the sentinel matched by all rule validation failures.
var ErrInvalidRule = errors.New("invalid rule configuration")

// ValidationError accumulates all structural problems found in a rule set.
// Validation runs at load time; the evaluation path assumes validated rules
// and never fails on these conditions.
type ValidationError struct {
	// Problems lists every validation failure, each prefixed with the
	// offending rule id.
	Problems []string
}

// Error returns a formatted message listing all problems.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid rule configuration: %s", e.Problems[0])
	}
	return fmt.Sprintf("invalid rule configuration (%d problems):\n  - %s",
		len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Is matches the ErrInvalidRule sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRule
}

// ValidateRules validates a whole rule set, including cross-rule
// constraints (duplicate ids). It accumulates every problem found rather
// than stopping at the first.
func ValidateRules(rules []PolicyRule) error {
	var problems []string

	seen := make(map[string]bool, len(rules))
	for i := range rules {
		r := &rules[i]
		problems = append(problems, validateRule(r)...)

		if r.ID != "" {
			if seen[r.ID] {
				problems = append(problems, fmt.Sprintf("%s: duplicate rule id", r.ID))
			}
			seen[r.ID] = true
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Validate validates a single rule.
func Validate(r PolicyRule) error {
	if problems := validateRule(&r); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateRule(r *PolicyRule) []string {
	var problems []string

	id := r.ID
	if id == "" {
		id = "(no id)"
		problems = append(problems, "(no id): rule id must not be empty")
	}

	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, id+": rule name must not be empty")
	}

	if !r.Type.IsValid() {
		problems = append(problems, fmt.Sprintf("%s: unknown rule type %q", id, r.Type))
	}

	if len(r.Conditions) == 0 {
		problems = append(problems, id+": rule must have at least one condition")
	}
	for i, cond := range r.Conditions {
		problems = append(problems, validateCondition(id, i, cond)...)
	}

	problems = append(problems, validateAction(id, r.Action)...)

	return problems
}

func validateCondition(ruleID string, index int, cond ConditionRule) []string {
	var problems []string

	if !cond.Field.IsValid() {
		problems = append(problems, fmt.Sprintf(
			"%s: condition %d: unknown field %q", ruleID, index, cond.Field))
	}
	if !cond.Operator.IsValid() {
		problems = append(problems, fmt.Sprintf(
			"%s: condition %d: unknown operator %q", ruleID, index, cond.Operator))
	}

	// Numeric operators must carry a numeric value. Catching this here
	// keeps the evaluator total: it never has to surface a parse error.
	if cond.Operator.IsNumeric() {
		if _, err := strconv.Atoi(cond.Value); err != nil {
			problems = append(problems, fmt.Sprintf(
				"%s: condition %d: operator %q requires a numeric value, got %q",
				ruleID, index, cond.Operator, cond.Value))
		}
	}

	return problems
}

func validateAction(ruleID string, a Action) []string {
	switch v := a.(type) {
	case Block:
		if strings.TrimSpace(v.Reason) == "" {
			return []string{ruleID + ": block action requires a reason"}
		}
	case RequireConfirmation:
		if strings.TrimSpace(v.Prompt) == "" {
			return []string{ruleID + ": require_confirmation action requires a prompt"}
		}
	case Warn:
		if strings.TrimSpace(v.Message) == "" {
			return []string{ruleID + ": warn action requires a message"}
		}
	case ForceLocal, ForceCloud:
		// No parameters.
	case nil:
		return []string{ruleID + ": rule must have an action"}
	default:
		return []string{fmt.Sprintf("%s: unhandled action variant %T", ruleID, a)}
	}
	return nil
}
