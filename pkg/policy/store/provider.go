package store

import (
	"time"

	"mercator-hq/saturn/pkg/policy/rule"
)

// Snapshot is an immutable view of a rule set at a point in time.
// Callers must not modify the returned rules.
type Snapshot struct {
	// Rules is the validated rule set.
	Rules []rule.PolicyRule

	// Version increments each time the provider swaps in a new set.
	Version uint64

	// LoadedAt records when this snapshot became current.
	LoadedAt time.Time
}

// Provider serves immutable rule snapshots to the decision pipeline.
type Provider interface {
	// Snapshot returns the current rule set. The returned snapshot is
	// stable for its lifetime even if the provider reloads afterwards.
	Snapshot() Snapshot
}

// cloneRules copies a rule slice so snapshot holders and store
// internals never alias the same backing array.
func cloneRules(rules []rule.PolicyRule) []rule.PolicyRule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]rule.PolicyRule, len(rules))
	copy(out, rules)
	for i := range out {
		if len(out[i].Conditions) > 0 {
			conds := make([]rule.ConditionRule, len(out[i].Conditions))
			copy(conds, out[i].Conditions)
			out[i].Conditions = conds
		}
	}
	return out
}
