package engine

import (
	"errors"
	"fmt"
)

// ErrPolicyBlocked is the sentinel matched by all blocked outcomes.
var ErrPolicyBlocked = errors.New("policy blocked")

// BlockedError is returned when a matching rule's Block action terminates
// evaluation. It is structurally distinct from a Result so a blocked
// question can never be treated as routable.
type BlockedError struct {
	// Reason is the block reason from the rule's action.
	Reason string

	// RuleID identifies the rule whose Block action matched.
	RuleID string
}

// Error implements the error interface.
func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked by rule %q: %s", e.RuleID, e.Reason)
}

// Is matches the ErrPolicyBlocked sentinel.
func (e *BlockedError) Is(target error) bool {
	return target == ErrPolicyBlocked
}
