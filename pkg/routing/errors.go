package routing

import (
	"errors"
	"fmt"

	"mercator-hq/saturn/pkg/decision"
)

// Common routing errors that can be checked with errors.Is().
var (
	// ErrNetworkUnavailable is returned when cloud execution is required
	// by policy, preference, or auto mode but the network state does not
	// permit it.
	ErrNetworkUnavailable = errors.New("network unavailable for cloud routing")

	// ErrFallbackNotAllowed is returned when a fallback escalation is
	// attempted for a decision that never allowed one.
	ErrFallbackNotAllowed = errors.New("fallback not allowed for this decision")

	// ErrInvalidPrivacyLevel is returned for a question whose privacy
	// level is outside the known set.
	ErrInvalidPrivacyLevel = errors.New("invalid privacy level")
)

// NetworkUnavailableError reports that a required cloud route could not be
// taken. RuleID records which decision path required cloud.
type NetworkUnavailableError struct {
	// NetworkState is the state that blocked the route.
	NetworkState decision.NetworkState

	// RuleID is the decision path that required a cloud route.
	RuleID RuleID
}

// Error implements the error interface.
func (e *NetworkUnavailableError) Error() string {
	return fmt.Sprintf("cloud routing required (%s) but network state is %q",
		e.RuleID, e.NetworkState)
}

// Is implements error matching for errors.Is().
func (e *NetworkUnavailableError) Is(target error) bool {
	return target == ErrNetworkUnavailable
}

// InvalidPrivacyLevelError reports a question with an unrecognized privacy
// level. Well-formed questions never trigger it; it guards against callers
// bypassing the question constructor.
type InvalidPrivacyLevelError struct {
	PrivacyLevel decision.PrivacyLevel
}

// Error implements the error interface.
func (e *InvalidPrivacyLevelError) Error() string {
	return fmt.Sprintf("question has invalid privacy level %q", e.PrivacyLevel)
}

// Is implements error matching for errors.Is().
func (e *InvalidPrivacyLevelError) Is(target error) bool {
	return target == ErrInvalidPrivacyLevel
}
