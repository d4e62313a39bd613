package routing

import "fmt"

// RuleID identifies the decision path that produced a routing decision.
// The set is closed: adding a decision path requires adding both a new
// RuleID and its catalog description in the same change.
type RuleID string

const (
	RulePolicyBlock          RuleID = "POLICY_BLOCK"
	RulePolicyForceLocal     RuleID = "POLICY_FORCE_LOCAL"
	RulePolicyForceCloud     RuleID = "POLICY_FORCE_CLOUD"
	RulePrivacyLocal         RuleID = "PRIVACY_LOCAL"
	RulePrivacyCloud         RuleID = "PRIVACY_CLOUD"
	RuleAutoLocal            RuleID = "AUTO_LOCAL"
	RuleAutoCloud            RuleID = "AUTO_CLOUD"
	RuleLocalFailureFallback RuleID = "LOCAL_FAILURE_FALLBACK"
	RuleNetworkUnavailable   RuleID = "NETWORK_UNAVAILABLE"
)

// AllRuleIDs lists every RuleID. Tests use it to verify catalog totality.
var AllRuleIDs = []RuleID{
	RulePolicyBlock,
	RulePolicyForceLocal,
	RulePolicyForceCloud,
	RulePrivacyLocal,
	RulePrivacyCloud,
	RuleAutoLocal,
	RuleAutoCloud,
	RuleLocalFailureFallback,
	RuleNetworkUnavailable,
}

// Describe returns the human-readable description of a decision path. The
// mapping is total over the closed RuleID set and is used only for display
// and logging, never for branching logic.
//
// An unknown id is a programming error (a new path added without a catalog
// entry) and panics rather than returning a silent blank string.
func (id RuleID) Describe() string {
	switch id {
	case RulePolicyBlock:
		return "a policy rule blocked the question before routing"
	case RulePolicyForceLocal:
		return "a policy rule forced on-device execution"
	case RulePolicyForceCloud:
		return "a policy rule forced cloud execution"
	case RulePrivacyLocal:
		return "the user's privacy preference requires on-device execution"
	case RulePrivacyCloud:
		return "the user's privacy preference requires cloud execution"
	case RuleAutoLocal:
		return "auto mode chose the local model (within token threshold and capability)"
	case RuleAutoCloud:
		return "auto mode chose the cloud model (question exceeds local capability)"
	case RuleLocalFailureFallback:
		return "user-confirmed fallback to cloud after a failed local attempt"
	case RuleNetworkUnavailable:
		return "cloud execution was required but the network does not permit it"
	default:
		panic(fmt.Sprintf("routing: no catalog entry for rule id %q", id))
	}
}

// IsValid reports whether the id belongs to the closed set.
func (id RuleID) IsValid() bool {
	for _, known := range AllRuleIDs {
		if id == known {
			return true
		}
	}
	return false
}
