package routing

import (
	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/policy/engine"
	"mercator-hq/saturn/pkg/policy/rule"
	"mercator-hq/saturn/pkg/processing/tokens"
)

// Router turns policy results into routing decisions. It is a pure
// function holder: no I/O, no clock, no randomness, safe for unbounded
// concurrent use.
type Router struct {
	estimator tokens.Estimator
}

// Option configures a Router.
type Option func(*Router)

// WithEstimator replaces the token estimator used by auto mode. The
// replacement must be pure and deterministic; use the same estimator the
// policy engine uses so token_count conditions and the auto branch agree.
func WithEstimator(est tokens.Estimator) Option {
	return func(r *Router) {
		r.estimator = est
	}
}

// New creates a router.
func New(opts ...Option) *Router {
	r := &Router{estimator: tokens.NewSimpleEstimator()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route walks the fixed decision tree and produces exactly one Decision.
// The first matching step terminates evaluation. A Block never reaches the
// router: the policy engine surfaces it as an error before routing.
//
// The decision's trace id is the question id, so the router itself owns no
// randomness. Fallback escalation reuses the original trace id (see
// Escalate).
func (r *Router) Route(q decision.Question, rt decision.RuntimeSnapshot, policyResult *engine.Result) (*Decision, error) {
	// Step 1: policy override.
	if policyResult != nil {
		switch policyResult.EffectiveAction.(type) {
		case rule.ForceLocal:
			return r.decide(q, RouteLocal, rt.LocalModel.Name, RulePolicyForceLocal, false), nil

		case rule.ForceCloud:
			// A local privacy preference outranks a forcing rule:
			// content the user marked local never leaves the device.
			// Privacy enforcement below takes the question instead.
			if q.PrivacyLevel == decision.PrivacyLocal {
				break
			}
			// Cloud required by policy still needs a network that
			// permits it.
			if !rt.PermitsCloud() {
				return nil, &NetworkUnavailableError{NetworkState: rt.NetworkState, RuleID: RulePolicyForceCloud}
			}
			return r.decide(q, RouteCloud, rt.CloudModel, RulePolicyForceCloud, false), nil
		}
		// Warn and RequireConfirmation do not override the route.
	}

	// Step 2: privacy enforcement.
	switch q.PrivacyLevel {
	case decision.PrivacyLocal:
		// This path must never construct a network request, so network
		// state is deliberately not consulted.
		return r.decide(q, RouteLocal, rt.LocalModel.Name, RulePrivacyLocal, false), nil

	case decision.PrivacyCloud:
		if !rt.PermitsCloud() {
			return nil, &NetworkUnavailableError{NetworkState: rt.NetworkState, RuleID: RulePrivacyCloud}
		}
		return r.decide(q, RouteCloud, rt.CloudModel, RulePrivacyCloud, false), nil

	case decision.PrivacyAuto:
		return r.routeAuto(q, rt)

	default:
		return nil, &InvalidPrivacyLevelError{PrivacyLevel: q.PrivacyLevel}
	}
}

// routeAuto is step 3: the capability-based branch for auto mode.
func (r *Router) routeAuto(q decision.Question, rt decision.RuntimeSnapshot) (*Decision, error) {
	tokenCount := r.estimator.Estimate(q.Content)
	localOK := rt.LocalModel.Available && rt.LocalModel.SupportsIntent(q.Intent)

	// The threshold comparison is inclusive: a question estimating to
	// exactly the threshold stays local.
	if tokenCount <= rt.TokenThreshold && localOK {
		// The only path that ever allows fallback.
		return r.decide(q, RouteLocal, rt.LocalModel.Name, RuleAutoLocal, true), nil
	}

	if !rt.PermitsCloud() {
		return nil, &NetworkUnavailableError{NetworkState: rt.NetworkState, RuleID: RuleAutoCloud}
	}
	return r.decide(q, RouteCloud, rt.CloudModel, RuleAutoCloud, false), nil
}

// Escalate produces the terminal fallback decision after a failed local
// attempt has been explicitly confirmed by the user. The escalated
// question is a new Question; traceID is the trace id of the original
// decision, which the fallback decision must carry so the audit trail
// links both attempts.
//
// The fallback decision always routes to cloud and never allows a second
// fallback. The network must still permit cloud at escalation time.
func (r *Router) Escalate(escalated decision.Question, rt decision.RuntimeSnapshot, traceID string) (*Decision, error) {
	if !rt.PermitsCloud() {
		return nil, &NetworkUnavailableError{NetworkState: rt.NetworkState, RuleID: RuleLocalFailureFallback}
	}
	return &Decision{
		Route:           RouteCloud,
		Model:           rt.CloudModel,
		Reason:          RuleLocalFailureFallback.Describe(),
		RuleID:          RuleLocalFailureFallback,
		FallbackAllowed: false,
		Confidence:      1.0,
		TraceID:         traceID,
	}, nil
}

// decide assembles a Decision for one path of the tree.
func (r *Router) decide(q decision.Question, route Route, model string, id RuleID, fallback bool) *Decision {
	return &Decision{
		Route:           route,
		Model:           model,
		Reason:          id.Describe(),
		RuleID:          id,
		FallbackAllowed: fallback,
		Confidence:      1.0,
		TraceID:         q.ID,
	}
}
