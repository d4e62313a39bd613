package routing

// Route is the execution target of a decision.
type Route string

const (
	// RouteLocal executes on the device's local model.
	RouteLocal Route = "local"

	// RouteCloud executes on the remote cloud model.
	RouteCloud Route = "cloud"
)

// Decision is the final, immutable verdict for one question. It is
// produced fresh per call and consumed exactly once by the execution
// layer; the engine keeps no memory of it.
type Decision struct {
	// Route is the execution target.
	Route Route `json:"route"`

	// Model is the model identifier for the chosen route, taken verbatim
	// from the runtime snapshot. The router never infers a model from
	// prompt content, sentiment, or history.
	Model string `json:"model"`

	// Reason is the catalog description of the decision path.
	Reason string `json:"reason"`

	// RuleID identifies the decision path.
	RuleID RuleID `json:"rule_id"`

	// FallbackAllowed marks whether a failed execution may escalate to
	// cloud after explicit user confirmation. Only the AUTO_LOCAL path
	// ever sets this.
	FallbackAllowed bool `json:"fallback_allowed"`

	// Confidence is always 1.0: decisions are never probabilistic.
	Confidence float64 `json:"confidence"`

	// TraceID links the decision to its execution log records. A
	// fallback decision carries the trace id of the original decision.
	TraceID string `json:"trace_id"`
}
