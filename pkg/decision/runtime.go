package decision

// NetworkState describes network reachability at decision time.
type NetworkState string

const (
	// NetworkOnline means the network is fully available.
	NetworkOnline NetworkState = "online"

	// NetworkDegraded means the network is reachable but slow or lossy.
	// Degraded is a latency concern for the execution layer, not a
	// routing concern: by default it still permits cloud routing.
	NetworkDegraded NetworkState = "degraded"

	// NetworkOffline means no network is available. Cloud routing is
	// impossible in this state.
	NetworkOffline NetworkState = "offline"
)

// IsValid reports whether the network state is one of the known values.
func (n NetworkState) IsValid() bool {
	switch n {
	case NetworkOnline, NetworkDegraded, NetworkOffline:
		return true
	}
	return false
}

// LocalModel describes the on-device model capability at decision time.
type LocalModel struct {
	// Name is the local model identifier (e.g., "phi-3-mini").
	Name string `json:"name" yaml:"name"`

	// MaxTokens is the model's context window size.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// SupportedIntents lists the intent tags the local model handles.
	// An empty list means every intent is acceptable.
	SupportedIntents []string `json:"supported_intents" yaml:"supported_intents"`

	// Available reports whether the model is loaded and ready.
	Available bool `json:"available" yaml:"available"`
}

// SupportsIntent reports whether the local model can serve the given intent.
// An unclassified question (empty intent) is always supported; a tagged
// question requires its intent to appear in SupportedIntents, so a model
// advertising no intents serves only unclassified questions.
func (m LocalModel) SupportsIntent(intent string) bool {
	if intent == "" {
		return true
	}
	for _, s := range m.SupportedIntents {
		if s == intent {
			return true
		}
	}
	return false
}

// RuntimeSnapshot is a point-in-time view of the world used for one routing
// decision. It is constructed fresh per decision and never mutated during
// evaluation; concurrent decisions each hold their own snapshot.
type RuntimeSnapshot struct {
	// LocalModel is the on-device model capability.
	LocalModel LocalModel `json:"local_model" yaml:"local_model"`

	// NetworkState is the current network reachability.
	NetworkState NetworkState `json:"network_state" yaml:"network_state"`

	// TokenThreshold is the maximum estimated token count that auto mode
	// will route to the local model. The comparison is inclusive.
	TokenThreshold int `json:"token_threshold" yaml:"token_threshold"`

	// CloudModel is the model identifier used when routing to cloud.
	CloudModel string `json:"cloud_model" yaml:"cloud_model"`

	// DegradedPermitsCloud controls whether a degraded network still
	// permits cloud routing. Defaults to true in configuration; only
	// offline ever blocks cloud when this is set.
	DegradedPermitsCloud bool `json:"degraded_permits_cloud" yaml:"degraded_permits_cloud"`
}

// PermitsCloud reports whether the snapshot's network state allows a cloud
// request to be attempted. Offline never permits cloud; degraded permits it
// unless DegradedPermitsCloud is disabled.
func (r RuntimeSnapshot) PermitsCloud() bool {
	switch r.NetworkState {
	case NetworkOnline:
		return true
	case NetworkDegraded:
		return r.DegradedPermitsCloud
	default:
		return false
	}
}
