package rule

// ActionKind identifies an action variant in serialized form.
type ActionKind string

const (
	ActionKindBlock               ActionKind = "block"
	ActionKindForceLocal          ActionKind = "force_local"
	ActionKindForceCloud          ActionKind = "force_cloud"
	ActionKindRequireConfirmation ActionKind = "require_confirmation"
	ActionKindWarn                ActionKind = "warn"
)

// Action precedence weights. Lower wins conflict resolution.
const (
	PrecedenceBlock               = 1
	PrecedenceForceLocal          = 2
	PrecedenceForceCloud          = 3
	PrecedenceRequireConfirmation = 4
	PrecedenceWarn                = 5
)

// Action is the closed set of things a matching policy rule can demand.
//
// The set is sealed: only the five variants in this package implement it,
// and every consumer is expected to switch over the concrete types so that
// a new variant breaks compilation at each consumer rather than falling
// through a default branch.
type Action interface {
	// Kind returns the serialized identifier of the variant.
	Kind() ActionKind

	// Precedence returns the conflict-resolution weight. Lower values win
	// the effective-action slot; ForceLocal deliberately precedes
	// ForceCloud so that when both match, privacy wins regardless of rule
	// priority.
	Precedence() int

	sealed()
}

// Block stops the question from being routed at all. The reason is surfaced
// to the caller as part of the blocked outcome.
type Block struct {
	Reason string
}

func (Block) Kind() ActionKind { return ActionKindBlock }
func (Block) Precedence() int  { return PrecedenceBlock }
func (Block) sealed()          {}

// ForceLocal overrides routing to the on-device model.
type ForceLocal struct{}

func (ForceLocal) Kind() ActionKind { return ActionKindForceLocal }
func (ForceLocal) Precedence() int  { return PrecedenceForceLocal }
func (ForceLocal) sealed()          {}

// ForceCloud overrides routing to the cloud model.
type ForceCloud struct{}

func (ForceCloud) Kind() ActionKind { return ActionKindForceCloud }
func (ForceCloud) Precedence() int  { return PrecedenceForceCloud }
func (ForceCloud) sealed()          {}

// RequireConfirmation gates execution behind an explicit user confirmation
// with the given prompt. Prompts from multiple matching rules are all kept.
type RequireConfirmation struct {
	Prompt string
}

func (RequireConfirmation) Kind() ActionKind { return ActionKindRequireConfirmation }
func (RequireConfirmation) Precedence() int  { return PrecedenceRequireConfirmation }
func (RequireConfirmation) sealed()          {}

// Warn attaches a warning message to the decision without altering routing.
type Warn struct {
	Message string
}

func (Warn) Kind() ActionKind { return ActionKindWarn }
func (Warn) Precedence() int  { return PrecedenceWarn }
func (Warn) sealed()          {}
