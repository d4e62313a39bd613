package rule

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field identifies the question or runtime attribute a condition inspects.
type Field string

const (
	FieldContent      Field = "content"
	FieldTokenCount   Field = "token_count"
	FieldIntent       Field = "intent"
	FieldPrivacyLevel Field = "privacy_level"
)

// IsValid reports whether the field is one of the supported values.
func (f Field) IsValid() bool {
	switch f {
	case FieldContent, FieldTokenCount, FieldIntent, FieldPrivacyLevel:
		return true
	}
	return false
}

// Operator identifies the comparison applied by a condition.
type Operator string

const (
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorExceeds     Operator = "exceeds"
	OperatorLessThan    Operator = "less_than"
)

// IsValid reports whether the operator is one of the supported values.
func (o Operator) IsValid() bool {
	switch o {
	case OperatorContains, OperatorNotContains, OperatorEquals,
		OperatorNotEquals, OperatorExceeds, OperatorLessThan:
		return true
	}
	return false
}

// IsNumeric reports whether the operator compares numbers. Numeric
// operators require the condition value to parse as an integer, which is
// checked at rule-load time.
func (o Operator) IsNumeric() bool {
	return o == OperatorExceeds || o == OperatorLessThan
}

// Type categorizes a policy rule for display and metrics.
type Type string

const (
	TypePrivacy     Type = "privacy"
	TypeCost        Type = "cost"
	TypePerformance Type = "performance"
	TypeIntent      Type = "intent"
)

// IsValid reports whether the rule type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case TypePrivacy, TypeCost, TypePerformance, TypeIntent:
		return true
	}
	return false
}

// ConditionRule is a single (field, operator, value) predicate. All
// conditions of a rule must match for the rule to match.
type ConditionRule struct {
	Field    Field    `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    string   `yaml:"value" json:"value"`
}

// PolicyRule is a named, prioritized condition-action pair. Rules are
// immutable once loaded; editing a rule produces a new rule set snapshot.
type PolicyRule struct {
	// ID is the stable rule identifier. It participates in the engine's
	// total evaluation order as the tiebreaker after Priority.
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable rule name shown in editors and logs.
	Name string `yaml:"name" json:"name"`

	// Type categorizes the rule (privacy, cost, performance, intent).
	Type Type `yaml:"type" json:"type"`

	// Enabled disables the rule without deleting it when false.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Priority orders evaluation; lower values evaluate first.
	Priority int `yaml:"priority" json:"priority"`

	// Conditions are AND-combined; the list must be non-empty.
	Conditions []ConditionRule `yaml:"conditions" json:"conditions"`

	// Action is what a match demands. Exactly one per rule.
	Action Action `yaml:"-" json:"-"`
}

// actionDoc is the serialized shape of an Action.
type actionDoc struct {
	Type    ActionKind `yaml:"type" json:"type"`
	Reason  string     `yaml:"reason,omitempty" json:"reason,omitempty"`
	Prompt  string     `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Message string     `yaml:"message,omitempty" json:"message,omitempty"`
}

// ruleDoc is the serialized shape of a PolicyRule.
type ruleDoc struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Type       Type            `yaml:"type"`
	Enabled    bool            `yaml:"enabled"`
	Priority   int             `yaml:"priority"`
	Conditions []ConditionRule `yaml:"conditions"`
	Action     actionDoc       `yaml:"action"`
}

// decodeAction converts the serialized action shape into the sum type.
func decodeAction(doc actionDoc) (Action, error) {
	switch doc.Type {
	case ActionKindBlock:
		return Block{Reason: doc.Reason}, nil
	case ActionKindForceLocal:
		return ForceLocal{}, nil
	case ActionKindForceCloud:
		return ForceCloud{}, nil
	case ActionKindRequireConfirmation:
		return RequireConfirmation{Prompt: doc.Prompt}, nil
	case ActionKindWarn:
		return Warn{Message: doc.Message}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", doc.Type)
	}
}

// encodeAction converts the sum type into its serialized shape.
func encodeAction(a Action) actionDoc {
	switch v := a.(type) {
	case Block:
		return actionDoc{Type: ActionKindBlock, Reason: v.Reason}
	case ForceLocal:
		return actionDoc{Type: ActionKindForceLocal}
	case ForceCloud:
		return actionDoc{Type: ActionKindForceCloud}
	case RequireConfirmation:
		return actionDoc{Type: ActionKindRequireConfirmation, Prompt: v.Prompt}
	case Warn:
		return actionDoc{Type: ActionKindWarn, Message: v.Message}
	default:
		// The Action set is sealed; reaching this is a programming error.
		panic(fmt.Sprintf("unhandled action variant %T", a))
	}
}

// UnmarshalYAML decodes a rule, materializing the action sum type.
func (r *PolicyRule) UnmarshalYAML(node *yaml.Node) error {
	var doc ruleDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}

	action, err := decodeAction(doc.Action)
	if err != nil {
		return fmt.Errorf("rule %q: %w", doc.ID, err)
	}

	*r = PolicyRule{
		ID:         doc.ID,
		Name:       doc.Name,
		Type:       doc.Type,
		Enabled:    doc.Enabled,
		Priority:   doc.Priority,
		Conditions: doc.Conditions,
		Action:     action,
	}
	return nil
}

// MarshalYAML encodes a rule including its action.
func (r PolicyRule) MarshalYAML() (interface{}, error) {
	return ruleDoc{
		ID:         r.ID,
		Name:       r.Name,
		Type:       r.Type,
		Enabled:    r.Enabled,
		Priority:   r.Priority,
		Conditions: r.Conditions,
		Action:     encodeAction(r.Action),
	}, nil
}

// RuleFile is the on-disk document holding a rule set.
type RuleFile struct {
	Rules []PolicyRule `yaml:"rules"`
}

// ParseRules decodes and validates a YAML rule document.
func ParseRules(data []byte) ([]PolicyRule, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := ValidateRules(file.Rules); err != nil {
		return nil, err
	}
	return file.Rules, nil
}

// MarshalRules encodes a rule set into its YAML document form.
func MarshalRules(rules []PolicyRule) ([]byte, error) {
	return yaml.Marshal(RuleFile{Rules: rules})
}
