package rule

import (
	"errors"
	"strings"
	"testing"
)

const sampleRules = `
rules:
  - id: block-ssn
    name: Block SSN content
    type: privacy
    enabled: true
    priority: 1
    conditions:
      - field: content
        operator: contains
        value: "SSN"
    action:
      type: block
      reason: "pii"
  - id: long-prompt-confirm
    name: Confirm long prompts
    type: cost
    enabled: true
    priority: 10
    conditions:
      - field: token_count
        operator: exceeds
        value: "2000"
    action:
      type: require_confirmation
      prompt: "This prompt is large and may be slow. Continue?"
  - id: force-local-medical
    name: Keep medical questions on device
    type: privacy
    enabled: false
    priority: 5
    conditions:
      - field: intent
        operator: equals
        value: "medical"
    action:
      type: force_local
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}

	block, ok := rules[0].Action.(Block)
	if !ok {
		t.Fatalf("rule 0 action = %T, want Block", rules[0].Action)
	}
	if block.Reason != "pii" {
		t.Errorf("block reason = %q, want %q", block.Reason, "pii")
	}

	confirm, ok := rules[1].Action.(RequireConfirmation)
	if !ok {
		t.Fatalf("rule 1 action = %T, want RequireConfirmation", rules[1].Action)
	}
	if confirm.Prompt == "" {
		t.Error("expected confirmation prompt to be preserved")
	}

	if _, ok := rules[2].Action.(ForceLocal); !ok {
		t.Fatalf("rule 2 action = %T, want ForceLocal", rules[2].Action)
	}
	if rules[2].Enabled {
		t.Error("rule 2 should be disabled")
	}
}

func TestParseRules_UnknownAction(t *testing.T) {
	doc := `
rules:
  - id: bad
    name: Bad action
    type: privacy
    enabled: true
    priority: 1
    conditions:
      - field: content
        operator: contains
        value: "x"
    action:
      type: escalate
`
	if _, err := ParseRules([]byte(doc)); err == nil {
		t.Fatal("expected error for unknown action type")
	}
}

func TestMarshalRules_RoundTrip(t *testing.T) {
	rules := []PolicyRule{
		{
			ID:       "warn-cloud",
			Name:     "Warn about cloud usage",
			Type:     TypePrivacy,
			Enabled:  true,
			Priority: 3,
			Conditions: []ConditionRule{
				{Field: FieldPrivacyLevel, Operator: OperatorEquals, Value: "cloud"},
			},
			Action: Warn{Message: "this question will be sent to the cloud"},
		},
	}

	data, err := MarshalRules(rules)
	if err != nil {
		t.Fatalf("MarshalRules() error: %v", err)
	}

	parsed, err := ParseRules(data)
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(parsed))
	}
	warn, ok := parsed[0].Action.(Warn)
	if !ok {
		t.Fatalf("action = %T, want Warn", parsed[0].Action)
	}
	if warn.Message != "this question will be sent to the cloud" {
		t.Errorf("warn message changed in round trip: %q", warn.Message)
	}
}

func TestValidateRules(t *testing.T) {
	valid := PolicyRule{
		ID:       "ok",
		Name:     "Valid rule",
		Type:     TypeCost,
		Enabled:  true,
		Priority: 1,
		Conditions: []ConditionRule{
			{Field: FieldTokenCount, Operator: OperatorExceeds, Value: "100"},
		},
		Action: Warn{Message: "big"},
	}

	tests := []struct {
		name    string
		mutate  func(r PolicyRule) PolicyRule
		wantErr string
	}{
		{
			name:   "valid rule passes",
			mutate: func(r PolicyRule) PolicyRule { return r },
		},
		{
			name: "empty name",
			mutate: func(r PolicyRule) PolicyRule {
				r.Name = "  "
				return r
			},
			wantErr: "name must not be empty",
		},
		{
			name: "no conditions",
			mutate: func(r PolicyRule) PolicyRule {
				r.Conditions = nil
				return r
			},
			wantErr: "at least one condition",
		},
		{
			name: "non-numeric value on numeric operator",
			mutate: func(r PolicyRule) PolicyRule {
				r.Conditions = []ConditionRule{
					{Field: FieldTokenCount, Operator: OperatorExceeds, Value: "lots"},
				}
				return r
			},
			wantErr: "requires a numeric value",
		},
		{
			name: "unknown field",
			mutate: func(r PolicyRule) PolicyRule {
				r.Conditions = []ConditionRule{
					{Field: "user_agent", Operator: OperatorEquals, Value: "x"},
				}
				return r
			},
			wantErr: "unknown field",
		},
		{
			name: "block without reason",
			mutate: func(r PolicyRule) PolicyRule {
				r.Action = Block{}
				return r
			},
			wantErr: "requires a reason",
		},
		{
			name: "confirmation without prompt",
			mutate: func(r PolicyRule) PolicyRule {
				r.Action = RequireConfirmation{}
				return r
			},
			wantErr: "requires a prompt",
		},
		{
			name: "warn without message",
			mutate: func(r PolicyRule) PolicyRule {
				r.Action = Warn{}
				return r
			},
			wantErr: "requires a message",
		},
		{
			name: "missing action",
			mutate: func(r PolicyRule) PolicyRule {
				r.Action = nil
				return r
			},
			wantErr: "must have an action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules([]PolicyRule{tt.mutate(valid)})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("error does not match ErrInvalidRule: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRules_DuplicateIDs(t *testing.T) {
	r := PolicyRule{
		ID:       "dup",
		Name:     "Rule",
		Type:     TypeIntent,
		Enabled:  true,
		Priority: 1,
		Conditions: []ConditionRule{
			{Field: FieldIntent, Operator: OperatorEquals, Value: "code"},
		},
		Action: ForceLocal{},
	}

	err := ValidateRules([]PolicyRule{r, r})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if !strings.Contains(err.Error(), "duplicate rule id") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestActionPrecedence_Ordering(t *testing.T) {
	// Precedence drives conflict resolution; the relative order is part of
	// the engine's contract. ForceLocal preceding ForceCloud is the
	// privacy-first tie-break.
	ordered := []Action{Block{}, ForceLocal{}, ForceCloud{}, RequireConfirmation{}, Warn{}}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Precedence() >= ordered[i].Precedence() {
			t.Errorf("precedence of %s (%d) must be lower than %s (%d)",
				ordered[i-1].Kind(), ordered[i-1].Precedence(),
				ordered[i].Kind(), ordered[i].Precedence())
		}
	}
}
