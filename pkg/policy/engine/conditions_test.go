package engine

import (
	"strings"
	"testing"

	"mercator-hq/saturn/pkg/decision"
	"mercator-hq/saturn/pkg/policy/rule"
)

func TestEvaluateCondition(t *testing.T) {
	eng := New()
	rt := decision.RuntimeSnapshot{}

	question := decision.Question{
		ID:           "q-1",
		Content:      "please summarize my SSN is 123-45-6789",
		PrivacyLevel: decision.PrivacyAuto,
		Intent:       "summarize",
	}

	tests := []struct {
		name string
		cond rule.ConditionRule
		want bool
	}{
		{
			name: "content contains match",
			cond: rule.ConditionRule{Field: rule.FieldContent, Operator: rule.OperatorContains, Value: "SSN"},
			want: true,
		},
		{
			name: "content contains is case sensitive",
			cond: rule.ConditionRule{Field: rule.FieldContent, Operator: rule.OperatorContains, Value: "ssn"},
			want: false,
		},
		{
			name: "content not_contains",
			cond: rule.ConditionRule{Field: rule.FieldContent, Operator: rule.OperatorNotContains, Value: "passport"},
			want: true,
		},
		{
			name: "intent equals",
			cond: rule.ConditionRule{Field: rule.FieldIntent, Operator: rule.OperatorEquals, Value: "summarize"},
			want: true,
		},
		{
			name: "intent not_equals",
			cond: rule.ConditionRule{Field: rule.FieldIntent, Operator: rule.OperatorNotEquals, Value: "code"},
			want: true,
		},
		{
			name: "privacy_level equals",
			cond: rule.ConditionRule{Field: rule.FieldPrivacyLevel, Operator: rule.OperatorEquals, Value: "auto"},
			want: true,
		},
		{
			name: "token_count exceeds small threshold",
			cond: rule.ConditionRule{Field: rule.FieldTokenCount, Operator: rule.OperatorExceeds, Value: "5"},
			want: true,
		},
		{
			name: "token_count less_than large threshold",
			cond: rule.ConditionRule{Field: rule.FieldTokenCount, Operator: rule.OperatorLessThan, Value: "1000"},
			want: true,
		},
		{
			name: "unknown field fails closed",
			cond: rule.ConditionRule{Field: "session_id", Operator: rule.OperatorEquals, Value: "q-1"},
			want: false,
		},
		{
			name: "numeric operator on string field fails closed",
			cond: rule.ConditionRule{Field: rule.FieldContent, Operator: rule.OperatorExceeds, Value: "10"},
			want: false,
		},
		{
			name: "non-numeric value on numeric operator fails closed",
			cond: rule.ConditionRule{Field: rule.FieldTokenCount, Operator: rule.OperatorExceeds, Value: "many"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.EvaluateCondition(tt.cond, question, rt); got != tt.want {
				t.Errorf("EvaluateCondition(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestEvaluateCondition_TokenCountBoundary(t *testing.T) {
	eng := New()
	rt := decision.RuntimeSnapshot{}

	// 400 characters estimate to exactly 100 tokens.
	q := decision.Question{Content: strings.Repeat("x", 400)}

	exceeds := rule.ConditionRule{Field: rule.FieldTokenCount, Operator: rule.OperatorExceeds, Value: "100"}
	if eng.EvaluateCondition(exceeds, q, rt) {
		t.Error("exceeds must be strict: 100 does not exceed 100")
	}

	lessThan := rule.ConditionRule{Field: rule.FieldTokenCount, Operator: rule.OperatorLessThan, Value: "100"}
	if eng.EvaluateCondition(lessThan, q, rt) {
		t.Error("less_than must be strict: 100 is not less than 100")
	}
}
