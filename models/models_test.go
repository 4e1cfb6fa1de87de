package models

import (
	"testing"
	"time"
)

func TestTokenFresh(t *testing.T) {
	margin := 5 * time.Minute

	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{
			name:     "expiry well in the future",
			user:     User{AccessToken: "tok", TokenExpiry: time.Now().Add(time.Hour)},
			expected: true,
		},
		{
			name:     "expiry inside the margin",
			user:     User{AccessToken: "tok", TokenExpiry: time.Now().Add(2 * time.Minute)},
			expected: false,
		},
		{
			name:     "expiry in the past",
			user:     User{AccessToken: "tok", TokenExpiry: time.Now().Add(-time.Hour)},
			expected: false,
		},
		{
			name:     "no access token",
			user:     User{TokenExpiry: time.Now().Add(time.Hour)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.TokenFresh(margin); got != tt.expected {
				t.Errorf("TokenFresh() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestQuestionVisible(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		answers  map[string]interface{}
		expected bool
	}{
		{
			name:     "no rules is always visible",
			question: Question{QuestionKey: "q1"},
			answers:  map[string]interface{}{},
			expected: true,
		},
		{
			name: "equals matches",
			question: Question{QuestionKey: "q2", ConditionalRules: &ConditionalRules{
				Logic:      LogicAnd,
				Conditions: []Condition{{QuestionKey: "q1", Operator: OperatorEquals, Value: "yes"}},
			}},
			answers:  map[string]interface{}{"q1": "yes"},
			expected: true,
		},
		{
			name: "equals does not match",
			question: Question{QuestionKey: "q2", ConditionalRules: &ConditionalRules{
				Logic:      LogicAnd,
				Conditions: []Condition{{QuestionKey: "q1", Operator: OperatorEquals, Value: "yes"}},
			}},
			answers:  map[string]interface{}{"q1": "no"},
			expected: false,
		},
		{
			name: "notEquals with missing answer matches",
			question: Question{QuestionKey: "q2", ConditionalRules: &ConditionalRules{
				Logic:      LogicAnd,
				Conditions: []Condition{{QuestionKey: "q1", Operator: OperatorNotEquals, Value: "yes"}},
			}},
			answers:  map[string]interface{}{},
			expected: true,
		},
		{
			name: "contains on multi-select answer",
			question: Question{QuestionKey: "q2", ConditionalRules: &ConditionalRules{
				Logic:      LogicAnd,
				Conditions: []Condition{{QuestionKey: "q1", Operator: OperatorContains, Value: "b"}},
			}},
			answers:  map[string]interface{}{"q1": []interface{}{"a", "b"}},
			expected: true,
		},
		{
			name: "contains on string answer",
			question: Question{QuestionKey: "q2", ConditionalRules: &ConditionalRules{
				Logic:      LogicAnd,
				Conditions: []Condition{{QuestionKey: "q1", Operator: OperatorContains, Value: "ell"}},
			}},
			answers:  map[string]interface{}{"q1": "hello"},
			expected: true,
		},
		{
			name: "AND needs every condition",
			question: Question{QuestionKey: "q3", ConditionalRules: &ConditionalRules{
				Logic: LogicAnd,
				Conditions: []Condition{
					{QuestionKey: "q1", Operator: OperatorEquals, Value: "yes"},
					{QuestionKey: "q2", Operator: OperatorEquals, Value: "yes"},
				},
			}},
			answers:  map[string]interface{}{"q1": "yes", "q2": "no"},
			expected: false,
		},
		{
			name: "OR needs any condition",
			question: Question{QuestionKey: "q3", ConditionalRules: &ConditionalRules{
				Logic: LogicOr,
				Conditions: []Condition{
					{QuestionKey: "q1", Operator: OperatorEquals, Value: "yes"},
					{QuestionKey: "q2", Operator: OperatorEquals, Value: "yes"},
				},
			}},
			answers:  map[string]interface{}{"q1": "no", "q2": "yes"},
			expected: true,
		},
		{
			name: "OR with no matches",
			question: Question{QuestionKey: "q3", ConditionalRules: &ConditionalRules{
				Logic: LogicOr,
				Conditions: []Condition{
					{QuestionKey: "q1", Operator: OperatorEquals, Value: "yes"},
					{QuestionKey: "q2", Operator: OperatorEquals, Value: "yes"},
				},
			}},
			answers:  map[string]interface{}{"q1": "no", "q2": "no"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.question.Visible(tt.answers); got != tt.expected {
				t.Errorf("Visible() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFormValidate(t *testing.T) {
	form := &Form{
		BaseID:  "appBase",
		TableID: "tblTable",
		Questions: []Question{
			{QuestionKey: "q1", FieldID: "fld1", Label: "Name", Type: "singleLineText"},
		},
	}

	if problems := form.Validate(); len(problems) != 0 {
		t.Errorf("Expected no validation problems, got %v", problems)
	}

	missing := &Form{}
	problems := missing.Validate()
	if len(problems) != 2 {
		t.Errorf("Expected 2 validation problems, got %d: %v", len(problems), problems)
	}

	badQuestion := &Form{
		BaseID:    "appBase",
		TableID:   "tblTable",
		Questions: []Question{{FieldID: "fld1"}},
	}
	if problems := badQuestion.Validate(); len(problems) != 1 {
		t.Errorf("Expected 1 validation problem, got %d: %v", len(problems), problems)
	}
}
