package models

import (
	"fmt"
	"strings"
	"time"
)

// Operator is a comparison used by conditional display rules.
type Operator string

const (
	OperatorEquals    Operator = "equals"
	OperatorNotEquals Operator = "notEquals"
	OperatorContains  Operator = "contains"
)

// RuleLogic combines the conditions of a rule set.
type RuleLogic string

const (
	LogicAnd RuleLogic = "AND"
	LogicOr  RuleLogic = "OR"
)

// Condition compares the answer of another question against a value.
type Condition struct {
	QuestionKey string      `json:"questionKey"`
	Operator    Operator    `json:"operator"`
	Value       interface{} `json:"value"`
}

// ConditionalRules controls whether a question is shown, based on
// answers given to earlier questions.
type ConditionalRules struct {
	Logic      RuleLogic   `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

// Question maps one Airtable field into the form.
type Question struct {
	QuestionKey       string            `json:"questionKey"`
	FieldID           string            `json:"fieldId"`
	Label             string            `json:"label"`
	Type              string            `json:"type"`
	Required          bool              `json:"required"`
	Options           []string          `json:"options,omitempty"`
	OriginalFieldName string            `json:"originalFieldName,omitempty"`
	ConditionalRules  *ConditionalRules `json:"conditionalRules,omitempty"`
}

// Form represents a public form mapped onto one Airtable table.
// Webhook fields and the owner id are internal and never serialized.
type Form struct {
	ID            string     `json:"id" db:"id"`
	OwnerID       string     `json:"-" db:"owner_id"`
	Title         string     `json:"title" db:"title"`
	BaseID        string     `json:"baseId" db:"base_id"`
	TableID       string     `json:"tableId" db:"table_id"`
	TableName     string     `json:"tableName" db:"table_name"`
	Questions     []Question `json:"questions"`
	WebhookID     string     `json:"-" db:"webhook_id"`
	WebhookSecret string     `json:"-" db:"webhook_secret"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// FormSummary is the listing view of a form.
type FormSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TableName string    `json:"tableName"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Visible reports whether the question should be shown given the answers
// collected so far. Questions without rules are always visible.
func (q *Question) Visible(answers map[string]interface{}) bool {
	rules := q.ConditionalRules
	if rules == nil || len(rules.Conditions) == 0 {
		return true
	}

	for _, cond := range rules.Conditions {
		matched := cond.matches(answers)
		if rules.Logic == LogicOr && matched {
			return true
		}
		if rules.Logic != LogicOr && !matched {
			return false
		}
	}

	// AND: every condition matched. OR: none did.
	return rules.Logic != LogicOr
}

func (c Condition) matches(answers map[string]interface{}) bool {
	answer, ok := answers[c.QuestionKey]

	switch c.Operator {
	case OperatorEquals:
		return ok && valueString(answer) == valueString(c.Value)
	case OperatorNotEquals:
		return !ok || valueString(answer) != valueString(c.Value)
	case OperatorContains:
		if !ok {
			return false
		}
		switch v := answer.(type) {
		case []interface{}:
			for _, item := range v {
				if valueString(item) == valueString(c.Value) {
					return true
				}
			}
			return false
		case []string:
			for _, item := range v {
				if item == valueString(c.Value) {
					return true
				}
			}
			return false
		case string:
			return strings.Contains(v, valueString(c.Value))
		default:
			return false
		}
	default:
		return false
	}
}

func valueString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Validate checks form data before persisting.
func (f *Form) Validate() []string {
	var errors []string

	if f.BaseID == "" {
		errors = append(errors, "Base ID is required")
	}
	if f.TableID == "" {
		errors = append(errors, "Table ID is required")
	}
	for _, q := range f.Questions {
		if q.QuestionKey == "" {
			errors = append(errors, "Every question needs a question key")
			break
		}
	}

	return errors
}
