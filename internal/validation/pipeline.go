package validation

import (
	"encoding/json"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/taskhub/internal/errors"
)

// Rule is a named check over one field of a request payload of type T.
//
// Value extracts the field from the payload, Check is the predicate applied to it and
// Message replaces the predicate's own error text when set. Rules are declared once per
// operation and never built per request.
type Rule[T any] struct {
	Field   string
	Value   func(*T) any
	Check   validation.Rule
	Message string
}

// RuleSet is the ordered list of rules for one operation.
type RuleSet[T any] []Rule[T]

// Violation is a single failed rule.
type Violation struct {
	Field   string
	Message string
}

// MarshalJSON renders the violation as {"<field>": "<message>"}.
func (v Violation) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{v.Field: v.Message})
}

// Errors aggregates every violation produced by one Run.
// It unwraps to ErrInvalidInput.
type Errors struct {
	Violations []Violation
}

// Empty reports whether no rule failed.
func (e *Errors) Empty() bool {
	return e == nil || len(e.Violations) == 0
}

// Err returns e as an error, or nil when it holds no violations.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	if e.Empty() {
		return "validation passed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *Errors) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// Run applies every rule of the set to the payload, in declaration order, and collects
// all failures. A failing rule never stops the rules after it and several failures on the
// same field are all reported. The result is never nil.
func Run[T any](rules RuleSet[T], payload *T) *Errors {
	if payload == nil {
		payload = new(T)
	}

	result := &Errors{}
	for _, rule := range rules {
		if rule.Check == nil {
			continue
		}

		var value any
		if rule.Value != nil {
			value = rule.Value(payload)
		}

		if err := rule.Check.Validate(value); err != nil {
			msg := rule.Message
			if msg == "" {
				msg = err.Error()
			}
			result.Violations = append(result.Violations, Violation{Field: rule.Field, Message: msg})
		}
	}

	return result
}
