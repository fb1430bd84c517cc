// Package validate evaluates form field rules before any network call.
// Rules are data, not code: each field carries a JavaScript expression
// (evaluated with goja) over two bound variables:
//
//	value:  the submitted field value (string, number, or bool)
//	record: the whole submitted form as an object
//
// Example rules:
//
//	value.length >= 2
//	value >= 1900 && value <= 2100
//	record.makeId !== "" || value === ""
//
// An expression returning a falsy value fails the rule. Rule sets live in the
// per-resource UI config; this package knows nothing about specific entities.
package validate

import (
	"fmt"

	"github.com/dop251/goja"
)

// Rule is one field-scoped validation rule.
type Rule struct {
	Expr    string // JavaScript expression; empty means always valid
	Message string // shown to the user when the rule fails
}

// Evaluator evaluates rules. A fresh JavaScript runtime is set up per
// evaluation; goja runtimes are not safe for concurrent use.
type Evaluator struct{}

// New creates a rule evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Eval runs one expression against a field value and its surrounding record.
// It returns whether the rule passed. A syntactically broken rule is an
// error, not a failure: misconfiguration must not be reported to end users
// as bad input.
func (e *Evaluator) Eval(expr string, value any, record map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}

	vm := goja.New()
	if err := vm.Set("value", value); err != nil {
		return false, fmt.Errorf("bind value: %w", err)
	}
	if record == nil {
		record = map[string]any{}
	}
	if err := vm.Set("record", record); err != nil {
		return false, fmt.Errorf("bind record: %w", err)
	}

	val, err := vm.RunString(expr)
	if err != nil {
		return false, fmt.Errorf("rule %q: %w", expr, err)
	}
	return val.ToBoolean(), nil
}

// Check evaluates a rule and converts a failure into the rule's message.
func (e *Evaluator) Check(r Rule, value any, record map[string]any) (string, error) {
	ok, err := e.Eval(r.Expr, value, record)
	if err != nil {
		return "", err
	}
	if ok {
		return "", nil
	}
	msg := r.Message
	if msg == "" {
		msg = "invalid value"
	}
	return msg, nil
}
