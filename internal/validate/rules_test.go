package validate

import (
	"strings"
	"testing"
)

func TestEvalValueRules(t *testing.T) {
	e := New()
	tests := []struct {
		name  string
		expr  string
		value any
		want  bool
	}{
		{"empty rule always passes", "", "anything", true},
		{"string length ok", "value.length >= 2", "ab", true},
		{"string length short", "value.length >= 2", "a", false},
		{"year in range", "value >= 1900 && value <= 2100", 2021, true},
		{"year out of range", "value >= 1900 && value <= 2100", 1850, false},
		{"price positive", "value > 0", 15000.50, true},
		{"price zero", "value > 0", 0.0, false},
		{"email shape", `value.indexOf("@") > 0`, "sales@dealer.test", true},
		{"email missing at", `value.indexOf("@") > 0`, "not-an-email", false},
		{"truthy non-bool result", "value", "nonempty", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(tt.expr, tt.value, nil)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q, %v) = %v, want %v", tt.expr, tt.value, got, tt.want)
			}
		})
	}
}

func TestEvalRecordAccess(t *testing.T) {
	e := New()
	record := map[string]any{"makeId": "mk_1", "modelId": ""}

	ok, err := e.Eval(`record.makeId !== ""`, "", record)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !ok {
		t.Error("record.makeId check failed, want pass")
	}

	ok, err = e.Eval(`record.modelId !== ""`, "", record)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if ok {
		t.Error("empty modelId check passed, want fail")
	}
}

func TestEvalBrokenRuleIsError(t *testing.T) {
	e := New()
	_, err := e.Eval("value >>>", "x", nil)
	if err == nil {
		t.Fatal("broken expression should be an error, not a validation failure")
	}
	if !strings.Contains(err.Error(), "rule") {
		t.Errorf("err = %v, want rule context", err)
	}
}

func TestCheckMessage(t *testing.T) {
	e := New()

	msg, err := e.Check(Rule{Expr: "value > 0", Message: "price must be positive"}, -5, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if msg != "price must be positive" {
		t.Errorf("msg = %q, want configured message", msg)
	}

	msg, err = e.Check(Rule{Expr: "value > 0"}, -5, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if msg != "invalid value" {
		t.Errorf("msg = %q, want fallback message", msg)
	}

	msg, err = e.Check(Rule{Expr: "value > 0", Message: "no"}, 10, nil)
	if err != nil || msg != "" {
		t.Errorf("passing rule: msg=%q err=%v, want empty/nil", msg, err)
	}
}
