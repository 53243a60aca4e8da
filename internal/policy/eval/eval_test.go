package eval

import (
	"errors"
	"testing"
)

func TestEval_ComparisonsAndLogic(t *testing.T) {
	vars := map[string]any{
		"triggered": false,
		"top_pct":   86,
	}

	ok, err := Eval(`!triggered && top_pct >= 80`, vars)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
}

func TestEval_StringEquality(t *testing.T) {
	vars := map[string]any{"muac": "red"}

	ok, err := Eval(`muac == "red"`, vars)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
}

func TestEval_EmptyCondIsTrue(t *testing.T) {
	ok, err := Eval("   ", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected empty cond to be true")
	}
}

func TestValidate_BlocksArithmetic(t *testing.T) {
	_, err := Eval(`x+1==2`, map[string]any{"x": 1})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate_BlocksFunctionCall(t *testing.T) {
	_, err := Eval(`len(x)==1`, map[string]any{"x": "a"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate_BlocksMemberAccess(t *testing.T) {
	if err := Validate(`answers.fever`); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate_AllowsParentheses(t *testing.T) {
	vars := map[string]any{"cough": true, "chest_indrawing": false, "stridor": true}

	ok, err := Eval(`cough && (chest_indrawing || stridor)`, vars)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
}

func TestCompile_CollectsVars(t *testing.T) {
	c, err := Compile(`fever && young_infant || fever`)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Vars) != 2 || c.Vars[0] != "fever" || c.Vars[1] != "young_infant" {
		t.Fatalf("unexpected vars: %v", c.Vars)
	}
}

func TestCompiled_MissingVars(t *testing.T) {
	c := MustCompile(`fever && stridor`)

	_, err := c.Eval(map[string]any{"fever": true})
	var mv *MissingVariablesError
	if !errors.As(err, &mv) {
		t.Fatalf("expected MissingVariablesError, got %v", err)
	}
	if len(mv.Vars) != 1 || mv.Vars[0] != "stridor" {
		t.Fatalf("unexpected missing vars: %v", mv.Vars)
	}
}

func TestCompiled_NonBoolResult(t *testing.T) {
	c := MustCompile(`top_pct`)

	if _, err := c.Eval(map[string]any{"top_pct": 3}); err == nil {
		t.Fatalf("expected error for non-bool result")
	}
}
