package styleopts

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func conditionContext() ConditionContext {
	return ConditionContext{
		Context:  "page",
		Bundle:   "hero",
		Region:   "content",
		OptionID: "spacing",
		Metadata: map[string]any{"tier": "premium"},
		Now:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestEvaluatorsAgree(t *testing.T) {
	cases := []struct {
		evaluator Evaluator
		truthy    string
		falsy     string
	}{
		{NewExprEvaluator(), `context == "page" && metadata.tier == "premium"`, `bundle == "card"`},
		{NewCELEvaluator(), `context == "page" && metadata.tier == "premium"`, `bundle == "card"`},
		{NewJSEvaluator(), `context === "page" && metadata.tier === "premium" && now > 0`, `bundle === "card"`},
	}
	for _, tc := range cases {
		t.Run(tc.evaluator.Engine(), func(t *testing.T) {
			ok, err := tc.evaluator.Evaluate(conditionContext(), tc.truthy)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if !ok {
				t.Fatalf("expected %q to be true", tc.truthy)
			}
			ok, err = tc.evaluator.Evaluate(conditionContext(), tc.falsy)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if ok {
				t.Fatalf("expected %q to be false", tc.falsy)
			}
		})
	}
}

func TestEvaluatorsRejectEmptyExpression(t *testing.T) {
	for _, evaluator := range []Evaluator{NewExprEvaluator(), NewCELEvaluator(), NewJSEvaluator()} {
		if _, err := evaluator.Evaluate(conditionContext(), ""); err == nil {
			t.Fatalf("%s: expected error for empty expression", evaluator.Engine())
		}
	}
}

func TestEvaluatorsRejectNonBoolean(t *testing.T) {
	if err := NewExprEvaluator().Compile("context"); err == nil {
		t.Fatalf("expr: expected compile error for string expression")
	}
	if err := NewCELEvaluator().Compile("context"); err == nil {
		t.Fatalf("cel: expected compile error for string expression")
	}
	_, err := NewJSEvaluator().Evaluate(conditionContext(), "context")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("js: expected EvaluationError, got %v", err)
	}
	if !strings.Contains(evalErr.Error(), "want bool") {
		t.Fatalf("unexpected message %q", evalErr.Error())
	}
}

func TestEvaluatorsUseProgramCache(t *testing.T) {
	cases := []struct {
		name       string
		build      func(ProgramCache) Evaluator
		expression string
		key        string
	}{
		{"expr", func(c ProgramCache) Evaluator { return NewExprEvaluator(ExprWithProgramCache(c)) }, `region == "content"`, "expr:"},
		{"cel", func(c ProgramCache) Evaluator { return NewCELEvaluator(CELWithProgramCache(c)) }, `region == "content"`, "cel:"},
		{"js", func(c ProgramCache) Evaluator { return NewJSEvaluator(JSWithProgramCache(c)) }, `region === "content"`, "js:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cache := NewProgramCache()
			evaluator := tc.build(cache)
			if err := evaluator.Compile(tc.expression); err != nil {
				t.Fatalf("compile: %v", err)
			}
			if _, ok := cache.Get(tc.key + tc.expression); !ok {
				t.Fatalf("expected compiled program in cache")
			}
			ok, err := evaluator.Evaluate(conditionContext(), tc.expression)
			if err != nil || !ok {
				t.Fatalf("expected cached program to evaluate true, got %v %v", ok, err)
			}
		})
	}
}

func TestFunctionRegistryHelpers(t *testing.T) {
	registry := NewFunctionRegistry()
	upper := func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("upper expects one argument")
		}
		return strings.ToUpper(AsString(args[0])), nil
	}
	if err := registry.Register("upper", upper); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("UPPER", upper); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	exprEval := NewExprEvaluator(ExprWithFunctionRegistry(registry))
	ok, err := exprEval.Evaluate(conditionContext(), `upper(context) == "PAGE"`)
	if err != nil || !ok {
		t.Fatalf("expr helper: expected true, got %v %v", ok, err)
	}

	jsEval := NewJSEvaluator(JSWithFunctionRegistry(registry))
	ok, err = jsEval.Evaluate(conditionContext(), `upper(context) === "PAGE" && call("upper", bundle) === "HERO"`)
	if err != nil || !ok {
		t.Fatalf("js helper: expected true, got %v %v", ok, err)
	}

	for _, bad := range []string{"", "1st", "has-class", "region is"} {
		if err := registry.Register(bad, upper); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}

	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected error for unknown helper")
	}
	if names := registry.Clone().Names(); len(names) != 1 || names[0] != "upper" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestEvaluateConditionLogsAndDefaults(t *testing.T) {
	var events []LogEvent
	logger := LoggerFunc(func(event LogEvent) { events = append(events, event) })

	ok, err := evaluateCondition(NewExprEvaluator(), logger, ConditionContext{}, "")
	if err != nil || !ok {
		t.Fatalf("expected empty condition to apply")
	}
	if len(events) != 0 {
		t.Fatalf("expected no events for empty condition")
	}

	ok, err = evaluateCondition(NewExprEvaluator(), logger, ConditionContext{OptionID: "hero"}, `metadata.missing == nil`)
	if err != nil || !ok {
		t.Fatalf("expected defaults to provide metadata, got %v %v", ok, err)
	}
	if len(events) != 1 || events[0].Engine != "expr" || events[0].OptionID != "hero" {
		t.Fatalf("unexpected events %+v", events)
	}

	if _, err := evaluateCondition(nil, logger, ConditionContext{}, "true"); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}
