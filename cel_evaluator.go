package styleopts

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

type celEvaluator struct {
	cache ProgramCache
	env   *celgo.Env
	err   error
}

// NewCELEvaluator constructs a condition evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.env, e.err = celgo.NewEnv(
		celgo.Variable("context", celgo.StringType),
		celgo.Variable("bundle", celgo.StringType),
		celgo.Variable("region", celgo.StringType),
		celgo.Variable("option", celgo.StringType),
		celgo.Variable("metadata", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("now", celgo.TimestampType),
	)
	return e
}

func (e *celEvaluator) Engine() string { return "cel" }

func (e *celEvaluator) Compile(expression string) error {
	_, err := e.loadOrCompile(expression)
	return err
}

func (e *celEvaluator) Evaluate(ctx ConditionContext, expression string) (bool, error) {
	if expression == "" {
		return false, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return false, err
	}
	out, _, err := program.Eval(ctx.withDefaults().variables())
	if err != nil {
		return false, err
	}
	return asBool(e.Engine(), expression, out.Value())
}

func (e *celEvaluator) loadOrCompile(expression string) (celgo.Program, error) {
	if e.err != nil {
		return nil, e.err
	}
	key := "cel:" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("condition must evaluate to bool, got %s", out)
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}
