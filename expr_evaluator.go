package styleopts

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry's helpers as expr functions.
// Programs compiled with helpers are cached under a key that includes the
// helper names.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.registry = registry.Clone()
	}
}

// exprEvaluator runs conditions with github.com/expr-lang/expr.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs the default condition evaluator.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Engine() string { return "expr" }

func (e *exprEvaluator) Compile(expression string) error {
	_, err := e.loadOrCompile(expression)
	return err
}

func (e *exprEvaluator) Evaluate(ctx ConditionContext, expression string) (bool, error) {
	if expression == "" {
		return false, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return false, err
	}
	out, err := exprlang.Run(program, ctx.withDefaults().variables())
	if err != nil {
		return false, wrapEvaluationError(e.Engine(), expression, ctx.OptionID, err)
	}
	return asBool(e.Engine(), expression, out)
}

func (e *exprEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	names := e.registry.Names()
	key := "expr:" + expression
	if len(names) > 0 {
		key = "expr[" + strings.Join(names, ",") + "]:" + expression
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(ConditionContext{}.withDefaults().variables()),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	}
	for _, name := range names {
		fn := name
		options = append(options, exprlang.Function(fn, func(params ...any) (any, error) {
			return e.registry.Call(fn, params...)
		}))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError(e.Engine(), expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}
