package styleopts

import (
	"fmt"

	"github.com/dop251/goja"
)

// JSEvaluatorOption configures the JavaScript condition evaluator.
type JSEvaluatorOption func(*jsEvaluator)

// JSWithProgramCache applies a ProgramCache to the JS evaluator.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		e.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry's helpers as global functions and
// through call(name, ...args).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(e *jsEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator constructs a condition evaluator backed by goja. Each
// evaluation runs in a fresh runtime; `now` is exposed in Unix milliseconds.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	e := &jsEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *jsEvaluator) Engine() string { return "js" }

func (e *jsEvaluator) Compile(expression string) error {
	_, err := e.loadOrCompile(expression)
	return err
}

func (e *jsEvaluator) Evaluate(ctx ConditionContext, expression string) (bool, error) {
	if expression == "" {
		return false, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return false, err
	}
	vm := goja.New()
	e.injectContext(vm, ctx.withDefaults())
	value, err := vm.RunProgram(program)
	if err != nil {
		return false, err
	}
	return asBool(e.Engine(), expression, value.Export())
}

func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	key := "js:" + expression
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(expression), true)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) injectContext(vm *goja.Runtime, ctx ConditionContext) {
	for name, value := range ctx.variables() {
		if name == "now" {
			continue
		}
		vm.Set(name, value)
	}
	vm.Set("now", ctx.Now.UnixMilli())
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

func (e *jsEvaluator) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}
