package jsrt

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/surface"
	"go.uber.org/multierr"
)

// Option configures a Runtime.
type Option func(*config)

type config struct {
	rules    map[string]map[string]string
	fallback string
	logger   styleopts.Logger
}

// WithRules overrides the rule table injected into the asset.
func WithRules(rules map[string]map[string]string) Option {
	return func(cfg *config) {
		cfg.rules = rules
	}
}

// WithFallback sets the value the asset writes into empty inputs of groups
// without a soBoxsizeDefault data attribute.
func WithFallback(fallback string) Option {
	return func(cfg *config) {
		cfg.fallback = fallback
	}
}

// WithLogger routes script console output and listener errors to logger.
func WithLogger(logger styleopts.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Runtime runs the browser asset against an in-memory surface. Listener
// errors are collected rather than returned from the Go write that fired
// them; read them with Err.
type Runtime struct {
	vm     *goja.Runtime
	dom    *dom
	cfg    config
	mu     sync.Mutex
	errs   error
	api    *goja.Object
	attach goja.Callable
}

// New loads the asset into a fresh goja runtime bound to memory.
func New(memory *surface.Memory, opts ...Option) (*Runtime, error) {
	if memory == nil {
		return nil, fmt.Errorf("jsrt: surface is required")
	}
	cfg := config{fallback: styleopts.DefaultValue, logger: styleopts.NoopLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	source, err := Script(cfg.rules)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{vm: goja.New(), cfg: cfg}
	rt.dom = newDOM(rt, memory)
	global := rt.vm.GlobalObject()
	if err := global.Set("window", global); err != nil {
		return nil, fmt.Errorf("jsrt: install window: %w", err)
	}
	if err := global.Set("document", rt.dom.document); err != nil {
		return nil, fmt.Errorf("jsrt: install document: %w", err)
	}
	console := rt.vm.NewObject()
	_ = console.Set("log", rt.consoleLog)
	if err := global.Set("console", console); err != nil {
		return nil, fmt.Errorf("jsrt: install console: %w", err)
	}

	if _, err := rt.vm.RunScript("boxsize.js", source); err != nil {
		return nil, fmt.Errorf("jsrt: load asset: %w", err)
	}
	api := global.Get("styleOptionsBoxSize")
	if api == nil || goja.IsUndefined(api) {
		return nil, fmt.Errorf("jsrt: asset did not register styleOptionsBoxSize")
	}
	rt.api = api.ToObject(rt.vm)
	attach, ok := goja.AssertFunction(rt.api.Get("attach"))
	if !ok {
		return nil, fmt.Errorf("jsrt: styleOptionsBoxSize.attach is not a function")
	}
	rt.attach = attach
	return rt, nil
}

// Attach runs the asset's attach over the document and returns how many
// groups it bound.
func (rt *Runtime) Attach() (int, error) {
	options := rt.vm.NewObject()
	_ = options.Set("fallback", rt.cfg.fallback)
	value, err := rt.attach(rt.api, rt.dom.document, options)
	if err != nil {
		return 0, fmt.Errorf("jsrt: attach: %w", err)
	}
	return int(value.ToInteger()), nil
}

// Rules returns the rule table embedded in the loaded asset.
func (rt *Runtime) Rules() (map[string]map[string]string, error) {
	var out map[string]map[string]string
	if err := rt.vm.ExportTo(rt.api.Get("rules"), &out); err != nil {
		return nil, fmt.Errorf("jsrt: export rules: %w", err)
	}
	return out, nil
}

// LockKey evaluates the asset's lock key for group.
func (rt *Runtime) LockKey(group *surface.MemoryGroup) (string, error) {
	lockKey, ok := goja.AssertFunction(rt.api.Get("lockKey"))
	if !ok {
		return "", fmt.Errorf("jsrt: styleOptionsBoxSize.lockKey is not a function")
	}
	value, err := lockKey(rt.api, rt.dom.group(group))
	if err != nil {
		return "", fmt.Errorf("jsrt: lock key: %w", err)
	}
	return value.String(), nil
}

// Err returns the errors raised by listeners so far.
func (rt *Runtime) Err() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.errs
}

func (rt *Runtime) record(err error) {
	rt.mu.Lock()
	rt.errs = multierr.Append(rt.errs, err)
	rt.mu.Unlock()
	rt.cfg.logger.LogEvent(styleopts.LogEvent{Level: styleopts.LevelError, Message: "script listener failed", Engine: "js", Err: err})
}

func (rt *Runtime) consoleLog(call goja.FunctionCall) goja.Value {
	args := make([]any, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = arg.Export()
	}
	rt.cfg.logger.LogEvent(styleopts.LogEvent{Level: styleopts.LevelDebug, Message: "script console", Engine: "js", Fields: map[string]any{"args": args}})
	return goja.Undefined()
}
