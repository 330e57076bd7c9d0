package styleopts

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function is a helper callable from condition expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds condition helpers. Names are case-insensitive and
// must be valid identifiers in every condition language.
type FunctionRegistry struct {
	mu  sync.RWMutex
	fns map[string]Function
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{fns: map[string]Function{}}
}

// Register adds fn under name. Reusing a name is an error.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if err := checkFunctionName(key); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("styleopts: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fns == nil {
		r.fns = map[string]Function{}
	}
	if _, taken := r.fns[key]; taken {
		return fmt.Errorf("styleopts: function %q already registered", name)
	}
	r.fns[key] = fn
	return nil
}

func checkFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("styleopts: function name must not be empty")
	}
	for i, c := range name {
		letter := c == '_' || (c >= 'a' && c <= 'z')
		digit := c >= '0' && c <= '9'
		if !letter && !(digit && i > 0) {
			return fmt.Errorf("styleopts: function name %q is not an identifier", name)
		}
	}
	return nil
}

// Lookup returns the helper registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[strings.ToLower(name)]
	return fn, ok
}

// Call runs the helper registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("styleopts: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the registered names in sorted order. Evaluators fold them
// into program cache keys.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Clone copies the registry so later registrations do not leak into
// evaluators already built from it.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &FunctionRegistry{fns: make(map[string]Function, len(r.fns))}
	for name, fn := range r.fns {
		out.fns[name] = fn
	}
	return out
}

// WithFunctionRegistry exposes registry's helpers to the default condition
// evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *engineConfig) {
		if registry != nil {
			cfg.functions = registry.Clone()
		}
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
// Invalid or duplicate names are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *engineConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
