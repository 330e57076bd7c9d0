package styleopts

import (
	"fmt"
	"sync"
)

// Registry maps plugin kinds to implementations. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[Kind]Plugin
	order   []Kind
}

// NewRegistry constructs a registry holding plugins. Later duplicates are
// ignored.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{plugins: map[Kind]Plugin{}}
	for _, plugin := range plugins {
		_ = r.Register(plugin)
	}
	return r
}

// Register adds plugin under its kind.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("styleopts: register nil plugin")
	}
	kind := plugin.Kind()
	if kind == "" {
		return fmt.Errorf("styleopts: plugin %T has empty kind", plugin)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plugins == nil {
		r.plugins = map[Kind]Plugin{}
	}
	if _, exists := r.plugins[kind]; exists {
		return fmt.Errorf("styleopts: plugin %q already registered", kind)
	}
	r.plugins[kind] = plugin
	r.order = append(r.order, kind)
	return nil
}

// Lookup returns the plugin registered under kind.
func (r *Registry) Lookup(kind Kind) (Plugin, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, kind)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	plugin, ok := r.plugins[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, kind)
	}
	return plugin, nil
}

// Kinds returns registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Kind{}, r.order...)
}
