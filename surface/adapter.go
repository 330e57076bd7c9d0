package surface

import (
	"strings"
	"sync"

	styleopts "github.com/goliatone/go-style-options"
)

const (
	dataBound    = "soBoxsizeBound"
	dataAxisLock = "axisLock"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger routes sync events to logger.
func WithLogger(logger styleopts.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFallback sets the value written into empty directions of groups that
// carry no DataFallback. It defaults to styleopts.DefaultValue.
func WithFallback(fallback string) Option {
	return func(a *Adapter) {
		a.fallback = fallback
	}
}

// Adapter binds marked groups of a surface to the lock rules.
type Adapter struct {
	logger   styleopts.Logger
	fallback string
}

// NewAdapter constructs an adapter.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{logger: styleopts.NoopLogger(), fallback: styleopts.DefaultValue}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Attach binds every unbound group carrying MarkerClass, runs one sync per
// group and returns the new bindings. Groups bound by an earlier call are
// skipped, so attaching the same surface twice is harmless.
func (a *Adapter) Attach(s Surface) []*Binding {
	if s == nil {
		return nil
	}
	var bindings []*Binding
	for _, group := range s.Groups() {
		if group == nil || !group.HasClass(MarkerClass) {
			continue
		}
		if _, bound := group.Data(dataBound); bound {
			continue
		}
		group.SetData(dataBound, "1")
		binding := newBinding(group, a.fallback, a.logger)
		binding.Sync()
		binding.listen()
		bindings = append(bindings, binding)
	}
	return bindings
}

// Binding tracks the inputs of one group. Inputs that are missing from the
// group are treated as unchecked or empty.
type Binding struct {
	group    Group
	fallback string
	logger   styleopts.Logger

	locks  map[styleopts.Axis]Input
	values map[styleopts.Direction]Input

	mu   sync.Mutex
	busy bool
}

func newBinding(group Group, fallback string, logger styleopts.Logger) *Binding {
	b := &Binding{
		group:    group,
		fallback: fallback,
		logger:   logger,
		locks:    map[styleopts.Axis]Input{},
		values:   map[styleopts.Direction]Input{},
	}
	for _, input := range group.Inputs() {
		name := input.Name()
		if axis, ok := lockAxis(name); ok {
			if _, seen := b.locks[axis]; !seen {
				b.locks[axis] = input
			}
			continue
		}
		if d, ok := direction(name); ok {
			if _, seen := b.values[d]; !seen {
				b.values[d] = input
			}
		}
	}
	return b
}

func lockAxis(name string) (styleopts.Axis, bool) {
	for _, axis := range styleopts.Axes() {
		if strings.Contains(name, "[lock]["+axis.String()+"]") {
			return axis, true
		}
	}
	return 0, false
}

func direction(name string) (styleopts.Direction, bool) {
	for _, d := range styleopts.Directions() {
		if strings.Contains(name, "["+d.String()+"]") {
			return d, true
		}
	}
	return 0, false
}

// listen registers change handlers on the lock checkboxes and the source
// directions. Derived inputs are disabled and need none.
func (b *Binding) listen() {
	for _, axis := range styleopts.Axes() {
		if input, ok := b.locks[axis]; ok {
			input.OnChange(b.changed)
		}
	}
	for _, d := range []styleopts.Direction{styleopts.Top, styleopts.Left} {
		if input, ok := b.values[d]; ok {
			input.OnChange(b.changed)
		}
	}
}

func (b *Binding) changed() {
	b.Sync()
}

// Sync reads the group, resolves it and writes derived values and disabled
// flags back. Change events fired by those writes are ignored.
func (b *Binding) Sync() {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return
	}
	b.busy = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()

	current := b.read()
	resolution := styleopts.Resolve(current.Lock, current.DirectionalValueSet, b.groupFallback())
	b.group.SetData(dataAxisLock, current.Lock.Key())

	var written []string
	for _, d := range styleopts.Directions() {
		input, ok := b.values[d]
		if !ok {
			continue
		}
		if next := resolution.Values.Get(d); input.Value() != next {
			input.SetValue(next)
			written = append(written, d.String())
		}
		derived := resolution.Derived.Has(d)
		if input.Disabled() != derived {
			input.SetDisabled(derived)
		}
	}
	b.logger.LogEvent(styleopts.LogEvent{
		Level:   styleopts.LevelDebug,
		Message: "surface synced",
		Plugin:  styleopts.KindBoxSize,
		Fields: map[string]any{
			"lock":    current.Lock.Key(),
			"derived": resolution.Derived.String(),
			"written": written,
		},
	})
}

func (b *Binding) groupFallback() string {
	if fallback, ok := b.group.Data(DataFallback); ok && fallback != "" {
		return fallback
	}
	return b.fallback
}

// State returns what the group currently shows.
func (b *Binding) State() styleopts.PropertyValue {
	return b.read()
}

func (b *Binding) read() styleopts.PropertyValue {
	var pv styleopts.PropertyValue
	for axis, input := range b.locks {
		pv.Lock = pv.Lock.With(axis, input.Checked())
	}
	for d, input := range b.values {
		pv.DirectionalValueSet = pv.DirectionalValueSet.With(d, input.Value())
	}
	return pv
}
