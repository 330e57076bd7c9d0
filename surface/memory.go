package surface

import (
	styleopts "github.com/goliatone/go-style-options"
)

// Memory is an in-process Surface. Writes fire change listeners
// synchronously, which is what the busy guard in Binding protects against.
// It is not safe for concurrent use.
type Memory struct {
	groups []*MemoryGroup
}

// NewMemory returns a surface holding groups.
func NewMemory(groups ...*MemoryGroup) *Memory {
	return &Memory{groups: groups}
}

// Groups implements Surface.
func (m *Memory) Groups() []Group {
	out := make([]Group, 0, len(m.groups))
	for _, group := range m.groups {
		out = append(out, group)
	}
	return out
}

// MemoryGroups returns the concrete groups.
func (m *Memory) MemoryGroups() []*MemoryGroup {
	return append([]*MemoryGroup{}, m.groups...)
}

// AddGroup appends group.
func (m *Memory) AddGroup(group *MemoryGroup) {
	m.groups = append(m.groups, group)
}

// Input finds an input by its full name across all groups.
func (m *Memory) Input(name string) (*MemoryInput, bool) {
	for _, group := range m.groups {
		if input, ok := group.Input(name); ok {
			return input, true
		}
	}
	return nil, false
}

// MemoryGroup is a group of inputs with a class list and data attributes.
type MemoryGroup struct {
	Name    string
	classes []string
	data    map[string]string
	inputs  []*MemoryInput
}

// NewGroup constructs a group named name with classes.
func NewGroup(name string, classes ...string) *MemoryGroup {
	return &MemoryGroup{Name: name, classes: classes, data: map[string]string{}}
}

// Add appends inputs to the group.
func (g *MemoryGroup) Add(inputs ...*MemoryInput) *MemoryGroup {
	g.inputs = append(g.inputs, inputs...)
	return g
}

// HasClass implements Group.
func (g *MemoryGroup) HasClass(class string) bool {
	for _, existing := range g.classes {
		if existing == class {
			return true
		}
	}
	return false
}

// Classes returns the group classes.
func (g *MemoryGroup) Classes() []string {
	return append([]string{}, g.classes...)
}

// Data implements Group.
func (g *MemoryGroup) Data(key string) (string, bool) {
	value, ok := g.data[key]
	return value, ok
}

// SetData implements Group.
func (g *MemoryGroup) SetData(key, value string) {
	if g.data == nil {
		g.data = map[string]string{}
	}
	g.data[key] = value
}

// Inputs implements Group.
func (g *MemoryGroup) Inputs() []Input {
	out := make([]Input, 0, len(g.inputs))
	for _, input := range g.inputs {
		out = append(out, input)
	}
	return out
}

// MemoryInputs returns the concrete inputs in document order.
func (g *MemoryGroup) MemoryInputs() []*MemoryInput {
	return append([]*MemoryInput{}, g.inputs...)
}

// Input finds an input of the group by its full name.
func (g *MemoryGroup) Input(name string) (*MemoryInput, bool) {
	for _, input := range g.inputs {
		if input.name == name {
			return input, true
		}
	}
	return nil, false
}

// MemoryInput is a text input or a checkbox.
type MemoryInput struct {
	name      string
	value     string
	checkbox  bool
	checked   bool
	disabled  bool
	listeners []func()
}

// NewTextInput constructs a text input.
func NewTextInput(name, value string) *MemoryInput {
	return &MemoryInput{name: name, value: value}
}

// NewCheckbox constructs a checkbox whose value is key.
func NewCheckbox(name, key string, checked bool) *MemoryInput {
	return &MemoryInput{name: name, value: key, checkbox: true, checked: checked}
}

// Name implements Input.
func (i *MemoryInput) Name() string { return i.name }

// Value implements Input.
func (i *MemoryInput) Value() string { return i.value }

// IsCheckbox reports whether the input is a checkbox.
func (i *MemoryInput) IsCheckbox() bool { return i.checkbox }

// SetValue implements Input. Listeners fire when the value changes.
func (i *MemoryInput) SetValue(value string) {
	if i.value == value {
		return
	}
	i.value = value
	i.fire()
}

// Checked implements Input.
func (i *MemoryInput) Checked() bool { return i.checkbox && i.checked }

// SetChecked toggles a checkbox and fires listeners on change.
func (i *MemoryInput) SetChecked(checked bool) {
	if !i.checkbox || i.checked == checked {
		return
	}
	i.checked = checked
	i.fire()
}

// Disabled implements Input.
func (i *MemoryInput) Disabled() bool { return i.disabled }

// SetDisabled implements Input.
func (i *MemoryInput) SetDisabled(disabled bool) { i.disabled = disabled }

// OnChange implements Input.
func (i *MemoryInput) OnChange(fn func()) {
	if fn != nil {
		i.listeners = append(i.listeners, fn)
	}
}

// Listeners reports how many change listeners are registered.
func (i *MemoryInput) Listeners() int { return len(i.listeners) }

func (i *MemoryInput) fire() {
	for _, fn := range append([]func(){}, i.listeners...) {
		fn()
	}
}

// FromForm builds a surface from a configuration form. Every fieldset becomes
// a group carrying its classes; checkboxes expand into one checkbox per
// choice; field data becomes group data; text, select and radios fields become text inputs holding their
// default. Input names use the bracketed form naming, e.g.
// boxsize[margin][lock][x].
func FromForm(form styleopts.FormSpec) *Memory {
	m := &Memory{}
	for _, field := range form.Fields {
		collect(m, nil, nil, field)
	}
	return m
}

func collect(m *Memory, group *MemoryGroup, parent []string, field styleopts.Field) {
	path := append(append([]string{}, parent...), field.Key)
	if field.Type == styleopts.FieldFieldset {
		child := NewGroup(styleopts.FieldName(path...), field.Classes...)
		for key, value := range field.Data {
			child.SetData(key, value)
		}
		m.AddGroup(child)
		for _, nested := range field.Children {
			collect(m, child, path, nested)
		}
		return
	}
	if group == nil {
		group = NewGroup(styleopts.FieldName(path...))
		m.AddGroup(group)
	}
	name := styleopts.FieldName(path...)
	switch field.Type {
	case styleopts.FieldSubmit, styleopts.FieldManagedFile, styleopts.FieldMediaLibrary:
		return
	case styleopts.FieldCheckboxes:
		defaults, _ := field.Default.(map[string]bool)
		for _, choice := range field.Choices {
			input := NewCheckbox(styleopts.FieldName(append(path, choice.Key)...), choice.Key, defaults[choice.Key])
			input.disabled = field.Disabled
			group.Add(input)
		}
	case styleopts.FieldCheckbox:
		input := NewCheckbox(name, "1", styleopts.Truthy(field.Default))
		input.disabled = field.Disabled
		group.Add(input)
	default:
		input := NewTextInput(name, styleopts.AsString(field.Default))
		input.disabled = field.Disabled
		group.Add(input)
	}
}
