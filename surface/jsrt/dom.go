package jsrt

import (
	"sort"

	"github.com/dop251/goja"
	"github.com/goliatone/go-style-options/surface"
)

// dom exposes a surface.Memory to scripts as a minimal document. Element
// objects are cached so identity holds across queries.
type dom struct {
	rt       *Runtime
	memory   *surface.Memory
	groups   map[*surface.MemoryGroup]*goja.Object
	inputs   map[*surface.MemoryInput]*goja.Object
	document *goja.Object
}

func newDOM(rt *Runtime, memory *surface.Memory) *dom {
	d := &dom{
		rt:     rt,
		memory: memory,
		groups: map[*surface.MemoryGroup]*goja.Object{},
		inputs: map[*surface.MemoryInput]*goja.Object{},
	}
	d.document = rt.vm.NewObject()
	_ = d.document.Set("querySelectorAll", d.documentQuery(false))
	_ = d.document.Set("querySelector", d.documentQuery(true))
	return d
}

func (d *dom) documentQuery(first bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := d.parse(call.Argument(0).String())
		var matches []any
		for _, group := range d.memory.MemoryGroups() {
			for _, sel := range selectors {
				if sel.matchesGroup(group.HasClass) {
					matches = append(matches, d.group(group))
					break
				}
			}
			if first && len(matches) > 0 {
				return matches[0].(*goja.Object)
			}
		}
		if first {
			return goja.Null()
		}
		return d.rt.vm.NewArray(matches...)
	}
}

func (d *dom) group(group *surface.MemoryGroup) *goja.Object {
	if obj, ok := d.groups[group]; ok {
		return obj
	}
	obj := d.rt.vm.NewObject()
	_ = obj.Set("dataset", d.rt.vm.NewDynamicObject(&dataset{vm: d.rt.vm, group: group}))
	_ = obj.Set("querySelectorAll", d.groupQuery(group, false))
	_ = obj.Set("querySelector", d.groupQuery(group, true))
	d.groups[group] = obj
	return obj
}

func (d *dom) groupQuery(group *surface.MemoryGroup, first bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		selectors := d.parse(call.Argument(0).String())
		var matches []any
		for _, input := range group.MemoryInputs() {
			for _, sel := range selectors {
				if sel.matchesInput(input.Name(), input.IsCheckbox(), input.Checked()) {
					matches = append(matches, d.input(input))
					break
				}
			}
			if first && len(matches) > 0 {
				return matches[0].(*goja.Object)
			}
		}
		if first {
			return goja.Null()
		}
		return d.rt.vm.NewArray(matches...)
	}
}

func (d *dom) input(input *surface.MemoryInput) *goja.Object {
	if obj, ok := d.inputs[input]; ok {
		return obj
	}
	obj := d.rt.vm.NewDynamicObject(&element{dom: d, input: input})
	d.inputs[input] = obj
	return obj
}

func (d *dom) parse(source string) []selector {
	selectors, err := parseSelectorList(source)
	if err != nil {
		panic(d.rt.vm.NewGoError(err))
	}
	return selectors
}

// dataset mirrors MemoryGroup data attributes.
type dataset struct {
	vm    *goja.Runtime
	group *surface.MemoryGroup
}

func (s *dataset) Get(key string) goja.Value {
	if value, ok := s.group.Data(key); ok {
		return s.vm.ToValue(value)
	}
	return goja.Undefined()
}

func (s *dataset) Set(key string, val goja.Value) bool {
	s.group.SetData(key, val.String())
	return true
}

func (s *dataset) Has(key string) bool {
	_, ok := s.group.Data(key)
	return ok
}

// Delete is unsupported; groups only ever gain data attributes.
func (s *dataset) Delete(string) bool { return false }

func (s *dataset) Keys() []string { return nil }

// element exposes one input's name, value, checked and disabled properties
// and its change listeners.
type element struct {
	dom   *dom
	input *surface.MemoryInput
}

var elementKeys = []string{"checked", "disabled", "name", "type", "value"}

func (e *element) Get(key string) goja.Value {
	vm := e.dom.rt.vm
	switch key {
	case "name":
		return vm.ToValue(e.input.Name())
	case "value":
		return vm.ToValue(e.input.Value())
	case "checked":
		return vm.ToValue(e.input.Checked())
	case "disabled":
		return vm.ToValue(e.input.Disabled())
	case "type":
		if e.input.IsCheckbox() {
			return vm.ToValue("checkbox")
		}
		return vm.ToValue("text")
	case "addEventListener":
		return vm.ToValue(e.addEventListener)
	default:
		return goja.Undefined()
	}
}

func (e *element) Set(key string, val goja.Value) bool {
	switch key {
	case "value":
		e.input.SetValue(val.String())
	case "checked":
		e.input.SetChecked(val.ToBoolean())
	case "disabled":
		e.input.SetDisabled(val.ToBoolean())
	default:
		return false
	}
	return true
}

func (e *element) Has(key string) bool {
	if key == "addEventListener" {
		return true
	}
	i := sort.SearchStrings(elementKeys, key)
	return i < len(elementKeys) && elementKeys[i] == key
}

func (e *element) Delete(string) bool { return false }

func (e *element) Keys() []string { return append([]string{}, elementKeys...) }

func (e *element) addEventListener(call goja.FunctionCall) goja.Value {
	if call.Argument(0).String() != "change" {
		return goja.Undefined()
	}
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		panic(e.dom.rt.vm.NewTypeError("addEventListener: listener is not a function"))
	}
	this := e.dom.input(e.input)
	e.input.OnChange(func() {
		if _, err := fn(this); err != nil {
			e.dom.rt.record(err)
		}
	})
	return goja.Undefined()
}
