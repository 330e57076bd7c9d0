package jsrt

import (
	"reflect"
	"strings"
	"testing"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/surface"
)

func marginSurface(lock styleopts.LockState, values styleopts.DirectionalValueSet) (*surface.Memory, *surface.MemoryGroup) {
	group := surface.NewGroup("boxsize[margin]", surface.MarkerClass)
	for _, axis := range styleopts.Axes() {
		group.Add(surface.NewCheckbox("boxsize[margin][lock]["+axis.String()+"]", axis.String(), lock.Locked(axis)))
	}
	for _, d := range styleopts.Directions() {
		group.Add(surface.NewTextInput("boxsize[margin]["+d.String()+"]", values.Get(d)))
	}
	return surface.NewMemory(group), group
}

func readGroup(group *surface.MemoryGroup) (styleopts.PropertyValue, styleopts.DirectionSet) {
	var pv styleopts.PropertyValue
	var disabled styleopts.DirectionSet
	for _, input := range group.MemoryInputs() {
		name := input.Name()
		for _, axis := range styleopts.Axes() {
			if strings.HasSuffix(name, "[lock]["+axis.String()+"]") {
				pv.Lock = pv.Lock.With(axis, input.Checked())
			}
		}
		for _, d := range styleopts.Directions() {
			if strings.HasSuffix(name, "["+d.String()+"]") {
				pv.DirectionalValueSet = pv.DirectionalValueSet.With(d, input.Value())
				if input.Disabled() {
					disabled = disabled.With(d)
				}
			}
		}
	}
	return pv, disabled
}

func newRuntime(t *testing.T, memory *surface.Memory, opts ...Option) *Runtime {
	t.Helper()
	rt, err := New(memory, opts...)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	return rt
}

func TestScriptInjectsRuleTable(t *testing.T) {
	source, err := Script(nil)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if strings.Contains(source, rulesPlaceholder) {
		t.Fatalf("expected placeholder to be replaced")
	}
	if !strings.Contains(source, `"1-0-0":{"right":"left"}`) {
		t.Fatalf("expected x lock rule in asset")
	}
}

func TestRuntimeRulesMatchGo(t *testing.T) {
	memory, _ := marginSurface(styleopts.LockState{}, styleopts.DirectionalValueSet{})
	rt := newRuntime(t, memory)
	rules, err := rt.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if !reflect.DeepEqual(rules, styleopts.RuleTable()) {
		t.Fatalf("expected asset rules %v to match %v", rules, styleopts.RuleTable())
	}
}

func TestRuntimeParityAcrossLockStates(t *testing.T) {
	values := styleopts.DirectionalValueSet{Top: "4", Right: "2", Bottom: "", Left: "3"}
	properties := []styleopts.PropertyConfig{styleopts.DefaultProperties()[0]}

	for _, lock := range styleopts.AllLockStates() {
		t.Run(lock.Key(), func(t *testing.T) {
			jsMemory, jsGroup := marginSurface(lock, values)
			rt := newRuntime(t, jsMemory)
			if bound, err := rt.Attach(); err != nil || bound != 1 {
				t.Fatalf("attach: bound=%d err=%v", bound, err)
			}
			jsState, jsDisabled := readGroup(jsGroup)

			goMemory, _ := marginSurface(lock, values)
			goState := surface.NewAdapter().Attach(goMemory)[0].State()

			submitted := styleopts.ResolveSubmission(properties, styleopts.BoxSizeValue{
				"margin": {Lock: lock, DirectionalValueSet: values},
			})["margin"]

			if jsState != goState {
				t.Fatalf("js %+v differs from go adapter %+v", jsState, goState)
			}
			if jsState != submitted {
				t.Fatalf("js %+v differs from submit %+v", jsState, submitted)
			}
			if want := styleopts.Resolve(lock, values, styleopts.DefaultValue).Derived; jsDisabled != want {
				t.Fatalf("expected disabled %s, got %s", want, jsDisabled)
			}
			if key, _ := jsGroup.Data("axisLock"); key != lock.Key() {
				t.Fatalf("expected axis lock %s, got %q", lock.Key(), key)
			}
			if err := rt.Err(); err != nil {
				t.Fatalf("listener errors: %v", err)
			}
		})
	}
}

func TestRuntimeParityWithPropertyDefault(t *testing.T) {
	values := styleopts.DirectionalValueSet{Left: "3"}
	property := styleopts.DefaultProperties()[0]
	property.Default = "2"

	for _, lock := range styleopts.AllLockStates() {
		t.Run(lock.Key(), func(t *testing.T) {
			jsMemory, jsGroup := marginSurface(lock, values)
			jsGroup.SetData(surface.DataFallback, property.Default)
			rt := newRuntime(t, jsMemory, WithFallback("9"))
			if _, err := rt.Attach(); err != nil {
				t.Fatalf("attach: %v", err)
			}
			jsState, _ := readGroup(jsGroup)

			goMemory, goGroup := marginSurface(lock, values)
			goGroup.SetData(surface.DataFallback, property.Default)
			goState := surface.NewAdapter(surface.WithFallback("9")).Attach(goMemory)[0].State()

			submitted := styleopts.ResolveSubmission([]styleopts.PropertyConfig{property}, styleopts.BoxSizeValue{
				"margin": {Lock: lock, DirectionalValueSet: values},
			})["margin"]
			if jsState != goState || jsState != submitted {
				t.Fatalf("js %+v, go %+v, submit %+v disagree", jsState, goState, submitted)
			}
			if jsState.Top != "2" {
				t.Fatalf("expected group fallback in top, got %q", jsState.Top)
			}
		})
	}
}

func TestRuntimeReactsToChanges(t *testing.T) {
	memory, group := marginSurface(styleopts.LockState{}, styleopts.DirectionalValueSet{Top: "4", Right: "0", Bottom: "1", Left: "2"})
	rt := newRuntime(t, memory)
	if _, err := rt.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}

	x, _ := memory.Input("boxsize[margin][lock][x]")
	x.SetChecked(true)
	state, disabled := readGroup(group)
	if state.Right != "2" || !disabled.Has(styleopts.Right) {
		t.Fatalf("expected right to mirror left and be disabled, got %+v %s", state, disabled)
	}

	left, _ := memory.Input("boxsize[margin][left]")
	left.SetValue("9")
	state, _ = readGroup(group)
	if state.Right != "9" {
		t.Fatalf("expected right to follow left, got %+v", state)
	}

	all, _ := memory.Input("boxsize[margin][lock][all]")
	all.SetChecked(true)
	state, _ = readGroup(group)
	if state.DirectionalValueSet != (styleopts.DirectionalValueSet{Top: "4", Right: "4", Bottom: "4", Left: "4"}) {
		t.Fatalf("expected all lock to copy top, got %+v", state)
	}
	if key, err := rt.LockKey(group); err != nil || key != "1-0-1" {
		t.Fatalf("expected lock key 1-0-1, got %q %v", key, err)
	}
	if err := rt.Err(); err != nil {
		t.Fatalf("listener errors: %v", err)
	}
}

func TestRuntimeAttachIsOnce(t *testing.T) {
	memory, _ := marginSurface(styleopts.LockState{}, styleopts.DirectionalValueSet{Top: "1"})
	rt := newRuntime(t, memory)
	if bound, _ := rt.Attach(); bound != 1 {
		t.Fatalf("expected first attach to bind one group, got %d", bound)
	}
	if bound, _ := rt.Attach(); bound != 0 {
		t.Fatalf("expected second attach to bind nothing, got %d", bound)
	}
	if got := len(surface.NewAdapter().Attach(memory)); got != 0 {
		t.Fatalf("expected go adapter to respect the shared bound marker, got %d", got)
	}
	top, _ := memory.Input("boxsize[margin][top]")
	if top.Listeners() != 1 {
		t.Fatalf("expected a single listener on top, got %d", top.Listeners())
	}
}

func TestRuntimeCustomRulesAndFallback(t *testing.T) {
	memory, group := marginSurface(styleopts.LockState{X: true}, styleopts.DirectionalValueSet{Right: "5"})
	legacy := styleopts.RuleTable()
	legacy["1-0-0"] = map[string]string{"left": "right"}
	rt := newRuntime(t, memory, WithRules(legacy), WithFallback("0"))
	if _, err := rt.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	state, disabled := readGroup(group)
	if state.Left != "5" || !disabled.Has(styleopts.Left) {
		t.Fatalf("expected injected rules to drive the asset, got %+v %s", state, disabled)
	}
	if state.Top != "0" || state.Bottom != "0" {
		t.Fatalf("expected fallback in empty inputs, got %+v", state)
	}
}

func TestRuntimeRequiresSurface(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error without a surface")
	}
}

func TestParseSelector(t *testing.T) {
	sel, err := parseSelector(`input[name*="[lock][x]"]:checked`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sel.tag != "input" || !sel.checked || !reflect.DeepEqual(sel.contains, []string{"[lock][x]"}) {
		t.Fatalf("unexpected selector %+v", sel)
	}
	list, err := parseSelectorList(`[name*="[top]"], [name*="[left]"]`)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected two selectors, got %v %v", list, err)
	}
	group, err := parseSelector(".js-so-boxsize")
	if err != nil || !reflect.DeepEqual(group.classes, []string{"js-so-boxsize"}) {
		t.Fatalf("unexpected class selector %+v %v", group, err)
	}
	for _, bad := range []string{"", "div > p", `[id="x"]`, ":hover"} {
		if _, err := parseSelector(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
