package surface

import (
	"testing"

	styleopts "github.com/goliatone/go-style-options"
)

func marginGroup(lock styleopts.LockState, values styleopts.DirectionalValueSet) *MemoryGroup {
	group := NewGroup("boxsize[margin]", MarkerClass)
	for _, axis := range styleopts.Axes() {
		group.Add(NewCheckbox("boxsize[margin][lock]["+axis.String()+"]", axis.String(), lock.Locked(axis)))
	}
	for _, d := range styleopts.Directions() {
		group.Add(NewTextInput("boxsize[margin]["+d.String()+"]", values.Get(d)))
	}
	return group
}

func mustInput(t *testing.T, m *Memory, name string) *MemoryInput {
	t.Helper()
	input, ok := m.Input(name)
	if !ok {
		t.Fatalf("missing input %q", name)
	}
	return input
}

func TestAttachSyncsImmediately(t *testing.T) {
	m := NewMemory(marginGroup(styleopts.LockState{All: true}, styleopts.DirectionalValueSet{Top: "4", Right: "2", Bottom: "1", Left: "3"}))

	bindings := NewAdapter().Attach(m)
	if len(bindings) != 1 {
		t.Fatalf("expected one binding, got %d", len(bindings))
	}
	state := bindings[0].State()
	if state.DirectionalValueSet != (styleopts.DirectionalValueSet{Top: "4", Right: "4", Bottom: "4", Left: "4"}) {
		t.Fatalf("expected all-locked values, got %+v", state.DirectionalValueSet)
	}
	for _, d := range []string{"right", "bottom", "left"} {
		if !mustInput(t, m, "boxsize[margin]["+d+"]").Disabled() {
			t.Fatalf("expected %s to be disabled", d)
		}
	}
	if mustInput(t, m, "boxsize[margin][top]").Disabled() {
		t.Fatalf("expected top to stay enabled")
	}
	if key, _ := m.MemoryGroups()[0].Data(dataAxisLock); key != "0-0-1" {
		t.Fatalf("expected axis lock data 0-0-1, got %q", key)
	}
}

func TestAttachSkipsBoundAndUnmarkedGroups(t *testing.T) {
	plain := NewGroup("other").Add(NewTextInput("other[top]", "1"))
	m := NewMemory(marginGroup(styleopts.LockState{}, styleopts.DirectionalValueSet{}), plain)
	adapter := NewAdapter()

	if got := len(adapter.Attach(m)); got != 1 {
		t.Fatalf("expected one binding, got %d", got)
	}
	if got := len(adapter.Attach(m)); got != 0 {
		t.Fatalf("expected second attach to bind nothing, got %d", got)
	}
	if listeners := mustInput(t, m, "boxsize[margin][top]").Listeners(); listeners != 1 {
		t.Fatalf("expected a single listener on top, got %d", listeners)
	}
	if mustInput(t, m, "other[top]").Listeners() != 0 {
		t.Fatalf("expected unmarked group to be left alone")
	}
}

func TestChangingLocksResyncs(t *testing.T) {
	m := NewMemory(marginGroup(styleopts.LockState{}, styleopts.DirectionalValueSet{Top: "4", Right: "0", Bottom: "1", Left: "2"}))
	bindings := NewAdapter().Attach(m)

	mustInput(t, m, "boxsize[margin][lock][x]").SetChecked(true)
	if got := bindings[0].State().DirectionalValueSet; got != (styleopts.DirectionalValueSet{Top: "4", Right: "2", Bottom: "1", Left: "2"}) {
		t.Fatalf("expected right to mirror left, got %+v", got)
	}
	if !mustInput(t, m, "boxsize[margin][right]").Disabled() {
		t.Fatalf("expected right to be disabled under x lock")
	}

	mustInput(t, m, "boxsize[margin][lock][x]").SetChecked(false)
	if mustInput(t, m, "boxsize[margin][right]").Disabled() {
		t.Fatalf("expected right to be re-enabled")
	}

	mustInput(t, m, "boxsize[margin][lock][y]").SetChecked(true)
	mustInput(t, m, "boxsize[margin][top]").SetValue("7")
	if got := mustInput(t, m, "boxsize[margin][bottom]").Value(); got != "7" {
		t.Fatalf("expected bottom to follow top, got %q", got)
	}
}

func TestBusyGuardIgnoresWriteBack(t *testing.T) {
	var syncs int
	logger := styleopts.LoggerFunc(func(event styleopts.LogEvent) {
		if event.Message == "surface synced" {
			syncs++
		}
	})
	m := NewMemory(marginGroup(styleopts.LockState{}, styleopts.DirectionalValueSet{Top: "4", Right: "1", Bottom: "1", Left: "3"}))
	NewAdapter(WithLogger(logger)).Attach(m)
	syncs = 0

	// Writing left from top would fire the left listener again.
	mustInput(t, m, "boxsize[margin][lock][all]").SetChecked(true)
	if syncs != 1 {
		t.Fatalf("expected one sync per user change, got %d", syncs)
	}
	if got := mustInput(t, m, "boxsize[margin][left]").Value(); got != "4" {
		t.Fatalf("expected left to follow top, got %q", got)
	}
}

func TestFallbackFillsEmptyInputs(t *testing.T) {
	m := NewMemory(marginGroup(styleopts.LockState{}, styleopts.DirectionalValueSet{Top: "2"}))
	NewAdapter(WithFallback("0")).Attach(m)
	if got := mustInput(t, m, "boxsize[margin][left]").Value(); got != "0" {
		t.Fatalf("expected fallback in empty input, got %q", got)
	}
}

func TestSurfaceMatchesSubmitResolution(t *testing.T) {
	values := styleopts.DirectionalValueSet{Top: "4", Right: "2", Bottom: "1", Left: "3"}
	properties := []styleopts.PropertyConfig{styleopts.DefaultProperties()[0]}
	for _, lock := range styleopts.AllLockStates() {
		m := NewMemory(marginGroup(lock, values))
		bindings := NewAdapter().Attach(m)
		got := bindings[0].State()

		submitted := styleopts.ResolveSubmission(properties, styleopts.BoxSizeValue{
			"margin": {Lock: lock, DirectionalValueSet: values},
		})
		if got != submitted["margin"] {
			t.Fatalf("lock %s: surface %+v differs from submit %+v", lock.Key(), got, submitted["margin"])
		}
	}
}

func TestGroupFallbackMatchesPropertyDefault(t *testing.T) {
	property := styleopts.DefaultProperties()[0]
	property.Default = "2"
	values := styleopts.DirectionalValueSet{Left: "3"}
	for _, lock := range styleopts.AllLockStates() {
		group := marginGroup(lock, values)
		group.SetData(DataFallback, property.Default)
		bindings := NewAdapter(WithFallback("9")).Attach(NewMemory(group))
		got := bindings[0].State()

		submitted := styleopts.ResolveSubmission([]styleopts.PropertyConfig{property}, styleopts.BoxSizeValue{
			"margin": {Lock: lock, DirectionalValueSet: values},
		})
		if got != submitted["margin"] {
			t.Fatalf("lock %s: surface %+v differs from submit %+v", lock.Key(), got, submitted["margin"])
		}
	}
}

func TestFromFormBuildsMarkedGroups(t *testing.T) {
	form := styleopts.FormSpec{
		OptionID: "spacing",
		Fields: []styleopts.Field{{
			Key:  "boxsize",
			Type: styleopts.FieldFieldset,
			Children: []styleopts.Field{{
				Key:     "margin",
				Type:    styleopts.FieldFieldset,
				Classes: []string{MarkerClass},
				Children: []styleopts.Field{
					{
						Key:     "lock",
						Type:    styleopts.FieldCheckboxes,
						Default: map[string]bool{"y": true},
						Choices: []styleopts.Choice{{Key: "x"}, {Key: "y"}, {Key: "all"}},
					},
					{Key: "top", Type: styleopts.FieldTextfield, Default: "5"},
					{Key: "right", Type: styleopts.FieldTextfield, Default: "1"},
					{Key: "bottom", Type: styleopts.FieldSelect, Default: "2"},
					{Key: "left", Type: styleopts.FieldTextfield, Default: "3"},
				},
			}},
		}},
	}

	m := FromForm(form)
	if got := len(m.MemoryGroups()); got != 2 {
		t.Fatalf("expected two groups, got %d", got)
	}
	if !mustInput(t, m, "boxsize[margin][lock][y]").Checked() {
		t.Fatalf("expected y lock checked from defaults")
	}
	bindings := NewAdapter().Attach(m)
	if len(bindings) != 1 {
		t.Fatalf("expected the marked fieldset to bind, got %d", len(bindings))
	}
	if got := mustInput(t, m, "boxsize[margin][bottom]").Value(); got != "5" {
		t.Fatalf("expected bottom to follow top, got %q", got)
	}
}
