package styleopts_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/activity"
	"github.com/goliatone/go-style-options/plugins"
)

func spacingDefinition() styleopts.Definition {
	return styleopts.Definition{OptionID: "spacing", Plugin: styleopts.KindBoxSize, Label: "Spacing"}
}

func variantDefinition(id string) styleopts.Definition {
	return styleopts.Definition{
		OptionID: id,
		Plugin:   styleopts.KindComponentVariation,
		Config: map[string]any{
			"multiple": true,
			"options": map[string]any{
				"a": map[string]any{"value": "X"},
				"b": map[string]any{"value": "Y"},
				"c": map[string]any{"value": "Z"},
			},
		},
	}
}

func TestEngineSubmitResolvesLocksAndEmits(t *testing.T) {
	capture := &activity.CaptureHook{}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := styleopts.NewEngine(plugins.Default(),
		styleopts.WithActivityHooks(activity.Hooks{capture}),
		styleopts.WithClock(func() time.Time { return fixed }),
	)

	ctx := activity.WithActor(context.Background(), activity.Actor{ActorID: "editor-1"})
	raw := map[string]any{
		"boxsize": map[string]any{
			"margin": map[string]any{
				"lock": map[string]any{"x": 0, "y": 0, "all": "all"},
				"top":  "4", "right": "2", "bottom": "1", "left": "3",
			},
		},
	}
	value, err := engine.Submit(ctx, spacingDefinition(), raw)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	margin := value.BoxSize()["margin"]
	if margin.DirectionalValueSet != (styleopts.DirectionalValueSet{Top: "4", Right: "4", Bottom: "4", Left: "4"}) {
		t.Fatalf("expected canonical all-locked margin, got %+v", margin.DirectionalValueSet)
	}

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Verb != activity.VerbSubmitted || events[0].ActorID != "editor-1" {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if !events[0].OccurredAt.Equal(fixed) {
		t.Fatalf("expected clock timestamp, got %v", events[0].OccurredAt)
	}
	if events[0].Channel != "style_options" {
		t.Fatalf("expected default channel, got %q", events[0].Channel)
	}
}

func TestEngineSubmitWrapsPluginErrors(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default())
	_, err := engine.Submit(context.Background(), variantDefinition("v"), map[string]any{"component_variation": []any{"nope"}})
	if !errors.Is(err, styleopts.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	_, err = engine.Submit(context.Background(), styleopts.Definition{OptionID: "x", Plugin: "missing"}, nil)
	if !errors.Is(err, styleopts.ErrUnknownPlugin) {
		t.Fatalf("expected ErrUnknownPlugin, got %v", err)
	}
}

func TestEngineRenderMergesInOrder(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default())
	req := styleopts.RenderRequest{
		Definitions: []styleopts.Definition{
			spacingDefinition(),
			variantDefinition("card"),
			{OptionID: "ghost", Plugin: "missing"},
			{OptionID: "hidden", Plugin: styleopts.KindComponentVariation, When: `context == "admin"`},
		},
		Values: map[string]styleopts.Value{
			"spacing": styleopts.BoxSizeValue{
				"margin": {
					Lock:                styleopts.LockState{All: true},
					DirectionalValueSet: styleopts.DirectionalValueSet{Top: "4", Right: "4", Bottom: "4", Left: "4"},
				},
			}.Value(),
			"card":   {"component_variation": []any{"a", "c"}},
			"ghost":  {"anything": "x"},
			"hidden": {"component_variation": "a"},
		},
		Context: styleopts.RenderContext{Context: "page"},
	}

	result, err := engine.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := []string{"u-mt-4", "u-mr-4", "u-mb-4", "u-ml-4"}; !reflect.DeepEqual(result.Tree.Classes, want) {
		t.Fatalf("expected classes %v, got %v", want, result.Tree.Classes)
	}
	if got := result.Tree.Aux["#card"]; got != "X Z" {
		t.Fatalf("expected aux X Z, got %v", got)
	}
	if want := []string{"ghost", "hidden"}; !reflect.DeepEqual(result.Skipped, want) {
		t.Fatalf("expected skipped %v, got %v", want, result.Skipped)
	}
	if len(result.Artifacts) != 2 || result.Artifacts[0].OptionID != "spacing" {
		t.Fatalf("unexpected artifacts %+v", result.Artifacts)
	}
}

func TestEngineRenderReportsCollisions(t *testing.T) {
	var logged []styleopts.LogEvent
	engine := styleopts.NewEngine(plugins.Default(), styleopts.WithLogger(styleopts.LoggerFunc(func(e styleopts.LogEvent) {
		logged = append(logged, e)
	})))
	first := variantDefinition("card")
	second := variantDefinition("card")
	req := styleopts.RenderRequest{
		Definitions: []styleopts.Definition{first, second},
		Values:      map[string]styleopts.Value{"card": {"component_variation": []any{"b"}}},
	}

	result, err := engine.Render(context.Background(), req)
	if len(styleopts.Collisions(err)) != 1 {
		t.Fatalf("expected one collision, got %v", err)
	}
	if result.Tree.Aux["#card"] != "Y" {
		t.Fatalf("expected first value to be kept, got %v", result.Tree.Aux["#card"])
	}
	var sawCollision bool
	for _, event := range logged {
		if event.Message == "auxiliary key collision" && event.Level == styleopts.LevelError {
			sawCollision = true
		}
	}
	if !sawCollision {
		t.Fatalf("expected collision to be logged")
	}
}

func TestEngineConditionEngines(t *testing.T) {
	cases := []struct {
		name      string
		evaluator styleopts.Evaluator
		when      string
	}{
		{"expr", nil, `metadata.tier == "premium"`},
		{"cel", styleopts.NewCELEvaluator(), `metadata.tier == "premium"`},
		{"js", styleopts.NewJSEvaluator(), `metadata.tier === "premium"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var opts []styleopts.Option
			if tc.evaluator != nil {
				opts = append(opts, styleopts.WithEvaluator(tc.evaluator))
			}
			engine := styleopts.NewEngine(plugins.Default(), opts...)
			def := variantDefinition("card")
			def.When = tc.when
			req := styleopts.RenderRequest{
				Definitions: []styleopts.Definition{def},
				Values:      map[string]styleopts.Value{"card": {"component_variation": []any{"a"}}},
				Context:     styleopts.RenderContext{Metadata: map[string]any{"tier": "premium"}},
			}
			result, err := engine.Render(context.Background(), req)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if result.Tree.Aux["#card"] != "X" {
				t.Fatalf("expected condition to apply, got %+v", result)
			}

			req.Context.Metadata = map[string]any{"tier": "free"}
			result, _ = engine.Render(context.Background(), req)
			if len(result.Skipped) != 1 {
				t.Fatalf("expected option to be skipped, got %+v", result)
			}
		})
	}
}

func TestEngineCustomFunction(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default(), styleopts.WithCustomFunction("region_is", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, errors.New("region_is expects two arguments")
		}
		return styleopts.AsString(args[0]) == styleopts.AsString(args[1]), nil
	}))
	def := variantDefinition("card")
	def.When = `region_is(region, "sidebar")`
	req := styleopts.RenderRequest{
		Definitions: []styleopts.Definition{def},
		Values:      map[string]styleopts.Value{"card": {"component_variation": []any{"c"}}},
		Context:     styleopts.RenderContext{Region: "sidebar"},
	}
	result, err := engine.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Tree.Aux["#card"] != "Z" {
		t.Fatalf("expected helper condition to apply, got %+v", result.Tree)
	}
}

func TestEngineValidateCollectsProblems(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default())
	defs := []styleopts.Definition{
		spacingDefinition(),
		spacingDefinition(),
		{Plugin: styleopts.KindCSSClass},
		{OptionID: "ghost", Plugin: "missing"},
		{OptionID: "broken", Plugin: styleopts.KindCSSClass, When: "context =="},
	}
	err := engine.Validate(defs)
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	if !styleopts.IsConfigurationError(err) {
		t.Fatalf("expected configuration errors in %v", err)
	}
	if !errors.Is(err, styleopts.ErrUnknownPlugin) {
		t.Fatalf("expected unknown plugin in %v", err)
	}
	var evalErr *styleopts.EvaluationError
	if !errors.As(err, &evalErr) || evalErr.OptionID != "broken" {
		t.Fatalf("expected evaluation error for broken condition, got %v", err)
	}
	if err := engine.Validate([]styleopts.Definition{spacingDefinition()}); err != nil {
		t.Fatalf("expected valid definition, got %v", err)
	}
}

func TestEngineFormDefaultsOptionID(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default())
	form, err := engine.Form(spacingDefinition(), nil, styleopts.FormContext{})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.OptionID != "spacing" {
		t.Fatalf("expected option id, got %q", form.OptionID)
	}
	if _, ok := form.Find("boxsize", "margin", "lock"); !ok {
		t.Fatalf("expected lock checkboxes in form")
	}
}

func pickerDefinition(id string) styleopts.Definition {
	return styleopts.Definition{
		OptionID: id,
		Plugin:   styleopts.KindColorPicker,
		Config: map[string]any{
			"library": "theme/swatches",
			"options": map[string]any{
				"blue": map[string]any{"label": "Blue", "class": "is-blue", "value": "#0000ff"},
			},
		},
	}
}

func TestEngineRenderAttachesLibrariesOnce(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default())
	result, err := engine.Render(context.Background(), styleopts.RenderRequest{
		Definitions: []styleopts.Definition{pickerDefinition("accent"), spacingDefinition(), pickerDefinition("border")},
		Values: map[string]styleopts.Value{
			"accent":  {"css_class": "blue"},
			"spacing": styleopts.BoxSizeValue{"margin": {DirectionalValueSet: styleopts.DirectionalValueSet{Top: "1"}}}.Value(),
			"border":  {"css_class": "blue"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := []string{"theme/swatches"}; !reflect.DeepEqual(result.Tree.Libraries, want) {
		t.Fatalf("expected libraries %v, got %v", want, result.Tree.Libraries)
	}
	if want := []string{"is-blue", "u-mt-1", "is-blue"}; !reflect.DeepEqual(result.Tree.Classes, want) {
		t.Fatalf("expected classes %v, got %v", want, result.Tree.Classes)
	}
}

func TestEngineValidateUpload(t *testing.T) {
	engine := styleopts.NewEngine(plugins.Default())
	def := styleopts.Definition{OptionID: "hero_bg", Plugin: styleopts.KindBackground}
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	if err := engine.ValidateUpload(def, png); err != nil {
		t.Fatalf("expected png to be accepted: %v", err)
	}
	if err := engine.ValidateUpload(def, []byte("%PDF-1.7\n%")); !errors.Is(err, styleopts.ErrInvalidValue) {
		t.Fatalf("expected pdf to be rejected, got %v", err)
	}
	if err := engine.ValidateUpload(spacingDefinition(), png); !errors.Is(err, styleopts.ErrUploadsUnsupported) {
		t.Fatalf("expected uploads to be unsupported for box size, got %v", err)
	}
	if err := engine.ValidateUpload(styleopts.Definition{OptionID: "x", Plugin: "missing"}, png); !errors.Is(err, styleopts.ErrUnknownPlugin) {
		t.Fatalf("expected unknown plugin, got %v", err)
	}
}
