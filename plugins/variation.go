package plugins

import (
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/internal/hydrate"
)

const (
	keyVariation         = "component_variation"
	classTplSuggestion   = "me-style-option-tpl-suggestion"
	variationSubmitLabel = "Submit"
)

// ComponentVariation selects template variations. The selection is exposed
// under the option's auxiliary key for template suggestion consumers rather
// than as classes.
type ComponentVariation struct{}

func (ComponentVariation) Kind() styleopts.Kind { return styleopts.KindComponentVariation }

// SubmitName is the name of the hidden button that triggers a form rebuild
// when the variation changes.
func SubmitName(def styleopts.Definition) string {
	return def.OptionID + "-" + string(def.Plugin) + "-submit"
}

func (ComponentVariation) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, fc styleopts.FormContext) styleopts.FormSpec {
	var initial any = current[keyVariation]
	if isEmptyValue(initial) {
		initial = def.Default
		if q := fc.QueryValue(def.OptionID); q != "" {
			initial = q
		}
	}
	field := styleopts.Field{
		Key:         keyVariation,
		Type:        styleopts.FieldTextfield,
		Title:       def.DisplayLabel(),
		Description: def.DisplayDescription(),
		Default:     initial,
		Classes:     []string{classTplSuggestion},
		Ajax:        &styleopts.Ajax{Wrapper: fc.FormID, TriggerAs: SubmitName(def)},
	}
	if wrapper := def.ConfigString(keyVariation); wrapper != "" {
		field.WrapperClasses = strings.Fields(wrapper)
	}
	form := styleopts.FormSpec{OptionID: def.OptionID}
	if entries := def.Options(); len(entries) > 0 {
		field.Type = styleopts.FieldSelect
		field.Choices = choicesFrom(entries)
		if hasImages(field.Choices) {
			field.Type = styleopts.FieldImageRadios
		} else {
			field.Multiple = def.ConfigBool("multiple")
		}
		form.Libraries = append(form.Libraries, LibraryStyleOptions)
	}
	form.Fields = []styleopts.Field{
		field,
		{
			Key:     "submit",
			Type:    styleopts.FieldSubmit,
			Title:   variationSubmitLabel,
			Classes: []string{classVisuallyHidden},
			Attributes: map[string]string{
				"name": SubmitName(def),
			},
			Ajax: &styleopts.Ajax{Wrapper: fc.FormID, Callback: "rebuild"},
		},
	}
	return form
}

type variationSubmission struct {
	Variation selection `json:"component_variation"`
}

var variationDecoder = hydrate.NewDecoder[variationSubmission](
	hydrate.WithAllowNil[variationSubmission](),
	hydrate.WithPreHook[variationSubmission](hydrate.Drop(transientKeys...)),
)

// Submit keeps the selection order. Multiple selections are only accepted
// when the option is configured as multiple.
func (ComponentVariation) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	decoded, err := variationDecoder.Decode(hydrateContext(def), raw)
	if err != nil {
		return nil, err
	}
	keys := []string(decoded.Variation)
	if len(keys) == 0 {
		return styleopts.Value{}, nil
	}
	if len(def.Options()) > 0 {
		for _, key := range keys {
			if _, ok := def.Option(key); !ok {
				return nil, invalidValue(def, "unknown option %q", key)
			}
		}
	}
	if def.ConfigBool("multiple") {
		return styleopts.Value{keyVariation: keys}, nil
	}
	if len(keys) > 1 {
		return nil, invalidValue(def, "expected a single option, got %d", len(keys))
	}
	return styleopts.Value{keyVariation: keys[0]}, nil
}

// Build joins the mapped values of a multiple selection with a space in
// selection order. A single selection is exposed as the raw key.
func (ComponentVariation) Build(def styleopts.Definition, value styleopts.Value, _ styleopts.Env) styleopts.Artifact {
	var artifact styleopts.Artifact
	raw, ok := value[keyVariation]
	if !ok {
		return artifact
	}
	var property string
	switch raw.(type) {
	case []any, []string:
		var parts []string
		for _, key := range styleopts.AsStrings(raw) {
			entry, ok := def.Option(key)
			if !ok || entry.String("value") == "" {
				artifact.Skip(keyVariation + ": option " + key + " has no value")
				continue
			}
			parts = append(parts, entry.String("value"))
		}
		property = strings.Join(parts, " ")
	default:
		property = styleopts.AsString(raw)
	}
	if property != "" {
		artifact.SetAux(styleopts.AuxKey(def.OptionID), property)
	}
	return artifact
}

func (ComponentVariation) ValidateConfig(def styleopts.Definition) error {
	return validateClassOptions(def)
}

func hasImages(choices []styleopts.Choice) bool {
	for _, choice := range choices {
		if choice.Image != "" {
			return true
		}
	}
	return false
}

func isEmptyValue(value any) bool {
	return styleopts.Value{"v": value}.Empty()
}
