package plugins

import (
	"encoding/json"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/internal/hydrate"
)

const keyCSSClass = "css_class"

// transientKeys are form state entries that never belong to a stored value.
var transientKeys = []string{"op", "form_id", "form_token", "form_build_id", "submit"}

// CSSClass maps a selected option key to its configured class tokens. Without
// configured options the submitted text is used as class tokens verbatim.
type CSSClass struct{}

func (CSSClass) Kind() styleopts.Kind { return styleopts.KindCSSClass }

func (CSSClass) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, _ styleopts.FormContext) styleopts.FormSpec {
	return classForm(def, current)
}

func (CSSClass) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	return submitClass(def, raw)
}

func (CSSClass) Build(def styleopts.Definition, value styleopts.Value, _ styleopts.Env) styleopts.Artifact {
	return buildClass(def, value)
}

func (CSSClass) ValidateConfig(def styleopts.Definition) error {
	return validateClassOptions(def)
}

func classForm(def styleopts.Definition, current styleopts.Value) styleopts.FormSpec {
	field := styleopts.Field{
		Key:         keyCSSClass,
		Type:        styleopts.FieldTextfield,
		Title:       def.DisplayLabel(),
		Description: def.DisplayDescription(),
		Default:     defaultOr(current[keyCSSClass], def),
	}
	if entries := def.Options(); len(entries) > 0 {
		field.Type = styleopts.FieldSelect
		field.Choices = choicesFrom(entries)
		field.Multiple = def.ConfigBool("multiple")
	}
	return styleopts.FormSpec{OptionID: def.OptionID, Fields: []styleopts.Field{field}}
}

type classSubmission struct {
	CSSClass selection `json:"css_class"`
}

// selection accepts a single key, a list of keys or null.
type selection []string

func (s *selection) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			*s = selection{single}
		} else {
			*s = nil
		}
		return nil
	}
	var list []any
	if err := json.Unmarshal(data, &list); err != nil {
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		if generic == nil {
			*s = nil
			return nil
		}
		*s = selection(styleopts.AsStrings(generic))
		return nil
	}
	*s = selection(styleopts.AsStrings(list))
	return nil
}

var classDecoder = hydrate.NewDecoder[classSubmission](
	hydrate.WithAllowNil[classSubmission](),
	hydrate.WithPreHook[classSubmission](hydrate.Drop(transientKeys...)),
)

func submitClass(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	decoded, err := classDecoder.Decode(hydrateContext(def), raw)
	if err != nil {
		return nil, err
	}
	keys := []string(decoded.CSSClass)
	if len(keys) == 0 {
		return styleopts.Value{}, nil
	}
	if len(def.Options()) == 0 {
		var tokens []string
		for _, key := range keys {
			tokens = append(tokens, strings.Fields(key)...)
		}
		return styleopts.Value{keyCSSClass: strings.Join(tokens, " ")}, nil
	}
	for _, key := range keys {
		if _, ok := def.Option(key); !ok {
			return nil, invalidValue(def, "unknown option %q", key)
		}
	}
	if !def.ConfigBool("multiple") {
		if len(keys) > 1 {
			return nil, invalidValue(def, "expected a single option, got %d", len(keys))
		}
		return styleopts.Value{keyCSSClass: keys[0]}, nil
	}
	return styleopts.Value{keyCSSClass: keys}, nil
}

func buildClass(def styleopts.Definition, value styleopts.Value) styleopts.Artifact {
	var artifact styleopts.Artifact
	keys := styleopts.AsStrings(value[keyCSSClass])
	if len(keys) == 0 {
		return artifact
	}
	if len(def.Options()) == 0 {
		artifact.AddClass(keys...)
		return artifact
	}
	for _, key := range keys {
		entry, ok := def.Option(key)
		if !ok {
			artifact.Skip(keyCSSClass + ": unknown option " + key)
			continue
		}
		class := entry.String("class")
		if class == "" {
			artifact.Skip(keyCSSClass + ": option " + key + " has no class")
			continue
		}
		artifact.AddClass(class)
	}
	return artifact
}

func validateClassOptions(def styleopts.Definition) error {
	raw, ok := def.Config["options"]
	if !ok || raw == nil {
		return nil
	}
	options := styleopts.AsMap(raw)
	if options == nil {
		return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "options", Reason: "options must be a map"}
	}
	for key, entry := range options {
		if styleopts.AsMap(entry) == nil {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "options." + key, Reason: "option entry must be a map"}
		}
	}
	return nil
}
