package plugins

import (
	"sort"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/internal/hydrate"
)

const (
	keyBoxSize = "boxsize"
	keyLock    = "lock"

	// ClassBoxSizeGroup marks a property fieldset for the interactive surface.
	ClassBoxSizeGroup = "js-so-boxsize"
	// DataBoxSizeDefault carries a property's fallback to the surface.
	DataBoxSizeDefault = "soBoxsizeDefault"
)

// BoxSize edits margin and padding per direction with axis locks. The stored
// value is {property: {lock: {x, y, all}, top, right, bottom, left}} and is
// always resolved at submit time.
type BoxSize struct{}

func (BoxSize) Kind() styleopts.Kind { return styleopts.KindBoxSize }

// Properties returns the configured properties, or margin and padding.
func (BoxSize) Properties(def styleopts.Definition) []styleopts.PropertyConfig {
	return boxProperties(def)
}

func (BoxSize) ValidateConfig(def styleopts.Definition) error {
	if raw, ok := def.Config["properties"]; ok && raw != nil && styleopts.AsMap(raw) == nil {
		if _, isList := raw.([]any); !isList {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "properties", Reason: "properties must be a list or a map"}
		}
	}
	for _, property := range boxProperties(def) {
		if err := property.Validate(); err != nil {
			if cfgErr, ok := err.(*styleopts.ConfigurationError); ok {
				cfgErr.OptionID = def.OptionID
			}
			return err
		}
	}
	return nil
}

func (BoxSize) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, _ styleopts.FormContext) styleopts.FormSpec {
	title := def.DisplayLabel()
	if title == "" || title == def.OptionID {
		title = "Box Sizing"
	}
	root := styleopts.Field{
		Key:         keyBoxSize,
		Type:        styleopts.FieldFieldset,
		Title:       title,
		Description: def.DisplayDescription(),
		Classes:     []string{"so-boxsize"},
		Libraries:   []string{LibraryBoxSize},
	}
	state := current.BoxSize()
	for _, property := range boxProperties(def) {
		root.Children = append(root.Children, propertyFieldset(def, property, state[property.ID]))
	}
	return styleopts.FormSpec{OptionID: def.OptionID, Fields: []styleopts.Field{root}}
}

func propertyFieldset(def styleopts.Definition, property styleopts.PropertyConfig, current styleopts.PropertyValue) styleopts.Field {
	fallback := propertyFallback(def, property)
	resolution := styleopts.Resolve(current.Lock, current.DirectionalValueSet, fallback)
	group := styleopts.Field{
		Key:   property.ID,
		Type:  styleopts.FieldFieldset,
		Title: property.DisplayLabel(),
		Classes: []string{
			ClassBoxSizeGroup,
			"so-boxsize__property",
			"so-boxsize__property--" + property.ID,
		},
		Data: map[string]string{DataBoxSizeDefault: fallback},
	}

	lock := styleopts.Field{
		Key:   keyLock,
		Type:  styleopts.FieldCheckboxes,
		Title: "Lock",
		Default: map[string]bool{
			"x":   current.Lock.X,
			"y":   current.Lock.Y,
			"all": current.Lock.All,
		},
		Classes: []string{
			classContainerInline,
			"so-boxsize__lock-wrapper",
			"so-boxsize__lock-wrapper--" + property.ID,
		},
	}
	for _, axis := range styleopts.Axes() {
		lock.Choices = append(lock.Choices, styleopts.Choice{
			Key:        axis.String(),
			Label:      axis.Label(),
			Attributes: map[string]string{"title": lockTitle(axis, property.ID)},
		})
	}
	group.Children = append(group.Children, lock)

	choices := propertyChoices(def, property)
	for _, d := range styleopts.Directions() {
		field := styleopts.Field{
			Key:            d.String(),
			Type:           styleopts.FieldTextfield,
			Title:          d.Label(),
			TitleInvisible: true,
			Default:        resolution.Values.Get(d),
			Disabled:       resolution.Derived.Has(d),
			Classes: []string{
				"so-boxsize__input",
				"so-boxsize__input--" + d.String(),
				"so-boxsize__input--" + property.ID,
			},
		}
		if len(choices) > 0 {
			field.Type = styleopts.FieldSelect
			field.Choices = choices
			field.Attributes = map[string]string{"title": d.Label() + " " + property.ID}
		}
		group.Children = append(group.Children, field)
	}
	return group
}

// propertyFallback is the value empty directions of property take: the
// property default, then the option default, then the sentinel. Form, surface
// and submit all use it.
func propertyFallback(def styleopts.Definition, property styleopts.PropertyConfig) string {
	if property.Default != "" {
		return property.Default
	}
	if fallback := styleopts.AsString(def.Default); fallback != "" {
		return fallback
	}
	return styleopts.DefaultValue
}

func lockTitle(axis styleopts.Axis, property string) string {
	if axis == styleopts.AxisAll {
		return "Lock " + property + " along all axes"
	}
	return "Lock " + property + " along the " + axis.String() + " axis"
}

func propertyChoices(def styleopts.Definition, property styleopts.PropertyConfig) []styleopts.Choice {
	if len(property.Choices) > 0 {
		return property.Choices
	}
	entries := styleopts.OptionEntries(styleopts.AsMap(def.ConfigMap("options")[property.ID]))
	return choicesFrom(entries)
}

var boxDecoder = hydrate.NewDecoder[styleopts.BoxSizeValue](
	hydrate.WithAllowNil[styleopts.BoxSizeValue](),
	hydrate.WithPreHook[styleopts.BoxSizeValue](hydrate.Drop(transientKeys...)),
	hydrate.WithPreHook[styleopts.BoxSizeValue](hydrate.Unwrap(keyBoxSize)),
	hydrate.WithPreHook[styleopts.BoxSizeValue](hydrate.Checkboxes("*", keyLock)),
	hydrate.WithPreHook[styleopts.BoxSizeValue](stringifyDirections),
)

// stringifyDirections turns numeric direction values into strings.
func stringifyDirections(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	for _, raw := range payload {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, d := range styleopts.Directions() {
			if value, ok := entry[d.String()]; ok {
				if _, isString := value.(string); !isString {
					entry[d.String()] = styleopts.AsString(value)
				}
			}
		}
	}
	return payload, nil
}

// Submit decodes the raw form tree and resolves every configured property so
// the stored directions are canonical whatever the client did. Missing lock
// flags are false.
func (BoxSize) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	submitted, err := boxDecoder.Decode(hydrateContext(def), raw)
	if err != nil {
		return nil, err
	}
	properties := boxProperties(def)
	for i := range properties {
		properties[i].Default = propertyFallback(def, properties[i])
	}
	return styleopts.ResolveSubmission(properties, submitted).Value(), nil
}

// Build emits prefix+direction+value classes for present, non-default values in
// property then direction order. It does not re-resolve locks.
func (BoxSize) Build(def styleopts.Definition, value styleopts.Value, _ styleopts.Env) styleopts.Artifact {
	var artifact styleopts.Artifact
	state := value.BoxSize()
	if len(state) == 0 {
		return artifact
	}
	for _, property := range boxProperties(def) {
		if err := property.Validate(); err != nil {
			artifact.Skip(keyBoxSize + ": " + err.Error())
			continue
		}
		current, ok := state[property.ID]
		if !ok {
			continue
		}
		for _, d := range styleopts.Directions() {
			v := current.Get(d)
			if v == "" || v == styleopts.DefaultValue {
				continue
			}
			artifact.AddClass(property.ClassFor(d, v))
		}
	}
	return artifact
}

// boxProperties reads `properties` from config as a list of maps or a map keyed
// by property id. Configured properties must carry their direction prefixes.
func boxProperties(def styleopts.Definition) []styleopts.PropertyConfig {
	raw, ok := def.Config["properties"]
	if !ok || raw == nil {
		return styleopts.DefaultProperties()
	}
	var entries []map[string]any
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if m := styleopts.AsMap(item); m != nil {
				entries = append(entries, m)
			}
		}
	case []map[string]any:
		entries = v
	default:
		keyed := styleopts.AsMap(raw)
		ids := make([]string, 0, len(keyed))
		for id := range keyed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			m := styleopts.AsMap(keyed[id])
			if m == nil {
				continue
			}
			if _, has := m["id"]; !has {
				copied := map[string]any{"id": id}
				for k, item := range m {
					copied[k] = item
				}
				m = copied
			}
			entries = append(entries, m)
		}
	}
	out := make([]styleopts.PropertyConfig, 0, len(entries))
	for _, entry := range entries {
		property := styleopts.PropertyConfig{
			ID:        styleopts.AsString(entry["id"]),
			Label:     styleopts.AsString(entry["label"]),
			CSSPrefix: styleopts.AsString(entry["prefix"]),
			Default:   styleopts.AsString(entry["default"]),
		}
		if dirs := styleopts.AsMap(entry["directions"]); dirs != nil {
			property.DirectionPrefixes = map[styleopts.Direction]string{}
			for name, prefix := range dirs {
				d, ok := styleopts.ParseDirection(name)
				if !ok {
					continue
				}
				property.DirectionPrefixes[d] = styleopts.AsString(prefix)
			}
		}
		out = append(out, property)
	}
	return out
}
