package plugins

import (
	"sort"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/css"
)

const classColorPicker = "so--color-picker"

// ColorSelection is the structured colour choice exposed under the option's
// auxiliary key.
type ColorSelection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ColorPicker is a css_class option rendered as colour swatches. Each option
// carries a css_var (or value) painted behind its label.
type ColorPicker struct{}

func (ColorPicker) Kind() styleopts.Kind { return styleopts.KindColorPicker }

func (ColorPicker) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, _ styleopts.FormContext) styleopts.FormSpec {
	form := classForm(def, current)
	field, ok := form.Find(keyCSSClass)
	if !ok {
		return form
	}
	field.Type = styleopts.FieldRadios
	field.Multiple = false
	for i := range field.Choices {
		field.Choices[i].Classes = append(field.Choices[i].Classes, classVisuallyHidden)
	}
	field.Classes = []string{classContainerInline, classColorPicker, OptionClass(def.OptionID), classHideRadios, classHideLabels}
	if sheet := swatchStylesheet(def); sheet != "" {
		field.Prefix = styleTag(sheet)
	}
	field.Libraries = appendUnique(field.Libraries, def.ConfigString("library"), LibraryCSSClassRadios)
	return form
}

func (ColorPicker) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	value, err := submitClass(def, raw)
	if err != nil {
		return nil, err
	}
	if len(styleopts.AsStrings(value[keyCSSClass])) > 1 {
		return nil, invalidValue(def, "colour picker accepts a single option")
	}
	return value, nil
}

// Build emits the mapped class and the structured selection. Options without
// a class still expose the selection.
func (ColorPicker) Build(def styleopts.Definition, value styleopts.Value, _ styleopts.Env) styleopts.Artifact {
	var artifact styleopts.Artifact
	key := value.String(keyCSSClass)
	if key == "" {
		return artifact
	}
	entry, ok := def.Option(key)
	if !ok {
		artifact.Skip(keyCSSClass + ": unknown option " + key)
		return artifact
	}
	artifact.AddClass(entry.String("class"))
	artifact.Attach(def.ConfigString("library"))
	label := entry.String("label")
	if label == "" {
		label = key
	}
	artifact.SetAux(styleopts.AuxKey(def.OptionID), ColorSelection{ID: key, Label: label, Value: colorValue(entry)})
	return artifact
}

func (ColorPicker) ValidateConfig(def styleopts.Definition) error {
	if err := validateClassOptions(def); err != nil {
		return err
	}
	for _, entry := range def.Options() {
		color := colorValue(entry)
		if color == "" {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "options." + entry.Key, Reason: "css_var or value is required"}
		}
		if err := css.ValidateDeclaration("background-color", color); err != nil {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "options." + entry.Key, Reason: err.Error()}
		}
	}
	return nil
}

// swatchStylesheet paints each radio label with its option colour. Keys are
// emitted in sorted order so the form stays deterministic.
func swatchStylesheet(def styleopts.Definition) string {
	entries := def.Options()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	var b strings.Builder
	for _, entry := range entries {
		color := colorValue(entry)
		if color == "" {
			continue
		}
		if err := css.ValidateDeclaration("background-color", color); err != nil {
			continue
		}
		rule := "background-color: " + color + ";"
		if hex, ok := css.NormalizeColor(color); ok && strings.HasPrefix(hex, "#") {
			rule += " color: " + css.Contrast(hex) + ";"
		}
		b.WriteString("\n  ." + classColorPicker + " [value=" + entry.Key + "]+label { " + rule + " }")
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString("\n")
	return b.String()
}

func colorValue(entry styleopts.OptionEntry) string {
	if v := entry.String("css_var"); v != "" {
		return v
	}
	return entry.String("value")
}
