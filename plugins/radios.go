package plugins

import (
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/css"
)

// CSSClassRadios renders the CSS class select as radios decorated with the
// option classes, optionally hiding the inputs or labels and prefixing an
// inline stylesheet.
type CSSClassRadios struct{}

func (CSSClassRadios) Kind() styleopts.Kind { return styleopts.KindCSSClassRadios }

func (CSSClassRadios) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, _ styleopts.FormContext) styleopts.FormSpec {
	form := classForm(def, current)
	decorateRadios(def, &form, "so--css-class-radios")
	return form
}

func (CSSClassRadios) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	return submitClass(def, raw)
}

func (CSSClassRadios) Build(def styleopts.Definition, value styleopts.Value, _ styleopts.Env) styleopts.Artifact {
	return buildClass(def, value)
}

func (CSSClassRadios) ValidateConfig(def styleopts.Definition) error {
	if err := validateClassOptions(def); err != nil {
		return err
	}
	if style := def.ConfigString("style"); style != "" {
		if err := css.Validate(style); err != nil {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "style", Reason: err.Error()}
		}
	}
	return nil
}

// decorateRadios turns the css_class field into a radios widget: each choice
// wrapper carries its option classes, container classes scope the widget and
// a configured stylesheet is emitted as the field prefix.
func decorateRadios(def styleopts.Definition, form *styleopts.FormSpec, widgetClass string) {
	field, ok := form.Find(keyCSSClass)
	if !ok {
		return
	}
	field.Type = styleopts.FieldRadios
	field.Multiple = false
	hideRadios := def.ConfigBool("hide_radios")
	for i := range field.Choices {
		choice := &field.Choices[i]
		if entry, ok := def.Option(choice.Key); ok {
			choice.WrapperClasses = strings.Fields(entry.String("class"))
		}
		if hideRadios {
			choice.Classes = append(choice.Classes, classVisuallyHidden)
		}
	}
	field.Classes = []string{classContainerInline, widgetClass, OptionClass(def.OptionID)}
	if hideRadios {
		field.Classes = append(field.Classes, classHideRadios)
	}
	if def.ConfigBool("hide_labels") {
		field.Classes = append(field.Classes, classHideLabels)
	}
	if style := def.ConfigString("style"); style != "" && css.Validate(style) == nil {
		field.Prefix = styleTag(style)
	}
	field.Libraries = appendUnique(field.Libraries, LibraryCSSClassRadios)
}

func styleTag(stylesheet string) string {
	return "<style>" + stylesheet + "</style>"
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if item == "" {
			continue
		}
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
