package plugins

import (
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/pkg/css"
)

// noneSwatch draws a crossed-out swatch for the "none" option.
const noneSwatch = ` label {
  --line-width: 3px;
  border: 1px solid #666;
  background-color: white;
  background-image: linear-gradient(
    -45deg,
    transparent calc(50% - var(--line-width) / 2),
    red 0,
    red calc(50% + var(--line-width) / 2),
    transparent 0
  );
}
`

// ThemeColors is a radios decorator whose swatches read their colours from
// theme settings. Each option may name a theme_setting and a css_property; the
// setting value is exposed as that custom property on the widget.
type ThemeColors struct{}

func (ThemeColors) Kind() styleopts.Kind { return styleopts.KindThemeColors }

func (ThemeColors) BuildConfigurationForm(def styleopts.Definition, current styleopts.Value, fc styleopts.FormContext) styleopts.FormSpec {
	form := classForm(def, current)
	decorateRadios(def, &form, "so--css-class-radios")
	field, ok := form.Find(keyCSSClass)
	if !ok {
		return form
	}

	theme := def.ConfigString("theme")
	var style []string
	var sheet strings.Builder
	for _, choice := range field.Choices {
		entry, _ := def.Option(choice.Key)
		class := firstClass(entry.String("class"))
		property := entry.String("css_property")
		setting := entry.String("theme_setting")
		if theme != "" && property != "" && setting != "" && fc.Themes != nil && class != "" {
			if value, ok := fc.Themes.ThemeSetting(theme, setting); ok {
				if err := css.ValidateDeclaration(property, value); err == nil {
					style = append(style, property+": "+value)
					sheet.WriteString("." + class + " label { background-color: var(" + property + "); }\n")
				}
			}
		}
		if choice.Key == "none" && class != "" {
			sheet.WriteString("." + class + noneSwatch)
		}
	}
	if len(style) > 0 {
		if field.Attributes == nil {
			field.Attributes = map[string]string{}
		}
		field.Attributes["style"] = strings.Join(style, "; ") + ";"
	}
	if sheet.Len() > 0 && css.Validate(sheet.String()) == nil {
		field.Prefix = styleTag(sheet.String())
	}
	return form
}

func (ThemeColors) Submit(def styleopts.Definition, raw map[string]any) (styleopts.Value, error) {
	return submitClass(def, raw)
}

func (ThemeColors) Build(def styleopts.Definition, value styleopts.Value, _ styleopts.Env) styleopts.Artifact {
	return buildClass(def, value)
}

func (ThemeColors) ValidateConfig(def styleopts.Definition) error {
	if err := validateClassOptions(def); err != nil {
		return err
	}
	for _, entry := range def.Options() {
		if entry.String("theme_setting") != "" && def.ConfigString("theme") == "" {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "theme", Reason: "theme is required when options read theme settings"}
		}
		if property := entry.String("css_property"); property != "" && !strings.HasPrefix(property, "--") {
			return &styleopts.ConfigurationError{OptionID: def.OptionID, Field: "options." + entry.Key + ".css_property", Reason: "css_property must be a custom property"}
		}
	}
	return nil
}

func firstClass(classes string) string {
	fields := strings.Fields(classes)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
