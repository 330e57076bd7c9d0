package plugins

import (
	"fmt"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/internal/hydrate"
	"github.com/gosimple/slug"
)

// Library identifiers attached by the built-in plugins.
const (
	LibraryBoxSize        = "style_options_plugins/boxsize"
	LibraryBackground     = "style_options_plugins/background"
	LibraryCSSClassRadios = "style_options_plugins/css_class_radios"
	LibraryStyleOptions   = "style_options_plugins/style_options"
)

// Class names shared by radios based widgets.
const (
	classVisuallyHidden  = "visually-hidden"
	classContainerInline = "container-inline"
	classHideRadios      = "hide-radios"
	classHideLabels      = "hide-labels"
)

// Default returns a registry holding every built-in plugin.
func Default() *styleopts.Registry {
	return styleopts.NewRegistry(
		CSSClass{},
		CSSClassRadios{},
		ThemeColors{},
		BoxSize{},
		Background{},
		ColorPicker{},
		ComponentVariation{},
	)
}

// OptionClass returns the so--<option-id> class used to scope widget styles.
func OptionClass(optionID string) string {
	return "so--" + strings.ReplaceAll(slug.Make(optionID), "_", "-")
}

func hydrateContext(def styleopts.Definition) hydrate.Context {
	return hydrate.Context{OptionID: def.OptionID, Plugin: string(def.Plugin)}
}

func invalidValue(def styleopts.Definition, format string, args ...any) error {
	return fmt.Errorf("%w: option %s: %s", styleopts.ErrInvalidValue, def.OptionID, fmt.Sprintf(format, args...))
}

func choicesFrom(entries []styleopts.OptionEntry) []styleopts.Choice {
	out := make([]styleopts.Choice, 0, len(entries))
	for _, entry := range entries {
		label := entry.String("label")
		if label == "" {
			label = entry.Key
		}
		out = append(out, styleopts.Choice{
			Key:   entry.Key,
			Label: label,
			Image: entry.String("image"),
		})
	}
	return out
}

func defaultOr(current any, def styleopts.Definition) any {
	if current != nil {
		if s, ok := current.(string); !ok || s != "" {
			return current
		}
	}
	return def.Default
}
