package styleopts

import (
	"net/url"
	"strings"
)

// Kind tags a plugin variant. New variants extend this set.
type Kind string

const (
	KindCSSClass           Kind = "css_class"
	KindCSSClassRadios     Kind = "css_class_radios"
	KindThemeColors        Kind = "theme_colors"
	KindBoxSize            Kind = "boxsize"
	KindBackground         Kind = "background"
	KindColorPicker        Kind = "color_picker"
	KindComponentVariation Kind = "component_variation"
)

// Kinds lists every built-in plugin kind.
func Kinds() []Kind {
	return []Kind{
		KindCSSClass,
		KindCSSClassRadios,
		KindThemeColors,
		KindBoxSize,
		KindBackground,
		KindColorPicker,
		KindComponentVariation,
	}
}

// Plugin is the contract every style option variant implements.
//
// BuildConfigurationForm must be deterministic for the same definition, value
// and form context. Submit normalizes raw form input into the stored value
// shape. Build is a pure renderer: it never fails, never mutates its inputs,
// and returns the same artifact for the same inputs.
type Plugin interface {
	Kind() Kind
	BuildConfigurationForm(def Definition, current Value, fc FormContext) FormSpec
	Submit(def Definition, raw map[string]any) (Value, error)
	Build(def Definition, value Value, env Env) Artifact
}

// ConfigValidator is implemented by plugins that can reject a definition at
// setup time.
type ConfigValidator interface {
	ValidateConfig(def Definition) error
}

// ConfigDefaulter is implemented by plugins that ship default config layered
// beneath a definition's own config.
type ConfigDefaulter interface {
	DefaultConfig() map[string]any
}

// UploadValidator is implemented by plugins whose forms accept file uploads.
// head holds the leading bytes of the uploaded file.
type UploadValidator interface {
	ValidateUpload(def Definition, head []byte) error
}

// StyleBundle collects style declarations for the external style-generation
// collaborator. Declarations keep insertion order.
type StyleBundle struct {
	OptionID     string
	Class        string
	FileURL      string
	Declarations []Declaration
}

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// Add appends a declaration when value is non-empty.
func (b *StyleBundle) Add(property, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.Declarations = append(b.Declarations, Declaration{Property: property, Value: value})
}

// StyleRenderer turns a style bundle into stylesheet text.
type StyleRenderer interface {
	RenderStyle(bundle StyleBundle) (string, error)
}

// FileResolver maps a stored file reference to a public URL.
type FileResolver interface {
	FileURL(fileID string) (string, bool)
}

// MediaResolver maps a media entity to the file referenced by one of its
// fields.
type MediaResolver interface {
	MediaFile(mediaID, field string) (string, bool)
}

// ThemeSettings reads a named setting from a theme.
type ThemeSettings interface {
	ThemeSetting(theme, name string) (string, bool)
}

// Env carries the collaborators a Build call may consult. Nil collaborators
// degrade the affected contributions to skips.
type Env struct {
	Styles StyleRenderer
	Files  FileResolver
	Media  MediaResolver
	Themes ThemeSettings
	Logger Logger
}

// Log returns the configured logger or a noop one.
func (e Env) Log() Logger {
	if e.Logger == nil {
		return noopLogger{}
	}
	return e.Logger
}

// FormContext carries request-scoped inputs to form building.
type FormContext struct {
	FormID       string
	Query        url.Values
	MediaLibrary bool
	Themes       ThemeSettings
	Styles       StyleRenderer
}

// QueryValue returns the first query value for key.
func (fc FormContext) QueryValue(key string) string {
	if fc.Query == nil {
		return ""
	}
	return strings.TrimSpace(fc.Query.Get(key))
}
