package styleopts

import "strings"

// PropertyConfig describes one boxed CSS property such as margin or padding.
// It is static configuration and is never edited at runtime.
type PropertyConfig struct {
	ID                string               `json:"id" yaml:"id" toml:"id"`
	Label             string               `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	CSSPrefix         string               `json:"prefix" yaml:"prefix" toml:"prefix"`
	DirectionPrefixes map[Direction]string `json:"-" yaml:"-" toml:"-"`
	Default           string               `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Choices           []Choice             `json:"choices,omitempty" yaml:"choices,omitempty" toml:"choices,omitempty"`
}

// DefaultDirectionPrefixes returns the t-/r-/b-/l- class prefixes.
func DefaultDirectionPrefixes() map[Direction]string {
	return map[Direction]string{
		Top:    "t-",
		Right:  "r-",
		Bottom: "b-",
		Left:   "l-",
	}
}

// DefaultProperties returns the margin and padding configuration used when a
// definition does not override it.
func DefaultProperties() []PropertyConfig {
	return []PropertyConfig{
		{ID: "margin", Label: "Margin", CSSPrefix: "u-m", DirectionPrefixes: DefaultDirectionPrefixes()},
		{ID: "padding", Label: "Padding", CSSPrefix: "u-p", DirectionPrefixes: DefaultDirectionPrefixes()},
	}
}

// Fallback returns the value unresolved directions take.
func (p PropertyConfig) Fallback() string {
	if p.Default != "" {
		return p.Default
	}
	return DefaultValue
}

// DisplayLabel returns Label or a title-cased ID.
func (p PropertyConfig) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	if p.ID == "" {
		return ""
	}
	return strings.ToUpper(p.ID[:1]) + p.ID[1:]
}

// ClassFor builds the utility class for value at d, e.g. u-mt-4.
func (p PropertyConfig) ClassFor(d Direction, value string) string {
	return p.CSSPrefix + p.DirectionPrefixes[d] + value
}

// Validate reports missing static configuration. Missing prefixes are never
// defaulted silently.
func (p PropertyConfig) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ConfigurationError{Field: "properties", Reason: "property id is required"}
	}
	if strings.TrimSpace(p.CSSPrefix) == "" {
		return &ConfigurationError{Field: "properties." + p.ID + ".prefix", Reason: "css prefix is required"}
	}
	for _, d := range directions {
		if strings.TrimSpace(p.DirectionPrefixes[d]) == "" {
			return &ConfigurationError{
				Field:  "properties." + p.ID + ".directions." + d.String(),
				Reason: "direction prefix is required",
			}
		}
	}
	return nil
}
