package styleopts

import "strings"

// Artifact is the presentation output of one style option for one submitted
// value. It is built fresh per build and owned by the caller.
type Artifact struct {
	// Classes in insertion order; duplicates are kept.
	Classes []string
	// Styles holds inline declarations as "property: value" without the
	// trailing semicolon.
	Styles []string
	// Stylesheets holds attached stylesheet text.
	Stylesheets []string
	// Aux maps render keys (conventionally "#<optionId>") to structured values.
	Aux map[string]any
	// Libraries are opaque attachment identifiers, unique per artifact.
	Libraries []string
	// Skipped records entries omitted because they could not be resolved.
	Skipped []string
}

// AddClass appends non-empty class tokens.
func (a *Artifact) AddClass(classes ...string) {
	for _, class := range classes {
		for _, token := range strings.Fields(class) {
			a.Classes = append(a.Classes, token)
		}
	}
}

// AddStyle appends an inline declaration.
func (a *Artifact) AddStyle(property, value string) {
	property = strings.TrimSpace(property)
	value = strings.TrimSpace(value)
	if property == "" || value == "" {
		return
	}
	a.Styles = append(a.Styles, property+": "+value)
}

// AddStylesheet appends stylesheet text.
func (a *Artifact) AddStylesheet(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	a.Stylesheets = append(a.Stylesheets, text)
}

// SetAux stores an auxiliary render value.
func (a *Artifact) SetAux(key string, value any) {
	if key == "" {
		return
	}
	if a.Aux == nil {
		a.Aux = map[string]any{}
	}
	a.Aux[key] = value
}

// Attach records a library identifier once.
func (a *Artifact) Attach(library string) {
	library = strings.TrimSpace(library)
	if library == "" {
		return
	}
	for _, existing := range a.Libraries {
		if existing == library {
			return
		}
	}
	a.Libraries = append(a.Libraries, library)
}

// Skip records a resolution skip.
func (a *Artifact) Skip(reason string) {
	a.Skipped = append(a.Skipped, reason)
}

// Empty reports whether the artifact contributes nothing to a render tree.
func (a Artifact) Empty() bool {
	return len(a.Classes) == 0 && len(a.Styles) == 0 && len(a.Stylesheets) == 0 &&
		len(a.Aux) == 0 && len(a.Libraries) == 0
}

// AuxKey returns the conventional auxiliary key for an option id.
func AuxKey(optionID string) string {
	return "#" + optionID
}
