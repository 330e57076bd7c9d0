package styleopts

import (
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// NamedArtifact pairs an artifact with the option that produced it.
type NamedArtifact struct {
	OptionID string
	Artifact Artifact
}

// RenderTree is the merged presentation output handed to the render
// collaborator.
type RenderTree struct {
	Classes     []string
	Styles      []string
	Stylesheets []string
	Aux         map[string]any
	Libraries   []string
}

// Style joins the inline declarations into one style attribute value.
func (t RenderTree) Style() string {
	return strings.Join(t.Styles, "; ")
}

// Attributes converts the tree into the render-array shape: class and style
// lists plus the auxiliary keys.
func (t RenderTree) Attributes() map[string]any {
	out := map[string]any{}
	if len(t.Classes) > 0 {
		out["class"] = append([]string{}, t.Classes...)
	}
	if len(t.Styles) > 0 {
		styles := make([]string, len(t.Styles))
		for i, declaration := range t.Styles {
			styles[i] = declaration + ";"
		}
		out["style"] = styles
	}
	for key, value := range t.Aux {
		out[key] = value
	}
	return out
}

// AuxKeys returns the auxiliary keys sorted.
func (t RenderTree) AuxKeys() []string {
	keys := make([]string, 0, len(t.Aux))
	for key := range t.Aux {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge combines artifacts in registration order. Classes, styles and
// stylesheets are concatenated as-is, libraries are unioned, auxiliary keys are
// merged by key. A repeated auxiliary key keeps the first value and is reported
// as a CollisionError; the rest of the tree is still returned.
func Merge(artifacts ...NamedArtifact) (RenderTree, error) {
	tree := RenderTree{}
	owners := map[string]string{}
	seenLibraries := map[string]struct{}{}
	var err error

	for _, named := range artifacts {
		a := named.Artifact
		tree.Classes = append(tree.Classes, a.Classes...)
		tree.Styles = append(tree.Styles, a.Styles...)
		tree.Stylesheets = append(tree.Stylesheets, a.Stylesheets...)
		for _, library := range a.Libraries {
			if _, ok := seenLibraries[library]; ok {
				continue
			}
			seenLibraries[library] = struct{}{}
			tree.Libraries = append(tree.Libraries, library)
		}
		keys := make([]string, 0, len(a.Aux))
		for key := range a.Aux {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if owner, exists := owners[key]; exists {
				err = multierr.Append(err, &CollisionError{Key: key, First: owner, Second: named.OptionID})
				continue
			}
			if tree.Aux == nil {
				tree.Aux = map[string]any{}
			}
			owners[key] = named.OptionID
			tree.Aux[key] = a.Aux[key]
		}
	}
	return tree, err
}

// Collisions unpacks the individual collision errors from a Merge error.
func Collisions(err error) []*CollisionError {
	var out []*CollisionError
	for _, e := range multierr.Errors(err) {
		if c, ok := e.(*CollisionError); ok {
			out = append(out, c)
		}
	}
	return out
}
