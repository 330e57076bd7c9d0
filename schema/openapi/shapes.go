package openapi

import (
	"fmt"
	"regexp"
	"strings"
)

// shapes tracks object and array schemas by digest. A shape seen twice, or
// pinned by name, is published under components.schemas and referenced.
type shapes struct {
	byDigest map[string]*shape
	taken    map[string]bool
}

type shape struct {
	name   string
	schema map[string]any
	uses   int
	pinned bool
}

func newShapes() *shapes {
	return &shapes{byDigest: map[string]*shape{}, taken: map[string]bool{}}
}

func (sh *shape) published() bool {
	return sh.pinned || sh.uses > 1
}

func schemaRef(name string) string {
	return "#/components/schemas/" + name
}

// see records one use of node named after hint and returns its reference
// once the shape is published. The first use of a repeated shape stays
// inline.
func (s *shapes) see(hint string, node *schemaNode) string {
	return s.track(hint, node, false)
}

// pin publishes node under name regardless of how often it appears.
func (s *shapes) pin(name string, node *schemaNode) string {
	return s.track(name, node, true)
}

func (s *shapes) track(hint string, node *schemaNode, pin bool) string {
	if node == nil {
		return ""
	}
	digest := node.Digest()
	if digest == "" {
		return ""
	}
	sh, ok := s.byDigest[digest]
	if !ok {
		sh = &shape{name: s.claim(hint)}
		s.byDigest[digest] = sh
	}
	sh.uses++
	sh.pinned = sh.pinned || pin
	if !sh.published() {
		return ""
	}
	if sh.schema == nil {
		sh.schema = node.inlineOpenAPI()
	}
	return schemaRef(sh.name)
}

// claim reserves a component name derived from hint, adding a numeric
// suffix when it is already used.
func (s *shapes) claim(hint string) string {
	base := componentName(hint)
	name := base
	for i := 1; s.taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	s.taken[name] = true
	return name
}

// schemas returns the published components, or nil when there are none.
func (s *shapes) schemas() map[string]any {
	out := map[string]any{}
	for _, sh := range s.byDigest {
		if sh.published() {
			out[sh.name] = sh.schema
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var unsafeComponentChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// componentName maps a hint onto the characters OpenAPI component keys allow.
func componentName(hint string) string {
	name := strings.Trim(unsafeComponentChars.ReplaceAllString(hint, "_"), "_")
	switch {
	case name == "":
		return "Schema"
	case name[0] >= '0' && name[0] <= '9':
		return "_" + name
	default:
		return name
	}
}
