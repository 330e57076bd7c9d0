package layering

import (
	"fmt"
	"slices"
	"strings"
)

// Level identifies the precedence of a layer. Higher levels override lower
// levels when merging.
type Level int

const (
	// LevelUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	LevelUnknown Level = iota
	// LevelPlugin holds the defaults a plugin ships with.
	LevelPlugin
	// LevelCatalog holds catalog wide defaults for a plugin kind.
	LevelCatalog
	// LevelContext holds overrides for one render context and bundle.
	LevelContext
	// LevelDefinition is the definition's own config and always wins.
	LevelDefinition
)

func (l Level) String() string {
	switch l {
	case LevelPlugin:
		return "plugin"
	case LevelCatalog:
		return "catalog"
	case LevelContext:
		return "context"
	case LevelDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string into the corresponding Level. Unrecognised
// values yield LevelUnknown.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "plugin":
		return LevelPlugin
	case "catalog":
		return LevelCatalog
	case "context":
		return LevelContext
	case "definition":
		return LevelDefinition
	default:
		return LevelUnknown
	}
}

// Layer is one named config map at a precedence level.
type Layer struct {
	Level  Level
	Name   string
	Config map[string]any
}

// Identifier returns a stable slug such as "catalog/boxsize".
func (l Layer) Identifier() string {
	return fmt.Sprintf("%s/%s", l.Level, l.Name)
}

// Stack is an ordered layering sequence from strongest to weakest.
type Stack struct {
	ordered []Layer
}

// NewStack builds a stack. Layers with an unknown level are dropped, duplicate
// identifiers keep their first occurrence, and the result is ordered from the
// strongest level to the weakest while keeping the relative order of peers.
func NewStack(layers ...Layer) Stack {
	filtered := make([]Layer, 0, len(layers))
	seen := map[string]struct{}{}
	for _, layer := range layers {
		if layer.Level == LevelUnknown {
			continue
		}
		id := layer.Identifier()
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, layer)
	}
	slices.SortStableFunc(filtered, func(a, b Layer) int {
		switch {
		case a.Level == b.Level:
			return 0
		case a.Level > b.Level:
			return -1
		default:
			return 1
		}
	})
	return Stack{ordered: filtered}
}

// Ordered returns the layers from strongest (index 0) to weakest.
func (s Stack) Ordered() []Layer {
	out := make([]Layer, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Len returns the number of layers.
func (s Stack) Len() int {
	return len(s.ordered)
}

// Merge composes the stack into a single config map.
func (s Stack) Merge() map[string]any {
	configs := make([]map[string]any, len(s.ordered))
	for i, layer := range s.ordered {
		configs[i] = layer.Config
	}
	return Merge(configs...)
}

// Trace reports how every layer contributed to path. The effective value is
// the first found entry, unless it is a map, which merges with weaker ones.
func (s Stack) Trace(path string) Trace {
	trace := Trace{Path: path, Layers: make([]Provenance, 0, len(s.ordered))}
	for _, layer := range s.ordered {
		value, found := Lookup(layer.Config, path)
		trace.Layers = append(trace.Layers, Provenance{
			Layer: layer.Identifier(),
			Level: layer.Level.String(),
			Path:  path,
			Value: value,
			Found: found,
		})
	}
	return trace
}
