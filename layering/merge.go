package layering

import "strings"

// Merge composes configs ordered from strongest to weakest into a new map.
// Nil values in a stronger layer do not mask weaker ones. Inputs are never
// modified.
func Merge(configs ...map[string]any) map[string]any {
	merged := map[string]any{}
	for i := len(configs) - 1; i >= 0; i-- {
		merged = mergeInto(merged, configs[i])
	}
	return merged
}

func mergeInto(weak, strong map[string]any) map[string]any {
	for key, value := range strong {
		if value == nil {
			continue
		}
		strongMap, strongIsMap := asMap(value)
		weakMap, weakIsMap := asMap(weak[key])
		if strongIsMap && weakIsMap {
			weak[key] = mergeInto(cloneMap(weakMap), strongMap)
			continue
		}
		weak[key] = clone(value)
	}
	return weak
}

// Lookup walks a dotted path such as "background_image.field".
func Lookup(config map[string]any, path string) (any, bool) {
	if config == nil {
		return nil, false
	}
	if path == "" {
		return config, true
	}
	var current any = config
	for _, segment := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		next, exists := m[segment]
		if !exists {
			return nil, false
		}
		current = next
	}
	return current, true
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			if s, ok := key.(string); ok {
				out[s] = item
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = clone(value)
	}
	return out
}

func clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case map[any]any:
		m, _ := asMap(v)
		return cloneMap(m)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = clone(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
