package hydrate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Unwrap replaces the payload with the map stored under key when present.
// Form state often nests an option's values under its element name.
func Unwrap(key string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		inner, ok := payload[key]
		if !ok {
			return payload, nil
		}
		nested, ok := inner.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s must be an object, got %T", key, inner)
		}
		return nested, nil
	}
}

// Drop removes transient keys such as form buttons and tokens.
func Drop(keys ...string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		for _, key := range keys {
			delete(payload, key)
		}
		return payload, nil
	}
}

// Checkboxes rewrites the checkboxes group found at path into booleans. A
// "*" segment matches every map-valued child. Checked boxes submit their own
// key as value while unchecked ones submit 0; lists of checked keys are also
// accepted.
func Checkboxes(path ...string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		if len(path) > 0 {
			rewriteCheckboxes(payload, path)
		}
		return payload, nil
	}
}

func rewriteCheckboxes(parent map[string]any, path []string) {
	segment := path[0]
	if len(path) == 1 {
		switch group := parent[segment].(type) {
		case map[string]any:
			for key, value := range group {
				group[key] = checked(key, value)
			}
		case []any:
			out := map[string]any{}
			for _, item := range group {
				if key, ok := item.(string); ok && key != "" {
					out[key] = true
				}
			}
			parent[segment] = out
		}
		return
	}
	if segment == "*" {
		for _, value := range parent {
			if child, ok := value.(map[string]any); ok {
				rewriteCheckboxes(child, path[1:])
			}
		}
		return
	}
	if child, ok := parent[segment].(map[string]any); ok {
		rewriteCheckboxes(child, path[1:])
	}
}

func checked(key string, value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		v = strings.TrimSpace(v)
		return v == key || (v != "" && v != "0" && !strings.EqualFold(v, "false"))
	case json.Number:
		return v.String() != "0"
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
