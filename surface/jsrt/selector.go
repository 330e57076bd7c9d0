package jsrt

import (
	"fmt"
	"strings"
)

// selector is the subset of CSS selectors the asset uses: an optional tag,
// classes, [name*="..."] attribute matches and :checked.
type selector struct {
	tag      string
	classes  []string
	contains []string
	checked  bool
}

func parseSelectorList(input string) ([]selector, error) {
	var out []selector
	for _, part := range strings.Split(input, ",") {
		sel, err := parseSelector(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func parseSelector(input string) (selector, error) {
	var sel selector
	if input == "" {
		return sel, fmt.Errorf("jsrt: empty selector")
	}
	rest := input
	if end := strings.IndexAny(rest, ".[:"); end != 0 {
		if end < 0 {
			end = len(rest)
		}
		sel.tag = rest[:end]
		rest = rest[end:]
		for _, r := range sel.tag {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return sel, fmt.Errorf("jsrt: unsupported selector %q", input)
			}
		}
	}
	for rest != "" {
		switch rest[0] {
		case '.':
			end := strings.IndexAny(rest[1:], ".[:")
			if end < 0 {
				end = len(rest) - 1
			}
			sel.classes = append(sel.classes, rest[1:end+1])
			rest = rest[end+1:]
		case '[':
			end := strings.Index(rest, "]")
			if end < 0 {
				return sel, fmt.Errorf("jsrt: unterminated attribute in %q", input)
			}
			// Attribute values may themselves contain brackets, e.g.
			// [name*="[lock][x]"], so the closing bracket follows the quote.
			if quote := strings.Index(rest, `"`); quote >= 0 && quote < end {
				closing := strings.Index(rest[quote+1:], `"`)
				if closing < 0 {
					return sel, fmt.Errorf("jsrt: unterminated attribute value in %q", input)
				}
				end = quote + 1 + closing + 1
				if end >= len(rest) || rest[end] != ']' {
					return sel, fmt.Errorf("jsrt: malformed attribute in %q", input)
				}
			}
			attr := rest[1:end]
			value, err := containsValue(attr)
			if err != nil {
				return sel, fmt.Errorf("%w in %q", err, input)
			}
			sel.contains = append(sel.contains, value)
			rest = rest[end+1:]
		case ':':
			if !strings.HasPrefix(rest, ":checked") {
				return sel, fmt.Errorf("jsrt: unsupported pseudo class in %q", input)
			}
			sel.checked = true
			rest = rest[len(":checked"):]
		default:
			return sel, fmt.Errorf("jsrt: unexpected %q in %q", rest[0], input)
		}
	}
	return sel, nil
}

func containsValue(attr string) (string, error) {
	name, value, ok := strings.Cut(attr, "*=")
	if !ok || strings.TrimSpace(name) != "name" {
		return "", fmt.Errorf("jsrt: only [name*=...] attributes are supported")
	}
	return strings.Trim(strings.TrimSpace(value), `"'`), nil
}

func (s selector) matchesInput(name string, checkbox, checked bool) bool {
	if len(s.classes) > 0 {
		return false
	}
	if s.tag != "" && s.tag != "input" {
		return false
	}
	for _, fragment := range s.contains {
		if !strings.Contains(name, fragment) {
			return false
		}
	}
	if s.checked && !(checkbox && checked) {
		return false
	}
	return true
}

func (s selector) matchesGroup(hasClass func(string) bool) bool {
	if len(s.contains) > 0 || s.checked || len(s.classes) == 0 {
		return false
	}
	for _, class := range s.classes {
		if !hasClass(class) {
			return false
		}
	}
	return true
}
