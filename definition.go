package styleopts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Definition is one configured style option. It is owned by the surrounding
// configuration system and treated as read-only.
type Definition struct {
	OptionID    string         `json:"option_id" yaml:"option_id" toml:"option_id"`
	Plugin      Kind           `json:"plugin" yaml:"plugin" toml:"plugin"`
	Label       string         `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Config      map[string]any `json:"config,omitempty" yaml:"config,omitempty" toml:"config,omitempty"`
	Default     any            `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	When        string         `json:"when,omitempty" yaml:"when,omitempty" toml:"when,omitempty"`
}

// Value is a submitted option value keyed by the plugin's value keys.
type Value map[string]any

// String returns the value at key rendered as a trimmed string.
func (v Value) String(key string) string {
	if v == nil {
		return ""
	}
	return AsString(v[key])
}

// Map returns the nested map at key.
func (v Value) Map(key string) map[string]any {
	if v == nil {
		return nil
	}
	return AsMap(v[key])
}

// Empty reports whether the value holds nothing worth rendering.
func (v Value) Empty() bool {
	for _, item := range v {
		if !isEmpty(item) {
			return false
		}
	}
	return true
}

// HasConfig reports whether key is present in the definition config.
func (d Definition) HasConfig(key string) bool {
	if d.Config == nil {
		return false
	}
	value, ok := d.Config[key]
	return ok && value != nil
}

// ConfigString returns a string config entry.
func (d Definition) ConfigString(key string) string {
	if d.Config == nil {
		return ""
	}
	return AsString(d.Config[key])
}

// ConfigBool returns a boolean config entry using checkbox truthiness.
func (d Definition) ConfigBool(key string) bool {
	if d.Config == nil {
		return false
	}
	return Truthy(d.Config[key])
}

// ConfigMap returns a nested config map.
func (d Definition) ConfigMap(key string) map[string]any {
	if d.Config == nil {
		return nil
	}
	return AsMap(d.Config[key])
}

// OptionEntry is one entry of an `options` config map.
type OptionEntry struct {
	Key    string
	Fields map[string]any
}

// String returns a field of the entry as a string.
func (o OptionEntry) String(field string) string {
	return AsString(o.Fields[field])
}

// Options returns the `options` config map as ordered entries. Entries that are
// not maps are skipped; ordering follows an explicit `weight` and then keys.
func (d Definition) Options() []OptionEntry {
	return OptionEntries(d.ConfigMap("options"))
}

// OptionEntries converts an options map into ordered entries.
func OptionEntries(raw map[string]any) []OptionEntry {
	if len(raw) == 0 {
		return nil
	}
	out := make([]OptionEntry, 0, len(raw))
	for key, value := range raw {
		fields := AsMap(value)
		if fields == nil {
			continue
		}
		out = append(out, OptionEntry{Key: key, Fields: fields})
	}
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := weight(out[i].Fields), weight(out[j].Fields)
		if wi != wj {
			return wi < wj
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Option returns a single entry from the `options` config map.
func (d Definition) Option(key string) (OptionEntry, bool) {
	fields := AsMap(d.ConfigMap("options")[key])
	if fields == nil {
		return OptionEntry{}, false
	}
	return OptionEntry{Key: key, Fields: fields}, true
}

// DisplayLabel returns Label, a config label, or the option id.
func (d Definition) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	if label := d.ConfigString("label"); label != "" {
		return label
	}
	return d.OptionID
}

// DisplayDescription returns Description or the config description.
func (d Definition) DisplayDescription() string {
	if d.Description != "" {
		return d.Description
	}
	return d.ConfigString("description")
}

func weight(fields map[string]any) float64 {
	raw, ok := fields["weight"]
	if !ok {
		return 0
	}
	value, err := strconv.ParseFloat(AsString(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// AsString renders scalars as trimmed strings; other shapes yield "".
func AsString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case bool:
		if v {
			return "1"
		}
		return ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// AsMap normalizes map shapes produced by JSON, YAML and TOML decoders.
func AsMap(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case Value:
		return map[string]any(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = item
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	default:
		return nil
	}
}

// AsStrings normalizes a list or a space separated string into tokens.
func AsStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(v)
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := AsString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := AsString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		for _, item := range v {
			if !isEmpty(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
