package styleopts

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeValue converts a typed value into the generic Value shape through its
// JSON form.
func EncodeValue(typed any) (Value, error) {
	buffer, err := json.Marshal(typed)
	if err != nil {
		return nil, fmt.Errorf("styleopts: encode value: %w", err)
	}
	var out Value
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	decoder.UseNumber()
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("styleopts: encode value: %w", err)
	}
	return out, nil
}

// DecodeValue converts a generic Value into T.
func DecodeValue[T any](value Value) (T, error) {
	var out T
	buffer, err := json.Marshal(value)
	if err != nil {
		return out, fmt.Errorf("styleopts: decode value: %w", err)
	}
	if err := json.Unmarshal(buffer, &out); err != nil {
		return out, fmt.Errorf("styleopts: decode value: %w", err)
	}
	return out, nil
}

// BoxSize returns the per-property box size state held in value. Malformed
// entries are skipped.
func (v Value) BoxSize() BoxSizeValue {
	out := BoxSizeValue{}
	for key, raw := range v {
		entry := AsMap(raw)
		if entry == nil {
			continue
		}
		pv := PropertyValue{Lock: LockStateFromMap(AsMap(entry["lock"]))}
		for _, d := range directions {
			pv.DirectionalValueSet = pv.DirectionalValueSet.With(d, AsString(entry[d.String()]))
		}
		out[key] = pv
	}
	return out
}

// Value converts the box size state into the generic stored shape.
func (b BoxSizeValue) Value() Value {
	out := make(Value, len(b))
	for key, pv := range b {
		entry := map[string]any{
			"lock": map[string]any{"x": pv.Lock.X, "y": pv.Lock.Y, "all": pv.Lock.All},
		}
		for _, d := range directions {
			entry[d.String()] = pv.Get(d)
		}
		out[key] = entry
	}
	return out
}
