package styleopts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LockState records which axes tie directional inputs together. All combinations
// are representable; All dominates X and Y when resolving.
type LockState struct {
	X   bool `json:"x"`
	Y   bool `json:"y"`
	All bool `json:"all"`
}

// Locked reports the stored flag for axis.
func (l LockState) Locked(axis Axis) bool {
	switch axis {
	case AxisX:
		return l.X
	case AxisY:
		return l.Y
	case AxisAll:
		return l.All
	default:
		return false
	}
}

// With returns a copy of l with axis set to locked.
func (l LockState) With(axis Axis, locked bool) LockState {
	switch axis {
	case AxisX:
		l.X = locked
	case AxisY:
		l.Y = locked
	case AxisAll:
		l.All = locked
	}
	return l
}

// Effective returns the lock set actually applied: All implies X and Y.
func (l LockState) Effective() LockState {
	if l.All {
		return LockState{X: true, Y: true, All: true}
	}
	return l
}

// Key encodes l as "x-y-all" digits, e.g. "1-0-0".
func (l LockState) Key() string {
	return fmt.Sprintf("%d-%d-%d", boolDigit(l.X), boolDigit(l.Y), boolDigit(l.All))
}

// ParseLockKey decodes the Key representation.
func ParseLockKey(key string) (LockState, error) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	if len(parts) != 3 {
		return LockState{}, fmt.Errorf("styleopts: invalid lock key %q", key)
	}
	flags := [3]bool{}
	for i, part := range parts {
		switch part {
		case "0":
		case "1":
			flags[i] = true
		default:
			return LockState{}, fmt.Errorf("styleopts: invalid lock key %q", key)
		}
	}
	return LockState{X: flags[0], Y: flags[1], All: flags[2]}, nil
}

// AllLockStates enumerates the eight lock combinations in Key order.
func AllLockStates() []LockState {
	out := make([]LockState, 0, 8)
	for _, x := range []bool{false, true} {
		for _, y := range []bool{false, true} {
			for _, all := range []bool{false, true} {
				out = append(out, LockState{X: x, Y: y, All: all})
			}
		}
	}
	return out
}

// UnmarshalJSON accepts booleans and the checkbox shapes produced by form
// renderers (the option key when checked, 0 when not).
func (l *LockState) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("styleopts: decode lock state: %w", err)
	}
	*l = LockStateFromMap(raw)
	return nil
}

// LockStateFromMap reads lock flags from a loosely typed submission. Absent keys
// are false.
func LockStateFromMap(raw map[string]any) LockState {
	var l LockState
	for _, axis := range axes {
		l = l.With(axis, Truthy(raw[axis.String()]))
	}
	return l
}

// Truthy interprets a submitted checkbox value.
func Truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		trimmed := strings.TrimSpace(typed)
		switch strings.ToLower(trimmed) {
		case "", "0", "false", "off", "no":
			return false
		}
		return true
	case json.Number:
		f, err := typed.Float64()
		return err == nil && f != 0
	case float64:
		return typed != 0
	case float32:
		return typed != 0
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case int32:
		return typed != 0
	default:
		s := fmt.Sprint(typed)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n != 0
		}
		return s != ""
	}
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}
