package styleopts

import (
	"fmt"
	"strings"
)

// Direction identifies one side of a box.
type Direction int

const (
	Top Direction = iota
	Right
	Bottom
	Left
)

// directions is the canonical emission order (CSS shorthand order).
var directions = [...]Direction{Top, Right, Bottom, Left}

// Directions returns the four directions in canonical order.
func Directions() []Direction {
	out := make([]Direction, len(directions))
	copy(out, directions[:])
	return out
}

func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Label returns the human label used by configuration forms.
func (d Direction) Label() string {
	name := d.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseDirection converts a field key such as "top" into a Direction.
func ParseDirection(value string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "top":
		return Top, true
	case "right":
		return Right, true
	case "bottom":
		return Bottom, true
	case "left":
		return Left, true
	default:
		return 0, false
	}
}

// Axis identifies a lock axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisAll
)

var axes = [...]Axis{AxisX, AxisY, AxisAll}

// Axes returns the lock axes in form order (x, y, all).
func Axes() []Axis {
	out := make([]Axis, len(axes))
	copy(out, axes[:])
	return out
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisAll:
		return "all"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Label returns the checkbox label for a.
func (a Axis) Label() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisAll:
		return "All"
	default:
		return a.String()
	}
}

// ParseAxis converts a lock key such as "all" into an Axis.
func ParseAxis(value string) (Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	case "all":
		return AxisAll, true
	default:
		return 0, false
	}
}

// DirectionSet is a small bit set of directions.
type DirectionSet uint8

// NewDirectionSet builds a set containing dirs.
func NewDirectionSet(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s = s.With(d)
	}
	return s
}

// With returns s with d added.
func (s DirectionSet) With(d Direction) DirectionSet {
	return s | 1<<uint(d)
}

// Has reports whether d is in s.
func (s DirectionSet) Has(d Direction) bool {
	return s&(1<<uint(d)) != 0
}

// Len returns the number of directions in s.
func (s DirectionSet) Len() int {
	n := 0
	for _, d := range directions {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// List returns the members of s in canonical order.
func (s DirectionSet) List() []Direction {
	out := make([]Direction, 0, 4)
	for _, d := range directions {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s DirectionSet) String() string {
	names := make([]string, 0, 4)
	for _, d := range s.List() {
		names = append(names, d.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
