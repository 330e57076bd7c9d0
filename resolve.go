package styleopts

// DefaultValue is the sentinel meaning "not explicitly set". It is distinct from
// the empty string, which means "no value yet".
const DefaultValue = "default"

// DirectionalValueSet holds one property's value per direction. Empty strings
// are unset.
type DirectionalValueSet struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

// Get returns the value stored for d.
func (v DirectionalValueSet) Get(d Direction) string {
	switch d {
	case Top:
		return v.Top
	case Right:
		return v.Right
	case Bottom:
		return v.Bottom
	case Left:
		return v.Left
	default:
		return ""
	}
}

// With returns a copy of v with d set to value.
func (v DirectionalValueSet) With(d Direction, value string) DirectionalValueSet {
	switch d {
	case Top:
		v.Top = value
	case Right:
		v.Right = value
	case Bottom:
		v.Bottom = value
	case Left:
		v.Left = value
	}
	return v
}

// Resolution is the outcome of applying a LockState to a value set.
type Resolution struct {
	Values  DirectionalValueSet
	Derived DirectionSet
}

// Sources maps every derived direction to the authoritative direction it copies
// under lock. X pairs right with left, Y pairs bottom with top, All ties right,
// bottom and left to top and overrides both.
func Sources(lock LockState) map[Direction]Direction {
	if lock.All {
		return map[Direction]Direction{Right: Top, Bottom: Top, Left: Top}
	}
	sources := map[Direction]Direction{}
	if lock.X {
		sources[Right] = Left
	}
	if lock.Y {
		sources[Bottom] = Top
	}
	return sources
}

// Resolve canonicalizes values under lock. Derived directions take their source
// value; directions still empty afterwards take fallback. Resolve is pure and is
// the only place lock rules are applied.
func Resolve(lock LockState, values DirectionalValueSet, fallback string) Resolution {
	sources := Sources(lock)
	out := values
	var derived DirectionSet
	for _, d := range directions {
		src, ok := sources[d]
		if !ok {
			continue
		}
		out = out.With(d, values.Get(src))
		derived = derived.With(d)
	}
	for _, d := range directions {
		if out.Get(d) == "" {
			out = out.With(d, fallback)
		}
	}
	return Resolution{Values: out, Derived: derived}
}

// RuleTable lists Sources for all eight lock combinations keyed by
// LockState.Key, with direction names as strings. Browser assets consume it so
// the client never carries its own copy of the rules.
func RuleTable() map[string]map[string]string {
	table := make(map[string]map[string]string, 8)
	for _, lock := range AllLockStates() {
		row := map[string]string{}
		for derived, src := range Sources(lock) {
			row[derived.String()] = src.String()
		}
		table[lock.Key()] = row
	}
	return table
}
