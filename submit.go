package styleopts

// PropertyValue is the persisted state of one property: the lock flags and the
// four directional values.
type PropertyValue struct {
	Lock LockState `json:"lock"`
	DirectionalValueSet
}

// BoxSizeValue maps property ids to their persisted state.
type BoxSizeValue map[string]PropertyValue

// ResolveSubmission applies Resolve to every configured property of a submitted
// value so that stored directions are canonical regardless of what the
// interactive surface did. Missing properties resolve to their fallback and
// properties not in the configuration are dropped.
func ResolveSubmission(properties []PropertyConfig, submitted BoxSizeValue) BoxSizeValue {
	out := make(BoxSizeValue, len(properties))
	for _, property := range properties {
		current := submitted[property.ID]
		resolution := Resolve(current.Lock, current.DirectionalValueSet, property.Fallback())
		out[property.ID] = PropertyValue{
			Lock:                current.Lock,
			DirectionalValueSet: resolution.Values,
		}
	}
	return out
}
