// Package surface keeps a live box size form group consistent with its lock
// checkboxes while an editor types. It drives the same Resolve rules the
// submit path applies, so a group always shows what will be stored.
package surface

const (
	// MarkerClass marks a group of inputs for one boxed property.
	MarkerClass = "js-so-boxsize"

	// DataFallback is the group data key holding the value empty directions
	// of that group take. It overrides the adapter fallback.
	DataFallback = "soBoxsizeDefault"
)

// Surface exposes the groups of an editable form.
type Surface interface {
	Groups() []Group
}

// Group is one property fieldset: its classes, a small data store used for
// bookkeeping and the inputs it contains.
type Group interface {
	HasClass(class string) bool
	Data(key string) (string, bool)
	SetData(key, value string)
	Inputs() []Input
}

// Input is a text, select or checkbox input. OnChange registers a listener for
// value and checked changes.
type Input interface {
	Name() string
	Value() string
	SetValue(value string)
	Checked() bool
	Disabled() bool
	SetDisabled(disabled bool)
	OnChange(fn func())
}
