package styleopts

import "strings"

// FieldType names the widget the form-rendering collaborator should use.
type FieldType string

const (
	FieldFieldset     FieldType = "fieldset"
	FieldCheckboxes   FieldType = "checkboxes"
	FieldCheckbox     FieldType = "checkbox"
	FieldTextfield    FieldType = "textfield"
	FieldSelect       FieldType = "select"
	FieldRadios       FieldType = "radios"
	FieldImageRadios  FieldType = "image_radios"
	FieldColor        FieldType = "color"
	FieldMediaLibrary FieldType = "media_library"
	FieldManagedFile  FieldType = "managed_file"
	FieldSubmit       FieldType = "submit"
)

// Choice is one selectable option of a select, radios or checkboxes field.
type Choice struct {
	Key            string            `json:"key" yaml:"key" toml:"key"`
	Label          string            `json:"label" yaml:"label" toml:"label"`
	Image          string            `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
	Classes        []string          `json:"classes,omitempty" yaml:"-" toml:"-"`
	WrapperClasses []string          `json:"wrapper_classes,omitempty" yaml:"-" toml:"-"`
	Attributes     map[string]string `json:"attributes,omitempty" yaml:"-" toml:"-"`
}

// UploadValidators constrains managed file uploads.
type UploadValidators struct {
	Extensions []string `json:"extensions,omitempty"`
	MIMETypes  []string `json:"mime_types,omitempty"`
	Location   string   `json:"location,omitempty"`
}

// Ajax describes a rebuild trigger wired to a named submit button.
type Ajax struct {
	Wrapper   string `json:"wrapper,omitempty"`
	TriggerAs string `json:"trigger_as,omitempty"`
	Callback  string `json:"callback,omitempty"`
}

// Field is one node of a declarative configuration form.
type Field struct {
	Key            string            `json:"key"`
	Type           FieldType         `json:"type"`
	Title          string            `json:"title,omitempty"`
	Description    string            `json:"description,omitempty"`
	Default        any               `json:"default,omitempty"`
	Choices        []Choice          `json:"choices,omitempty"`
	Multiple       bool              `json:"multiple,omitempty"`
	Disabled       bool              `json:"disabled,omitempty"`
	TitleInvisible bool              `json:"title_invisible,omitempty"`
	Classes        []string          `json:"classes,omitempty"`
	WrapperClasses []string          `json:"wrapper_classes,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	Data           map[string]string `json:"data,omitempty"`
	Settings       map[string]any    `json:"settings,omitempty"`
	AllowedBundles []string          `json:"allowed_bundles,omitempty"`
	Upload         *UploadValidators `json:"upload,omitempty"`
	Ajax           *Ajax             `json:"ajax,omitempty"`
	Prefix         string            `json:"prefix,omitempty"`
	Suffix         string            `json:"suffix,omitempty"`
	Libraries      []string          `json:"libraries,omitempty"`
	Children       []Field           `json:"children,omitempty"`
}

// FormSpec is the declarative description of editable fields for one option.
type FormSpec struct {
	OptionID  string   `json:"option_id"`
	Fields    []Field  `json:"fields"`
	Libraries []string `json:"libraries,omitempty"`
}

// FieldName renders a path as a bracketed form name, e.g. boxsize[margin][top].
func FieldName(path ...string) string {
	if len(path) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(path[0])
	for _, segment := range path[1:] {
		b.WriteString("[")
		b.WriteString(segment)
		b.WriteString("]")
	}
	return b.String()
}

// Walk visits every field depth-first with its key path. Returning false from
// fn stops descending into that field's children.
func (f *FormSpec) Walk(fn func(path []string, field *Field) bool) {
	if f == nil || fn == nil {
		return
	}
	for i := range f.Fields {
		walkField(nil, &f.Fields[i], fn)
	}
}

func walkField(parent []string, field *Field, fn func([]string, *Field) bool) {
	path := append(append([]string{}, parent...), field.Key)
	if !fn(path, field) {
		return
	}
	for i := range field.Children {
		walkField(path, &field.Children[i], fn)
	}
}

// Find returns the field at path.
func (f *FormSpec) Find(path ...string) (*Field, bool) {
	if f == nil || len(path) == 0 {
		return nil, false
	}
	fields := f.Fields
	var current *Field
	for _, segment := range path {
		current = nil
		for i := range fields {
			if fields[i].Key == segment {
				current = &fields[i]
				break
			}
		}
		if current == nil {
			return nil, false
		}
		fields = current.Children
	}
	return current, true
}

// Attach records a library on the form once.
func (f *FormSpec) Attach(library string) {
	if f == nil || library == "" {
		return
	}
	for _, existing := range f.Libraries {
		if existing == library {
			return
		}
	}
	f.Libraries = append(f.Libraries, library)
}

// AllLibraries returns the form-level libraries followed by field-level ones,
// deduplicated in first-seen order.
func (f *FormSpec) AllLibraries() []string {
	if f == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	add := func(items []string) {
		for _, item := range items {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	add(f.Libraries)
	f.Walk(func(_ []string, field *Field) bool {
		add(field.Libraries)
		return true
	})
	return out
}

// HasClass reports whether the field carries class.
func (f Field) HasClass(class string) bool {
	for _, existing := range f.Classes {
		if existing == class {
			return true
		}
	}
	return false
}
