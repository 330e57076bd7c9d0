package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	styleopts "github.com/goliatone/go-style-options"
)

type schemaNode struct {
	Type        string
	Format      string
	Title       string
	Description string
	Properties  map[string]*schemaNode
	Required    []string
	Items       *schemaNode
	Enum        []any
	Default     any
	ReadOnly    bool
	formgen     map[string]string
	choices     []map[string]any
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) baseMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Format != "" {
		result["format"] = n.Format
	}
	if n.Title != "" {
		result["title"] = n.Title
	}
	if n.Description != "" {
		result["description"] = n.Description
	}
	if n.Default != nil {
		result["default"] = n.Default
	}
	if len(n.Enum) > 0 {
		result["enum"] = n.Enum
	}
	if n.ReadOnly {
		result["readOnly"] = true
	}
	if len(n.formgen) > 0 {
		result["x-formgen"] = orderedStringMap(n.formgen)
	}
	if len(n.choices) > 0 {
		result["x-formgen-choices"] = n.choices
	}
	return result
}

func (n *schemaNode) inlineOpenAPI() map[string]any {
	result := n.baseMap()
	if len(n.Properties) > 0 || n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		for _, name := range n.propertyNames() {
			props[name] = n.Properties[name].inlineOpenAPI()
		}
		result["properties"] = props
	}
	if len(n.Required) > 0 {
		names := append([]string{}, n.Required...)
		sort.Strings(names)
		result["required"] = names
	}
	if n.Items != nil {
		result["items"] = n.Items.inlineOpenAPI()
	}
	return result
}

func (n *schemaNode) propertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *schemaNode) ensureFormgen() map[string]string {
	if n.formgen == nil {
		n.formgen = map[string]string{}
	}
	return n.formgen
}

// Digest identifies structurally identical schemas for component reuse.
func (n *schemaNode) Digest() string {
	data, err := json.Marshal(n.inlineOpenAPI())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// buildFormGraph converts a form into the schema of the value it submits.
// Submit buttons carry no data and are left out.
func buildFormGraph(form styleopts.FormSpec) *schemaNode {
	root := newObjectNode()
	root.Title = form.OptionID
	addChildren(root, form.Fields)
	if libraries := form.AllLibraries(); len(libraries) > 0 {
		root.ensureFormgen()["libraries"] = strings.Join(libraries, ",")
	}
	return root
}

// addChildren records field order on the parent so children stay free of
// positional hints and identical shapes share a digest.
func addChildren(parent *schemaNode, fields []styleopts.Field) {
	var order []string
	for _, field := range fields {
		child := fieldNode(field)
		if child == nil {
			continue
		}
		order = append(order, field.Key)
		parent.Properties[field.Key] = child
	}
	if len(order) > 0 {
		parent.ensureFormgen()["order"] = strings.Join(order, ",")
	}
}

func fieldNode(field styleopts.Field) *schemaNode {
	var node *schemaNode
	widget := string(field.Type)
	switch field.Type {
	case styleopts.FieldSubmit:
		return nil
	case styleopts.FieldFieldset:
		node = newObjectNode()
		addChildren(node, field.Children)
	case styleopts.FieldCheckboxes:
		node = checkboxesNode(field)
	case styleopts.FieldCheckbox:
		node = &schemaNode{Type: "boolean", Default: defaultValue(field.Default)}
	case styleopts.FieldSelect, styleopts.FieldRadios, styleopts.FieldImageRadios:
		node = choiceNode(field)
		if field.Type == styleopts.FieldImageRadios {
			widget = "image-radios"
		}
	case styleopts.FieldColor:
		node = &schemaNode{Type: "string", Format: "color", Default: defaultValue(field.Default)}
	case styleopts.FieldMediaLibrary:
		node = &schemaNode{Type: "string", Default: defaultValue(field.Default)}
		widget = "media-library"
		if len(field.AllowedBundles) > 0 {
			node.ensureFormgen()["bundles"] = strings.Join(field.AllowedBundles, ",")
		}
	case styleopts.FieldManagedFile:
		node = &schemaNode{Type: "array", Items: &schemaNode{Type: "string"}}
		widget = "file"
		if field.Upload != nil {
			if len(field.Upload.MIMETypes) > 0 {
				node.ensureFormgen()["accept"] = strings.Join(field.Upload.MIMETypes, ",")
			}
			if len(field.Upload.Extensions) > 0 {
				node.ensureFormgen()["extensions"] = strings.Join(field.Upload.Extensions, " ")
			}
		}
	default:
		node = &schemaNode{Type: "string", Default: defaultValue(field.Default)}
	}

	node.Title = field.Title
	node.Description = field.Description
	node.ReadOnly = field.Disabled
	formgen := node.ensureFormgen()
	formgen["widget"] = widget
	if len(field.Classes) > 0 {
		formgen["class"] = strings.Join(field.Classes, " ")
	}
	if len(field.WrapperClasses) > 0 {
		formgen["wrapperClass"] = strings.Join(field.WrapperClasses, " ")
	}
	if field.TitleInvisible {
		formgen["labelHidden"] = "true"
	}
	for key, value := range field.Data {
		formgen[dataAttribute(key)] = value
	}
	if field.Ajax != nil && field.Ajax.TriggerAs != "" {
		formgen["ajaxTrigger"] = field.Ajax.TriggerAs
	}
	return node
}

// dataAttribute turns a dataset key such as soBoxsizeDefault into its HTML
// attribute name, data-so-boxsize-default.
func dataAttribute(key string) string {
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// checkboxesNode models a checkboxes group as an object of booleans, which is
// how lock flags are stored.
func checkboxesNode(field styleopts.Field) *schemaNode {
	node := newObjectNode()
	defaults, _ := field.Default.(map[string]bool)
	for _, choice := range field.Choices {
		child := &schemaNode{Type: "boolean", Title: choice.Label, Default: defaults[choice.Key]}
		if title := choice.Attributes["title"]; title != "" {
			child.Description = title
		}
		node.Properties[choice.Key] = child
	}
	return node
}

func choiceNode(field styleopts.Field) *schemaNode {
	enum := make([]any, 0, len(field.Choices))
	choices := make([]map[string]any, 0, len(field.Choices))
	for _, choice := range field.Choices {
		enum = append(enum, choice.Key)
		entry := map[string]any{"value": choice.Key, "label": choice.Label}
		if choice.Image != "" {
			entry["image"] = choice.Image
		}
		choices = append(choices, entry)
	}
	item := &schemaNode{Type: "string"}
	if len(enum) > 0 {
		item.Enum = enum
	}
	if field.Multiple {
		node := &schemaNode{Type: "array", Items: item, Default: defaultValue(field.Default), choices: choices}
		node.ensureFormgen()["multiple"] = "true"
		return node
	}
	item.Default = defaultValue(field.Default)
	item.choices = choices
	return item
}

// defaultValue drops empty defaults so documents only carry meaningful ones.
func defaultValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return v
	default:
		return v
	}
}

func orderedStringMap(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out[key] = values[key]
	}
	return out
}
