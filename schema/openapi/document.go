package openapi

import (
	"fmt"
	"sort"
	"strings"
)

// document assembles the OpenAPI document for one option form.
type document struct {
	cfg      generatorConfig
	optionID string
	shapes   *shapes
}

func newDocument(cfg generatorConfig, optionID string) *document {
	return &document{cfg: cfg, optionID: optionID, shapes: newShapes()}
}

func (d *document) render(root *schemaNode) (map[string]any, error) {
	if root == nil {
		return nil, fmt.Errorf("openapi: root schema node cannot be nil")
	}

	var body map[string]any
	if name := d.cfg.rootComponent; name != "" {
		body = map[string]any{"$ref": d.shapes.pin(name, root)}
		// Children still register so repeated fieldsets get their own
		// components inside the published root.
		d.properties(root, name)
	} else {
		body = d.schema(root, componentHint(d.optionID))
	}

	info := map[string]any{"title": d.cfg.title, "version": d.cfg.docVersion}
	if d.cfg.description != "" {
		info["description"] = d.cfg.description
	}
	out := map[string]any{
		"openapi": d.cfg.version,
		"info":    info,
		"paths": map[string]any{
			d.path(): map[string]any{d.method(): d.operation(body)},
		},
	}
	if schemas := d.shapes.schemas(); schemas != nil {
		out["components"] = map[string]any{"schemas": schemas}
	}
	if err := checkDocument(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *document) operation(body map[string]any) map[string]any {
	responses := make(map[string]any, len(d.cfg.responses))
	for status, description := range d.cfg.responses {
		responses[status] = map[string]any{"description": description}
	}
	op := map[string]any{
		"operationId": d.operationID(),
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				d.cfg.contentType: map[string]any{"schema": body},
			},
		},
		"responses": responses,
	}
	if d.cfg.summary != "" {
		op["summary"] = d.cfg.summary
	}
	return op
}

func (d *document) method() string {
	if d.cfg.method == "" {
		return "post"
	}
	return d.cfg.method
}

func (d *document) path() string {
	return strings.ReplaceAll(d.cfg.path, "{option_id}", d.optionID)
}

func (d *document) operationID() string {
	switch {
	case d.cfg.operationID != "":
		return d.cfg.operationID
	case d.optionID != "":
		return "submit:" + d.optionID
	default:
		return d.method() + ":" + d.path()
	}
}

// schema renders node, replacing published object and array shapes with
// references.
func (d *document) schema(node *schemaNode, hint string) map[string]any {
	if !d.cfg.inline && (node.Type == "object" || node.Type == "array") {
		if ref := d.shapes.see(hint, node); ref != "" {
			return map[string]any{"$ref": ref}
		}
	}

	out := node.baseMap()
	if props := d.properties(node, hint); props != nil {
		out["properties"] = props
	}
	if len(node.Required) > 0 {
		required := append([]string(nil), node.Required...)
		sort.Strings(required)
		out["required"] = required
	}
	if node.Items != nil {
		out["items"] = d.schema(node.Items, hint+"_item")
	}
	return out
}

func (d *document) properties(node *schemaNode, hint string) map[string]any {
	if len(node.Properties) == 0 && node.Type != "object" {
		return nil
	}
	props := make(map[string]any, len(node.Properties))
	for _, name := range node.propertyNames() {
		props[name] = d.schema(node.Properties[name], hint+"_"+name)
	}
	return props
}

// componentHint turns an option id such as "hero-spacing" into "HeroSpacing".
func componentHint(optionID string) string {
	var b strings.Builder
	upper := true
	for _, r := range optionID {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			upper = true
		case upper:
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Root"
	}
	return b.String()
}

// checkDocument rejects documents a consumer could not use, which only
// happens when options blanked required values.
func checkDocument(doc map[string]any) error {
	if v, _ := doc["openapi"].(string); v == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := doc["info"].(map[string]any)
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	for path := range doc["paths"].(map[string]any) {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("openapi: path %q must start with /", path)
		}
	}
	return nil
}
