package openapi

import (
	"encoding/json"
	"fmt"

	styleopts "github.com/goliatone/go-style-options"
)

// Generator turns configuration forms into OpenAPI documents describing the
// submit operation of each option.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator. Without options it emits OpenAPI 3.0.3
// documents that post JSON to /style-options/{option_id}.
func NewGenerator(opts ...GeneratorOption) Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Generator{config: cfg}
}

// Generate builds the document for form.
func (g Generator) Generate(form styleopts.FormSpec) (map[string]any, error) {
	if form.OptionID == "" {
		return nil, fmt.Errorf("openapi: form option id is required")
	}
	root := buildFormGraph(form)
	return newDocument(g.config, form.OptionID).render(root)
}

// GenerateJSON is Generate followed by indented JSON encoding.
func (g Generator) GenerateJSON(form styleopts.FormSpec) ([]byte, error) {
	document, err := g.Generate(form)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	return data, nil
}
