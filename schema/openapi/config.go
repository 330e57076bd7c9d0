package openapi

import "strings"

// generatorConfig holds everything about the document that does not come
// from the form itself.
type generatorConfig struct {
	version     string
	title       string
	docVersion  string
	description string

	path        string
	method      string
	operationID string
	summary     string
	contentType string
	// responses maps status codes to descriptions.
	responses map[string]string

	rootComponent string
	inline        bool
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		version:     "3.0.3",
		title:       "Style Option Form",
		docVersion:  "1.0.0",
		path:        "/style-options/{option_id}",
		method:      "post",
		contentType: "application/json",
		responses: map[string]string{
			"200": "Resolved value",
			"422": "Invalid value",
		},
	}
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides the OpenAPI version string (default 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.version = version
		}
	}
}

// WithInfo sets the info title and version. Empty strings keep the defaults.
func WithInfo(title, version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.title = title
		}
		if version != "" {
			cfg.docVersion = version
		}
	}
}

// WithDescription sets info.description.
func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.description = strings.TrimSpace(description)
	}
}

// WithOperation configures the submit operation. A "{option_id}" segment in
// path is replaced with the form's option id; an empty operationID derives
// "submit:<option id>". Empty inputs keep the defaults.
func WithOperation(path, method, operationID string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.path = path
		}
		if method != "" {
			cfg.method = strings.ToLower(method)
		}
		if operationID != "" {
			cfg.operationID = operationID
		}
	}
}

// WithSummary attaches a summary to the submit operation.
func WithSummary(summary string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.summary = strings.TrimSpace(summary)
	}
}

// WithContentType sets the request body media type.
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if contentType != "" {
			cfg.contentType = contentType
		}
	}
}

// WithResponse adds or replaces the response documented for status.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if status == "" {
			return
		}
		if cfg.responses == nil {
			cfg.responses = map[string]string{}
		}
		cfg.responses[status] = description
	}
}

// WithRootComponent publishes the whole form schema as components.schemas.name
// and references it from the request body.
func WithRootComponent(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.rootComponent = name
	}
}

// WithoutComponents inlines every schema instead of publishing repeated
// shapes, such as identical property fieldsets, under components.
func WithoutComponents() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.inline = true
	}
}
