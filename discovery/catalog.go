// Package discovery loads style option catalogs: the definitions a site ships
// and which of them apply to each render context and bundle.
//
// A catalog is YAML, TOML or JSON:
//
//	defaults:
//	  background:
//	    method: css
//	options:
//	  - option_id: spacing
//	    plugin: boxsize
//	contexts:
//	  paragraphs:
//	    hero: [spacing]
//	overrides:
//	  paragraphs:
//	    hero:
//	      spacing: {properties: {...}}
//
// Definition config is layered over catalog defaults, which are layered over
// the plugin's own defaults.
package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/layering"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Format names a catalog encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFor guesses the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("discovery: unknown catalog format for %q", path)
	}
}

// Catalog is a parsed set of option definitions.
type Catalog struct {
	Defaults  map[string]map[string]any                       `json:"defaults,omitempty" yaml:"defaults,omitempty" toml:"defaults,omitempty"`
	Options   []styleopts.Definition                          `json:"options" yaml:"options" toml:"options"`
	Contexts  map[string]map[string][]string                  `json:"contexts,omitempty" yaml:"contexts,omitempty" toml:"contexts,omitempty"`
	Overrides map[string]map[string]map[string]map[string]any `json:"overrides,omitempty" yaml:"overrides,omitempty" toml:"overrides,omitempty"`

	registry *styleopts.Registry
	index    map[string]int
}

// Option configures a loaded catalog.
type Option func(*Catalog)

// WithRegistry layers each plugin's DefaultConfig beneath catalog defaults.
func WithRegistry(registry *styleopts.Registry) Option {
	return func(c *Catalog) {
		c.registry = registry
	}
}

// Load reads and parses the catalog at path.
func Load(path string, opts ...Option) (*Catalog, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("discovery: read %s: %w", path, err)
	}
	catalog, err := Parse(data, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("discovery: %s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes data in format and validates references.
func Parse(data []byte, format Format, opts ...Option) (*Catalog, error) {
	catalog := &Catalog{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, catalog); err != nil {
			return nil, fmt.Errorf("discovery: yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), catalog); err != nil {
			return nil, fmt.Errorf("discovery: toml: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(catalog); err != nil {
			return nil, fmt.Errorf("discovery: json: %w", err)
		}
	default:
		return nil, fmt.Errorf("discovery: unknown format %q", format)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(catalog)
		}
	}
	if err := catalog.reindex(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (c *Catalog) reindex() error {
	var errs error
	c.index = make(map[string]int, len(c.Options))
	for i, def := range c.Options {
		id := strings.TrimSpace(def.OptionID)
		if id == "" {
			errs = multierr.Append(errs, fmt.Errorf("discovery: option %d has no option_id", i))
			continue
		}
		if _, dup := c.index[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("discovery: duplicate option %q", id))
			continue
		}
		c.index[id] = i
	}
	for context, bundles := range c.Contexts {
		for bundle, ids := range bundles {
			for _, id := range ids {
				if _, ok := c.index[id]; !ok {
					errs = multierr.Append(errs, fmt.Errorf("discovery: context %s/%s references unknown option %q", context, bundle, id))
				}
			}
		}
	}
	return errs
}

// Definition returns the option id with its layered config.
func (c *Catalog) Definition(id string) (styleopts.Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return styleopts.Definition{}, false
	}
	def := c.Options[i]
	def.Config = c.stack(def, nil).Merge()
	return def, true
}

// Definitions returns every option in catalog order with layered config.
func (c *Catalog) Definitions() []styleopts.Definition {
	out := make([]styleopts.Definition, 0, len(c.Options))
	for _, def := range c.Options {
		layered, ok := c.Definition(def.OptionID)
		if ok {
			out = append(out, layered)
		}
	}
	return out
}

// ContextOptions returns the definitions enabled for a context and bundle in
// configured order, with context overrides applied. Unknown contexts yield
// nothing.
func (c *Catalog) ContextOptions(context, bundle string) []styleopts.Definition {
	ids := c.Contexts[context][bundle]
	out := make([]styleopts.Definition, 0, len(ids))
	for _, id := range ids {
		i, ok := c.index[id]
		if !ok {
			continue
		}
		def := c.Options[i]
		def.Config = c.stack(def, c.Overrides[context][bundle][id]).Merge()
		out = append(out, def)
	}
	return out
}

// Trace reports which layer supplied the config value at path for id.
func (c *Catalog) Trace(id, path string) (layering.Trace, bool) {
	i, ok := c.index[id]
	if !ok {
		return layering.Trace{}, false
	}
	return c.stack(c.Options[i], nil).Trace(path), true
}

func (c *Catalog) stack(def styleopts.Definition, override map[string]any) layering.Stack {
	kind := string(def.Plugin)
	layers := []layering.Layer{
		{Level: layering.LevelDefinition, Name: def.OptionID, Config: def.Config},
		{Level: layering.LevelCatalog, Name: kind, Config: c.Defaults[kind]},
	}
	if override != nil {
		layers = append(layers, layering.Layer{Level: layering.LevelContext, Name: def.OptionID, Config: override})
	}
	if c.registry != nil {
		if plugin, err := c.registry.Lookup(def.Plugin); err == nil {
			if defaulter, ok := plugin.(styleopts.ConfigDefaulter); ok {
				layers = append(layers, layering.Layer{Level: layering.LevelPlugin, Name: kind, Config: defaulter.DefaultConfig()})
			}
		}
	}
	return layering.NewStack(layers...)
}
