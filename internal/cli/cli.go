// Package cli implements the styleopts command-line interface.
//
// # Commands
//
//   - resolve: apply a lock state to four direction values
//   - form: print the configuration form of a catalog option, optionally as OpenAPI
//   - submit: normalize raw form input and optionally persist it
//   - render: build the render tree for a context and bundle
//   - script: print the browser asset with the lock rule table
//   - upload: check a file against the types a background option accepts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The charm
// logger travels through context.Context and is adapted to styleopts.Logger
// for engine events.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/discovery"
	"github.com/goliatone/go-style-options/plugins"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
	in     io.Reader
}

// New creates a CLI writing logs to logs and command output to stdout.
func New(logs io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(logs, level), out: os.Stdout, in: os.Stdin}
}

// SetOutput redirects command output, mostly for tests.
func (c *CLI) SetOutput(out io.Writer) {
	c.out = out
}

// SetInput replaces stdin for "-" arguments.
func (c *CLI) SetInput(in io.Reader) {
	c.in = in
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "styleopts",
		Short:        "styleopts resolves, renders and serves style options",
		Long:         `styleopts works with style option catalogs: it resolves box size locks, prints configuration forms, normalizes submissions and renders classes, styles and libraries for a render context.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.formCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scriptCommand())
	root.AddCommand(c.uploadCommand())

	return root
}

func (c *CLI) newEngine(opts ...styleopts.Option) *styleopts.Engine {
	opts = append([]styleopts.Option{styleopts.WithLogger(eventLogger{logger: c.Logger})}, opts...)
	return styleopts.NewEngine(plugins.Default(), opts...)
}

func loadCatalog(path string) (*discovery.Catalog, error) {
	return discovery.Load(path, discovery.WithRegistry(plugins.Default()))
}

func catalogDefinition(catalog *discovery.Catalog, id string) (styleopts.Definition, error) {
	def, ok := catalog.Definition(id)
	if !ok {
		return styleopts.Definition{}, fmt.Errorf("unknown option %q", id)
	}
	return def, nil
}

// readJSON decodes the file at path, or stdin for "-", into out.
func (c *CLI) readJSON(path string, out any) error {
	var r io.Reader
	if path == "-" {
		r = c.in
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *CLI) writeJSON(value any) error {
	encoder := json.NewEncoder(c.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
