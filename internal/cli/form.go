package cli

import (
	"github.com/spf13/cobra"

	styleopts "github.com/goliatone/go-style-options"
	"github.com/goliatone/go-style-options/schema/openapi"
)

type formOpts struct {
	value   string // optional JSON file with the current value
	formID  string
	openapi bool
	inline  bool // inline repeated shapes instead of components
}

func (c *CLI) formCommand() *cobra.Command {
	var opts formOpts

	cmd := &cobra.Command{
		Use:   "form [catalog] [option-id]",
		Short: "Print the configuration form of an option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			def, err := catalogDefinition(catalog, args[1])
			if err != nil {
				return err
			}
			var current styleopts.Value
			if opts.value != "" {
				if err := c.readJSON(opts.value, &current); err != nil {
					return err
				}
			}
			form, err := c.newEngine().Form(def, current, styleopts.FormContext{FormID: opts.formID})
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("form built", "option", def.OptionID, "fields", len(form.Fields))
			if !opts.openapi {
				return c.writeJSON(form)
			}
			var genOpts []openapi.GeneratorOption
			if opts.inline {
				genOpts = append(genOpts, openapi.WithoutComponents())
			}
			doc, err := openapi.NewGenerator(genOpts...).Generate(form)
			if err != nil {
				return err
			}
			return c.writeJSON(doc)
		},
	}

	cmd.Flags().StringVar(&opts.value, "value", "", "JSON file holding the current value (- for stdin)")
	cmd.Flags().StringVar(&opts.formID, "form-id", "", "form id passed to plugins")
	cmd.Flags().BoolVar(&opts.openapi, "openapi", false, "emit an OpenAPI 3 document instead of the form spec")
	cmd.Flags().BoolVar(&opts.inline, "inline", false, "with --openapi, inline repeated schemas")

	return cmd
}
