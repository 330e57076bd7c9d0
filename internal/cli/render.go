package cli

import (
	"github.com/spf13/cobra"

	styleopts "github.com/goliatone/go-style-options"
)

type renderOpts struct {
	context string
	bundle  string
	region  string
	entity  string
	cel     bool // evaluate conditions with CEL instead of expr
}

// renderOutput is the JSON printed by the render command.
type renderOutput struct {
	Attributes  map[string]any `json:"attributes"`
	Stylesheets []string       `json:"stylesheets,omitempty"`
	Libraries   []string       `json:"libraries,omitempty"`
	Aux         map[string]any `json:"aux,omitempty"`
	Skipped     []string       `json:"skipped,omitempty"`
	Collisions  []string       `json:"collisions,omitempty"`
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [catalog] [values.json|-]",
		Short: "Render the options of a context and bundle",
		Long:  `Render reads stored values keyed by option id and prints the merged classes, styles, libraries and auxiliary attributes for the options enabled on --context and --bundle.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			var values map[string]styleopts.Value
			if err := c.readJSON(args[1], &values); err != nil {
				return err
			}
			var engineOpts []styleopts.Option
			if opts.cel {
				engineOpts = append(engineOpts, styleopts.WithEvaluator(styleopts.NewCELEvaluator()))
			}
			defs := catalog.ContextOptions(opts.context, opts.bundle)
			logger := loggerFromContext(cmd.Context())
			logger.Debug("rendering", "context", opts.context, "bundle", opts.bundle, "options", len(defs))

			result, err := c.newEngine(engineOpts...).Render(cmd.Context(), styleopts.RenderRequest{
				Definitions: defs,
				Values:      values,
				Context: styleopts.RenderContext{
					Context: opts.context,
					Bundle:  opts.bundle,
					Region:  opts.region,
					Entity:  opts.entity,
				},
			})
			out := renderOutput{
				Attributes:  result.Tree.Attributes(),
				Stylesheets: result.Tree.Stylesheets,
				Libraries:   result.Tree.Libraries,
				Aux:         result.Tree.Aux,
				Skipped:     result.Skipped,
			}
			for _, collision := range styleopts.Collisions(err) {
				out.Collisions = append(out.Collisions, collision.Error())
			}
			if err != nil && len(out.Collisions) == 0 {
				return err
			}
			return c.writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&opts.context, "context", "", "render context, e.g. paragraphs")
	cmd.Flags().StringVar(&opts.bundle, "bundle", "", "bundle within the context")
	cmd.Flags().StringVar(&opts.region, "region", "", "layout region seen by conditions")
	cmd.Flags().StringVar(&opts.entity, "entity", "", "entity id seen by conditions")
	cmd.Flags().BoolVar(&opts.cel, "cel", false, "evaluate conditions with CEL")
	_ = cmd.MarkFlagRequired("context")
	_ = cmd.MarkFlagRequired("bundle")

	return cmd
}
