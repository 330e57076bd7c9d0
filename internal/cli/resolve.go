package cli

import (
	"github.com/spf13/cobra"

	styleopts "github.com/goliatone/go-style-options"
)

type resolveOpts struct {
	lock     styleopts.LockState
	values   styleopts.DirectionalValueSet
	fallback string
}

// resolveOutput is the JSON printed by the resolve command.
type resolveOutput struct {
	Lock    string                        `json:"lock"`
	Values  styleopts.DirectionalValueSet `json:"values"`
	Derived []string                      `json:"derived"`
}

func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{fallback: styleopts.DefaultValue}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Apply axis locks to direction values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.writeJSON(runResolve(opts))
		},
	}

	cmd.Flags().BoolVar(&opts.lock.X, "x", false, "lock the horizontal axis")
	cmd.Flags().BoolVar(&opts.lock.Y, "y", false, "lock the vertical axis")
	cmd.Flags().BoolVar(&opts.lock.All, "all", false, "lock all directions to top")
	cmd.Flags().StringVar(&opts.values.Top, "top", "", "top value")
	cmd.Flags().StringVar(&opts.values.Right, "right", "", "right value")
	cmd.Flags().StringVar(&opts.values.Bottom, "bottom", "", "bottom value")
	cmd.Flags().StringVar(&opts.values.Left, "left", "", "left value")
	cmd.Flags().StringVar(&opts.fallback, "fallback", opts.fallback, "value for directions left empty")

	return cmd
}

func runResolve(opts resolveOpts) resolveOutput {
	resolution := styleopts.Resolve(opts.lock, opts.values, opts.fallback)
	out := resolveOutput{Lock: opts.lock.Key(), Values: resolution.Values, Derived: []string{}}
	for _, d := range resolution.Derived.List() {
		out.Derived = append(out.Derived, d.String())
	}
	return out
}
