package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-style-options/surface/jsrt"
)

func (c *CLI) scriptCommand() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the browser asset for box size groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rules map[string]map[string]string
			if rulesPath != "" {
				if err := c.readJSON(rulesPath, &rules); err != nil {
					return err
				}
			}
			script, err := jsrt.Script(rules)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.out, script)
			return err
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "JSON rule table replacing the built-in lock rules")

	return cmd
}
