package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// uploadHeadSize covers the signatures the upload validators sniff.
const uploadHeadSize = 262

type uploadOutput struct {
	Option   string `json:"option"`
	File     string `json:"file"`
	Accepted bool   `json:"accepted"`
}

func (c *CLI) uploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [catalog] [option-id] [file|-]",
		Short: "Check a file against the upload types an option accepts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(args[0])
			if err != nil {
				return err
			}
			def, err := catalogDefinition(catalog, args[1])
			if err != nil {
				return err
			}
			head, err := c.readHead(args[2])
			if err != nil {
				return err
			}
			if err := c.newEngine().ValidateUpload(def, head); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("upload accepted", "option", def.OptionID, "file", args[2])
			return c.writeJSON(uploadOutput{Option: def.OptionID, File: args[2], Accepted: true})
		},
	}
	return cmd
}

// readHead reads the leading bytes of the file at path, or stdin for "-".
func (c *CLI) readHead(path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = c.in
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	head := make([]byte, uploadHeadSize)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return head[:n], nil
}
