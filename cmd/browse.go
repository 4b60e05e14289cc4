package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/wizard"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse marts and datasets interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newServer()
		if err != nil {
			return err
		}

		sel, err := wizard.Run(srv)
		if err != nil {
			return err
		}
		if sel == nil {
			// Cancelled.
			return nil
		}

		fmt.Println(sel.Mart)
		fmt.Println(sel.Dataset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
