package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/render"
)

var attributesCmd = &cobra.Command{
	Use:   "attributes <mart> <dataset>",
	Short: "List the attributes a dataset can produce",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newServer()
		if err != nil {
			return err
		}

		ctx := context.Background()
		mart, err := srv.Mart(ctx, args[0])
		if err != nil {
			return err
		}
		dataset, err := mart.Dataset(ctx, args[1])
		if err != nil {
			return err
		}

		attrs, err := dataset.Attributes(ctx)
		if err != nil {
			return fmt.Errorf("listing attributes: %w", err)
		}

		rows := make([][]string, 0, len(attrs))
		for _, a := range attrs {
			def := ""
			if a.Default {
				def = "*"
			}
			rows = append(rows, []string{a.Name, a.DisplayName, def})
		}
		sortRows(rows)

		fmt.Print(render.Table([]string{"NAME", "DISPLAY NAME", "DEFAULT"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attributesCmd)
}
