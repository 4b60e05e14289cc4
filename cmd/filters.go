package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/render"
)

var filtersCmd = &cobra.Command{
	Use:   "filters <mart> <dataset>",
	Short: "List the filters a dataset accepts",
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

		filters, err := dataset.Filters(ctx)
		if err != nil {
			return fmt.Errorf("listing filters: %w", err)
		}

		rows := make([][]string, 0, len(filters))
		for _, f := range filters {
			rows = append(rows, []string{f.Name, f.Type, f.Description})
		}
		sortRows(rows)

		fmt.Print(render.Table([]string{"NAME", "TYPE", "DESCRIPTION"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}
