package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/render"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets <mart>",
	Short: "List the datasets in a mart",
	Args:  cobra.ExactArgs(1),
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

		datasets, err := mart.Datasets(ctx)
		if err != nil {
			return fmt.Errorf("listing datasets: %w", err)
		}

		rows := make([][]string, 0, len(datasets))
		for _, d := range datasets {
			rows = append(rows, []string{d.Name(), d.DisplayName(), d.VirtualSchema()})
		}
		sortRows(rows)

		fmt.Print(render.Table([]string{"NAME", "DISPLAY NAME", "SCHEMA"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
