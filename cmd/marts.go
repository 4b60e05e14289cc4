package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/render"
)

var martsCmd = &cobra.Command{
	Use:   "marts",
	Short: "List the marts on the server",
	Long:  `Fetch the registry of the configured mart service and list every mart it advertises.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newServer()
		if err != nil {
			return err
		}

		marts, err := srv.Marts(context.Background())
		if err != nil {
			return fmt.Errorf("listing marts: %w", err)
		}

		rows := make([][]string, 0, len(marts))
		for _, m := range marts {
			rows = append(rows, []string{m.Name(), m.DatabaseName(), m.DisplayName()})
		}
		sortRows(rows)

		fmt.Print(render.Table([]string{"NAME", "DATABASE", "DISPLAY NAME"}, rows))
		return nil
	},
}

// sortRows orders table rows by their first cell.
func sortRows(rows [][]string) {
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
}

func init() {
	rootCmd.AddCommand(martsCmd)
}
