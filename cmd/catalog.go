package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/biomart"
)

var catalogOutput string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Snapshot the full mart/dataset hierarchy to YAML",
	Long:  `Walk every mart on the server, fetch its dataset list, and write the discovered hierarchy as a YAML catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newServer()
		if err != nil {
			return err
		}

		fmt.Printf("Discovering %s...\n", srv.URL())
		cat, err := biomart.BuildCatalog(context.Background(), srv)
		if err != nil {
			return fmt.Errorf("building catalog: %w", err)
		}

		fmt.Println(cat.Summary())

		outputPath := catalogOutput
		if outputPath == "" {
			outputPath = filepath.Join("output", "catalog.yaml")
		}
		if err := cat.WriteYAML(outputPath); err != nil {
			return fmt.Errorf("writing catalog: %w", err)
		}
		fmt.Printf("\nCatalog written to %s\n", outputPath)

		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogOutput, "output", "o", "", "output path for catalog YAML (default: output/catalog.yaml)")
	rootCmd.AddCommand(catalogCmd)
}
