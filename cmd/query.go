package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martkit/martkit/internal/biomart"
	"github.com/martkit/martkit/internal/export"
	"github.com/martkit/martkit/internal/logging"
)

var (
	queryAttributes []string
	queryFilters    []string
	queryDest       string
	queryName       string
)

var queryCmd = &cobra.Command{
	Use:   "query <mart> <dataset>",
	Short: "Run an attribute/filter query against a dataset",
	Long: `Run a query and deliver the result. Without --to, the rows print to
stdout as TSV. --to accepts a file path (.tsv or .csv), a postgres://
connection string, or a mongodb:// connection string.

Filter values may be plain strings, comma-separated lists, or the
booleans true/false (which include or exclude rows):

  martkit query ensembl hsapiens_gene_ensembl \
    -a ensembl_gene_id,external_gene_name \
    -f chromosome_name=1,2 -f with_protein_id=true \
    --to postgres://localhost/genes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Directory)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}

		srv := biomart.NewServer(cfg.Settings())
		ctx := context.Background()

		mart, err := srv.Mart(ctx, args[0])
		if err != nil {
			return err
		}
		dataset, err := mart.Dataset(ctx, args[1])
		if err != nil {
			return err
		}

		filters, err := parseFilters(queryFilters)
		if err != nil {
			return err
		}

		log.Info("running query",
			"mart", mart.Name(),
			"dataset", dataset.Name(),
			"attributes", len(queryAttributes),
			"filters", len(filters))

		res, err := dataset.Query(ctx, biomart.QueryParams{
			Attributes: splitList(queryAttributes),
			Filters:    filters,
		})
		if err != nil {
			return fmt.Errorf("querying %s: %w", dataset.Name(), err)
		}
		log.Info("query finished", "rows", len(res.Rows), "columns", len(res.Columns))

		dest := queryDest
		if dest == "" {
			dest = "-"
		}
		sink, err := export.New(ctx, dest)
		if err != nil {
			return fmt.Errorf("opening destination: %w", err)
		}
		defer sink.Close(ctx)

		name := queryName
		if name == "" {
			name = dataset.Name()
		}
		if err := sink.Write(ctx, name, res); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		return nil
	},
}

// parseFilters turns repeated -f name=value flags into query filters.
// Comma-separated values become lists; true/false become booleans.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid filter %q (want name=value)", pair)
		}
		switch {
		case value == "true":
			filters[name] = true
		case value == "false":
			filters[name] = false
		case strings.Contains(value, ","):
			filters[name] = strings.Split(value, ",")
		default:
			filters[name] = value
		}
	}
	return filters, nil
}

// splitList flattens repeated and comma-separated flag values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func init() {
	queryCmd.Flags().StringSliceVarP(&queryAttributes, "attribute", "a", nil, "attribute to select (repeatable, comma-separated)")
	queryCmd.Flags().StringArrayVarP(&queryFilters, "filter", "f", nil, "filter as name=value (repeatable)")
	queryCmd.Flags().StringVar(&queryDest, "to", "", "destination: file path, postgres:// or mongodb:// URI (default: stdout)")
	queryCmd.Flags().StringVar(&queryName, "name", "", "table/collection name at the destination (default: dataset name)")
	rootCmd.AddCommand(queryCmd)
}
